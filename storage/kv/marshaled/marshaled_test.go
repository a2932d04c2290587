package marshaled_test

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/saloonhub/saloonstore/storage/kv"
	"github.com/saloonhub/saloonstore/storage/kv/marshaled"
	"github.com/saloonhub/saloonstore/storage/kv/plugins"
)

type stringCodec struct{}

func (stringCodec) Marshal(value string) ([]byte, error) {
	return []byte(value), nil
}

func (stringCodec) Unmarshal(data []byte) (string, error) {
	return string(data), nil
}

type entry struct {
	Key   uint64
	Value string
}

func newMap(t *testing.T, plugin kv.Plugin, maxSize int) (kv.Store, *marshaled.Map[string]) {
	store, err := plugin.NewTempStore()

	if err != nil {
		t.Fatalf("Could not build a %s store: %s", plugin.Name(), err.Error())
	}

	t.Cleanup(func() { store.Delete() })

	m := marshaled.New[string]([]byte("values"), stringCodec{}, maxSize)

	if err := kv.Update(store, m.Init); err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	return store, m
}

func entries(t *testing.T, store kv.Store, m *marshaled.Map[string]) []entry {
	result := []entry{}

	err := kv.View(store, func(txn kv.Transaction) error {
		values, err := m.In(txn)

		if err != nil {
			return err
		}

		return values.Iterate(func(key uint64, value string) (bool, error) {
			result = append(result, entry{key, value})

			return true, nil
		})
	})

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	return result
}

func TestMap(t *testing.T) {
	for _, plugin := range plugins.Plugins() {
		plugin := plugin

		t.Run(plugin.Name(), func(t *testing.T) {
			t.Run("insert-get-remove", func(t *testing.T) { testInsertGetRemove(t, plugin) })
			t.Run("iterate-order", func(t *testing.T) { testIterateOrder(t, plugin) })
			t.Run("max-size", func(t *testing.T) { testMaxSize(t, plugin) })
		})
	}
}

func testInsertGetRemove(t *testing.T, plugin kv.Plugin) {
	store, m := newMap(t, plugin, 0)

	err := kv.Update(store, func(txn kv.Transaction) error {
		values, err := m.In(txn)

		if err != nil {
			return err
		}

		if _, ok, err := values.Insert(1, "a"); err != nil || ok {
			return fmt.Errorf("expected first insert to report no previous value: ok=%v err=%v", ok, err)
		}

		previous, ok, err := values.Insert(1, "b")

		if err != nil || !ok || previous != "a" {
			return fmt.Errorf("expected previous value a: previous=%q ok=%v err=%v", previous, ok, err)
		}

		if value, ok, err := values.Get(1); err != nil || !ok || value != "b" {
			return fmt.Errorf("expected b: value=%q ok=%v err=%v", value, ok, err)
		}

		if _, ok, err := values.Get(2); err != nil || ok {
			return fmt.Errorf("expected key 2 to be missing: ok=%v err=%v", ok, err)
		}

		removed, ok, err := values.Remove(1)

		if err != nil || !ok || removed != "b" {
			return fmt.Errorf("expected to remove b: removed=%q ok=%v err=%v", removed, ok, err)
		}

		if _, ok, err := values.Remove(1); err != nil || ok {
			return fmt.Errorf("expected second remove to find nothing: ok=%v err=%v", ok, err)
		}

		return nil
	})

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}
}

func testIterateOrder(t *testing.T, plugin kv.Plugin) {
	store, m := newMap(t, plugin, 0)
	inserted := []uint64{300, 2, 1 << 40, 17, 1}

	err := kv.Update(store, func(txn kv.Transaction) error {
		values, err := m.In(txn)

		if err != nil {
			return err
		}

		for _, key := range inserted {
			if _, _, err := values.Insert(key, strconv.FormatUint(key, 10)); err != nil {
				return err
			}
		}

		n, err := values.Len()

		if err != nil {
			return err
		}

		if n != uint64(len(inserted)) {
			return fmt.Errorf("expected %d entries, got %d", len(inserted), n)
		}

		return nil
	})

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	expected := []entry{
		{1, "1"},
		{2, "2"},
		{17, "17"},
		{300, "300"},
		{1 << 40, "1099511627776"},
	}

	if diff := cmp.Diff(expected, entries(t, store, m)); diff != "" {
		t.Fatal(diff)
	}
}

func testMaxSize(t *testing.T, plugin kv.Plugin) {
	store, m := newMap(t, plugin, 4)

	err := kv.Update(store, func(txn kv.Transaction) error {
		values, err := m.In(txn)

		if err != nil {
			return err
		}

		if _, _, err := values.Insert(1, "abcd"); err != nil {
			return err
		}

		_, _, err = values.Insert(1, "abcde")

		return err
	})

	if !errors.Is(err, marshaled.ErrValueTooLarge) {
		t.Fatalf("expected ErrValueTooLarge, got %#v", err)
	}

	if diff := cmp.Diff([]entry{}, entries(t, store, m)); diff != "" {
		t.Fatal(diff)
	}
}

func TestInWithoutInit(t *testing.T) {
	store, err := plugins.Plugin("memory").NewTempStore()

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	m := marshaled.New[string]([]byte("values"), stringCodec{}, 0)

	err = kv.View(store, func(txn kv.Transaction) error {
		_, err := m.In(txn)

		return err
	})

	if !errors.Is(err, kv.ErrNoSuchBucket) {
		t.Fatalf("expected ErrNoSuchBucket, got %#v", err)
	}
}
