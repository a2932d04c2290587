package sequence_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/saloonhub/saloonstore/storage/kv"
	"github.com/saloonhub/saloonstore/storage/kv/plugins"
	"github.com/saloonhub/saloonstore/storage/kv/plugins/bbolt"
	"github.com/saloonhub/saloonstore/storage/sequence"
)

func next(t *testing.T, store kv.Store, allocator *sequence.Allocator) uint64 {
	var id uint64

	if err := kv.Update(store, func(txn kv.Transaction) error {
		var err error
		id, err = allocator.Next(txn)

		return err
	}); err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	return id
}

func TestAllocator(t *testing.T) {
	for _, plugin := range plugins.Plugins() {
		plugin := plugin

		t.Run(plugin.Name(), func(t *testing.T) {
			store, err := plugin.NewTempStore()

			if err != nil {
				t.Fatalf("Could not build a %s store: %s", plugin.Name(), err.Error())
			}

			defer store.Delete()

			allocator := sequence.New([]byte("ids"))

			if err := kv.Update(store, allocator.Init); err != nil {
				t.Fatalf("expected err to be nil, got %#v", err)
			}

			ids := []uint64{next(t, store, allocator), next(t, store, allocator)}

			errAbort := errors.New("abort")

			if err := kv.Update(store, func(txn kv.Transaction) error {
				if _, err := allocator.Next(txn); err != nil {
					return err
				}

				return errAbort
			}); !errors.Is(err, errAbort) {
				t.Fatalf("expected errAbort, got %#v", err)
			}

			ids = append(ids, next(t, store, allocator))

			if diff := cmp.Diff([]uint64{1, 2, 3}, ids); diff != "" {
				t.Fatal(diff)
			}

			if err := kv.View(store, func(txn kv.Transaction) error {
				current, err := allocator.Current(txn)

				if err != nil {
					return err
				}

				if current != 3 {
					t.Errorf("expected current to be 3, got %d", current)
				}

				return nil
			}); err != nil {
				t.Fatalf("expected err to be nil, got %#v", err)
			}
		})
	}
}

func TestAllocatorSurvivesRestart(t *testing.T) {
	path := t.TempDir() + "/ids.db"
	allocator := sequence.New([]byte("ids"))

	store, err := bbolt.New(bbolt.BBoltStoreConfig{Path: path})

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	if err := kv.Update(store, allocator.Init); err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	next(t, store, allocator)
	next(t, store, allocator)

	if err := store.Close(); err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	store, err = bbolt.New(bbolt.BBoltStoreConfig{Path: path})

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	defer store.Close()

	if id := next(t, store, allocator); id != 3 {
		t.Fatalf("expected 3 after restart, got %d", id)
	}
}

func TestAllocatorWithoutInit(t *testing.T) {
	store, err := plugins.Plugin("memory").NewTempStore()

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	err = kv.Update(store, func(txn kv.Transaction) error {
		_, err := sequence.New([]byte("ids")).Next(txn)

		return err
	})

	if !errors.Is(err, kv.ErrNoSuchBucket) {
		t.Fatalf("expected ErrNoSuchBucket, got %#v", err)
	}
}
