package sqlite_test

import (
	"errors"
	"testing"

	"github.com/saloonhub/saloonstore/storage/kv"
	"github.com/saloonhub/saloonstore/storage/kv/plugins/sqlite"
)

func tempStore(t *testing.T) kv.Store {
	store, err := (&sqlite.SQLitePlugin{}).NewTempStore()

	if err != nil {
		t.Fatalf("Could not build a sqlite store: %s", err.Error())
	}

	t.Cleanup(func() { store.Delete() })

	return store
}

func TestBucketMissing(t *testing.T) {
	store := tempStore(t)

	err := kv.View(store, func(txn kv.Transaction) error {
		if bucket := txn.Bucket([]byte("saloons")); bucket != nil {
			t.Fatalf("expected a missing bucket to be nil, got %#v", bucket)
		}

		return nil
	})

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}
}

func TestBucketAfterRollback(t *testing.T) {
	store := tempStore(t)

	err := kv.Update(store, func(txn kv.Transaction) error {
		bucket, err := txn.CreateBucketIfNotExists([]byte("saloons"))

		if err != nil {
			return err
		}

		return bucket.Put([]byte("a"), []byte("1"))
	})

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	txn, err := store.Begin(false)

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	if err := txn.Rollback(); err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	bucket := txn.Bucket([]byte("saloons"))

	if bucket == nil {
		t.Fatalf("expected a finished transaction not to report the bucket as missing")
	}

	if _, err := bucket.Get([]byte("a")); !errors.Is(err, kv.ErrTxDone) {
		t.Fatalf("expected ErrTxDone, got %#v", err)
	}

	if _, err := bucket.Sequence(); !errors.Is(err, kv.ErrTxDone) {
		t.Fatalf("expected ErrTxDone, got %#v", err)
	}

	if err := bucket.Cursor().Error(); !errors.Is(err, kv.ErrTxDone) {
		t.Fatalf("expected ErrTxDone, got %#v", err)
	}
}

func TestBucketFromFinishedWrite(t *testing.T) {
	store := tempStore(t)

	txn, err := store.Begin(true)

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	bucket, err := txn.CreateBucketIfNotExists([]byte("saloons"))

	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	if err := txn.Commit(); err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	if err := bucket.Put([]byte("a"), []byte("1")); !errors.Is(err, kv.ErrTxDone) {
		t.Fatalf("expected ErrTxDone, got %#v", err)
	}

	if _, err := bucket.NextSequence(); !errors.Is(err, kv.ErrTxDone) {
		t.Fatalf("expected ErrTxDone, got %#v", err)
	}
}
