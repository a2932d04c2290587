package kv

import (
	"errors"
)

var (
	// ErrClosed indicates that the store was closed
	ErrClosed = errors.New("store was closed")
	// ErrNoSuchBucket indicates that the bucket doesn't exist. It hasn't been created yet.
	ErrNoSuchBucket = errors.New("bucket does not exist")
	// ErrReadOnly is returned when a read-only transaction attempts an update operation
	ErrReadOnly = errors.New("transaction is read-only")
	// ErrEmptyKey is returned when a key is nil or empty
	ErrEmptyKey = errors.New("key must not be empty")
	// ErrTxDone is returned when a transaction is used after it was committed or rolled back
	ErrTxDone = errors.New("transaction was already committed or rolled back")
)

// PluginOptions is a generic structure to pass
// configuration to a storage plugin
type PluginOptions map[string]interface{}

// Plugin represents a kv storage plugin
type Plugin interface {
	// Name returns the name of the storage plugin
	Name() string
	// NewStore returns an instance of the plugin store
	NewStore(options PluginOptions) (Store, error)
	// NewTempStore returns an instance of the plugin store
	// initialized with some sane defaults. It is meant for
	// tests that need an initialized instance of the plugin's
	// store without knowing how to initialize it
	NewTempStore() (Store, error)
}

// Store is the root of a kv store
type Store interface {
	// Begin starts a transaction. writable should be true for
	// read-write transactions and false for read-only transactions.
	// It must return ErrClosed if its invocation starts after Close() returns.
	Begin(writable bool) (Transaction, error)
	// Close closes the store. Close must not return until all
	// read-write transactions have either rolled back or committed.
	Close() error
	// Delete closes then deletes this store and all its contents.
	Delete() error
}

// Transaction is a transaction for a store. It must only be
// used by one goroutine at a time.
type Transaction interface {
	// Bucket returns the bucket with this name or nil
	// if it does not exist.
	Bucket(name []byte) Bucket
	// CreateBucketIfNotExists returns the bucket with this name,
	// creating it first if necessary. It must return ErrReadOnly
	// for read-only transactions.
	CreateBucketIfNotExists(name []byte) (Bucket, error)
	// Writable returns true if this is a read-write transaction
	Writable() bool
	// Commit commits the transaction. It must return ErrReadOnly for
	// read-only transactions, which are finished with Rollback.
	Commit() error
	// Rollback rolls back the transaction. Calling Rollback after the
	// transaction has finished has no effect.
	Rollback() error
}

// Bucket is a sorted key-value map with a sequence counter.
// Byte slices returned by a bucket are only valid for the
// life of the transaction.
type Bucket interface {
	// Get gets a key. It must observe updates to that key made
	// previously by this transaction. It must return nil if the
	// requested key does not exist.
	Get(key []byte) ([]byte, error)
	// Put puts a key. Put must return an error
	// if the key is nil or empty.
	Put(key []byte, value []byte) error
	// Delete deletes a key. If the key doesn't exist it has no effect
	// and returns nil.
	Delete(key []byte) error
	// Cursor returns a cursor over the keys of this bucket
	// in ascending order.
	Cursor() Cursor
	// NextSequence increments the bucket's sequence and returns
	// the new value. The first value returned is 1.
	NextSequence() (uint64, error)
	// Sequence returns the current value of the bucket's sequence
	// without incrementing it.
	Sequence() (uint64, error)
}

// Cursor iterates over the keys of a bucket in ascending order.
// A nil key means the cursor is exhausted. The bucket must not be
// mutated while a cursor is in use.
type Cursor interface {
	// First moves to the first key
	First() (key []byte, value []byte)
	// Next moves to the next key
	Next() (key []byte, value []byte)
	// Seek moves to the first key that is greater than or
	// equal to seek
	Seek(seek []byte) (key []byte, value []byte)
	// Error returns the error, if any, that caused the
	// cursor to stop early.
	Error() error
}
