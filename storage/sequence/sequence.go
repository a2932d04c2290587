// Package sequence allocates identifiers from a durable counter.
//
// The counter lives in its own kv bucket and starts at 0. Each call
// to Next increments it inside the caller's read-write transaction
// and returns the new value, so the first identifier is 1. Once the
// transaction commits the identifier is never handed out again, even
// after a restart. If the transaction rolls back the increment is
// discarded with it and no identifier was consumed.
package sequence

import (
	"fmt"

	"github.com/saloonhub/saloonstore/storage/kv"
)

// Allocator issues unique, strictly increasing identifiers
type Allocator struct {
	name []byte
}

// New creates an allocator backed by the bucket called name
func New(name []byte) *Allocator {
	return &Allocator{name: name}
}

// Init creates the backing bucket if it does not exist
func (allocator *Allocator) Init(txn kv.Transaction) error {
	if _, err := txn.CreateBucketIfNotExists(allocator.name); err != nil {
		return fmt.Errorf("could not create bucket %s: %w", allocator.name, err)
	}

	return nil
}

// Next returns the next identifier
func (allocator *Allocator) Next(txn kv.Transaction) (uint64, error) {
	bucket, err := allocator.bucket(txn)

	if err != nil {
		return 0, err
	}

	id, err := bucket.NextSequence()

	if err != nil {
		return 0, fmt.Errorf("could not allocate id: %w", err)
	}

	return id, nil
}

// Current returns the most recently issued identifier
// or 0 if none was issued yet
func (allocator *Allocator) Current(txn kv.Transaction) (uint64, error) {
	bucket, err := allocator.bucket(txn)

	if err != nil {
		return 0, err
	}

	return bucket.Sequence()
}

func (allocator *Allocator) bucket(txn kv.Transaction) (kv.Bucket, error) {
	bucket := txn.Bucket(allocator.name)

	if bucket == nil {
		return nil, fmt.Errorf("bucket %s: %w", allocator.name, kv.ErrNoSuchBucket)
	}

	return bucket, nil
}
