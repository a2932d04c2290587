// Package marshaled layers typed values over a kv bucket. A Map
// describes the bucket and how its values are encoded; binding it to
// a transaction with In yields a Txn that reads and writes V values
// keyed by uint64 in ascending key order.
package marshaled

import (
	"errors"
	"fmt"

	"github.com/saloonhub/saloonstore/storage/kv"
	"github.com/saloonhub/saloonstore/storage/kv/keys"
)

// ErrValueTooLarge is returned when an encoded value
// exceeds the map's maximum value size
var ErrValueTooLarge = errors.New("encoded value exceeds maximum size")

// Codec describes how values of type V are
// marshaled to and from bytes
type Codec[V any] interface {
	Marshal(value V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// Map is a durable mapping from uint64 keys to V values
// stored in a single kv bucket
type Map[V any] struct {
	name    []byte
	codec   Codec[V]
	maxSize int
}

// New creates a map stored in the bucket called name. Encoded values
// may be at most maxSize bytes long. maxSize <= 0 means no bound.
func New[V any](name []byte, codec Codec[V], maxSize int) *Map[V] {
	return &Map[V]{name: name, codec: codec, maxSize: maxSize}
}

// Init creates the backing bucket if it does not exist
func (m *Map[V]) Init(txn kv.Transaction) error {
	if _, err := txn.CreateBucketIfNotExists(m.name); err != nil {
		return fmt.Errorf("could not create bucket %s: %w", m.name, err)
	}

	return nil
}

// In binds the map to a transaction. It returns kv.ErrNoSuchBucket
// if Init was never committed for this map.
func (m *Map[V]) In(txn kv.Transaction) (*Txn[V], error) {
	bucket := txn.Bucket(m.name)

	if bucket == nil {
		return nil, fmt.Errorf("bucket %s: %w", m.name, kv.ErrNoSuchBucket)
	}

	return &Txn[V]{m: m, bucket: bucket}, nil
}

// Encode marshals value and enforces the size bound
func (m *Map[V]) Encode(value V) ([]byte, error) {
	data, err := m.codec.Marshal(value)

	if err != nil {
		return nil, fmt.Errorf("could not marshal value: %w", err)
	}

	if m.maxSize > 0 && len(data) > m.maxSize {
		return nil, fmt.Errorf("%w: %d bytes > %d bytes", ErrValueTooLarge, len(data), m.maxSize)
	}

	return data, nil
}

// Txn is a Map bound to a kv transaction
type Txn[V any] struct {
	m      *Map[V]
	bucket kv.Bucket
}

// Get returns the value stored at key. ok is false
// if there is no such key.
func (txn *Txn[V]) Get(key uint64) (value V, ok bool, err error) {
	data, err := txn.bucket.Get(keys.Uint64ToKey(key))

	if err != nil {
		return value, false, fmt.Errorf("could not get key %d: %w", key, err)
	}

	if data == nil {
		return value, false, nil
	}

	value, err = txn.m.codec.Unmarshal(data)

	if err != nil {
		return value, false, fmt.Errorf("could not unmarshal value at key %d: %w", key, err)
	}

	return value, true, nil
}

// Insert stores value at key and returns the value
// it replaced, if any. Nothing is written if the value
// fails to encode.
func (txn *Txn[V]) Insert(key uint64, value V) (previous V, ok bool, err error) {
	data, err := txn.m.Encode(value)

	if err != nil {
		return previous, false, err
	}

	previous, ok, err = txn.Get(key)

	if err != nil {
		return previous, false, err
	}

	if err := txn.bucket.Put(keys.Uint64ToKey(key), data); err != nil {
		return previous, false, fmt.Errorf("could not put key %d: %w", key, err)
	}

	return previous, ok, nil
}

// Remove deletes key and returns the value it held, if any
func (txn *Txn[V]) Remove(key uint64) (previous V, ok bool, err error) {
	previous, ok, err = txn.Get(key)

	if err != nil || !ok {
		return previous, false, err
	}

	if err := txn.bucket.Delete(keys.Uint64ToKey(key)); err != nil {
		return previous, false, fmt.Errorf("could not delete key %d: %w", key, err)
	}

	return previous, true, nil
}

// Iterate calls fn for every key-value pair in ascending
// key order until fn returns false or an error.
func (txn *Txn[V]) Iterate(fn func(key uint64, value V) (bool, error)) error {
	cursor := txn.bucket.Cursor()

	for k, data := cursor.First(); k != nil; k, data = cursor.Next() {
		key, err := keys.KeyToUint64(k)

		if err != nil {
			return fmt.Errorf("invalid key in bucket %s: %w", txn.m.name, err)
		}

		value, err := txn.m.codec.Unmarshal(data)

		if err != nil {
			return fmt.Errorf("could not unmarshal value at key %d: %w", key, err)
		}

		if cont, err := fn(key, value); err != nil {
			return err
		} else if !cont {
			return nil
		}
	}

	return cursor.Error()
}

// Len counts the keys in the map
func (txn *Txn[V]) Len() (uint64, error) {
	var n uint64

	cursor := txn.bucket.Cursor()

	for k, _ := cursor.First(); k != nil; k, _ = cursor.Next() {
		n++
	}

	return n, cursor.Error()
}
