// Package memory implements an in-memory kv driver. It honors
// the transactional semantics of the kv interfaces but nothing
// survives closing the store, so it is meant for tests and
// throwaway runs.
package memory

import (
	"sort"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/saloonhub/saloonstore/storage/kv"
	"github.com/saloonhub/saloonstore/storage/kv/keys"
)

const (
	DriverName = "memory"
)

func Plugins() []kv.Plugin {
	return []kv.Plugin{
		&MemoryPlugin{},
	}
}

type MemoryPlugin struct {
}

func (plugin *MemoryPlugin) Name() string {
	return DriverName
}

func (plugin *MemoryPlugin) NewStore(options kv.PluginOptions) (kv.Store, error) {
	return New(), nil
}

func (plugin *MemoryPlugin) NewTempStore() (kv.Store, error) {
	return New(), nil
}

var _ kv.Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory implementation of kv.Store.
// Read-write transactions work on a private copy of the
// buckets they touch which replaces the shared state on commit.
// Only one read-write transaction may be open at a time.
type MemoryStore struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	buckets map[string]*memoryBucketState
	closed  bool
}

// New creates an empty MemoryStore
func New() *MemoryStore {
	return &MemoryStore{buckets: map[string]*memoryBucketState{}}
}

func (store *MemoryStore) Begin(writable bool) (kv.Transaction, error) {
	if writable {
		store.writeMu.Lock()
	}

	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.closed {
		if writable {
			store.writeMu.Unlock()
		}

		return nil, kv.ErrClosed
	}

	buckets := make(map[string]*memoryBucketState, len(store.buckets))

	for name, bucket := range store.buckets {
		buckets[name] = bucket
	}

	return &MemoryTransaction{
		store:    store,
		buckets:  buckets,
		copied:   map[string]bool{},
		writable: writable,
	}, nil
}

func (store *MemoryStore) Close() error {
	store.writeMu.Lock()
	defer store.writeMu.Unlock()

	store.mu.Lock()
	defer store.mu.Unlock()

	store.closed = true

	return nil
}

func (store *MemoryStore) Delete() error {
	if err := store.Close(); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	store.buckets = map[string]*memoryBucketState{}

	return nil
}

type memoryBucketState struct {
	sequence uint64
	m        *treemap.Map
}

func newMemoryBucketState() *memoryBucketState {
	return &memoryBucketState{m: treemap.NewWith(func(a, b interface{}) int {
		return keys.Compare(a.([]byte), b.([]byte))
	})}
}

func (state *memoryBucketState) clone() *memoryBucketState {
	c := newMemoryBucketState()
	c.sequence = state.sequence

	iter := state.m.Iterator()

	for iter.Next() {
		c.m.Put(iter.Key(), iter.Value())
	}

	return c
}

var _ kv.Transaction = (*MemoryTransaction)(nil)

type MemoryTransaction struct {
	store    *MemoryStore
	buckets  map[string]*memoryBucketState
	copied   map[string]bool
	writable bool
	done     bool
}

func (transaction *MemoryTransaction) Bucket(name []byte) kv.Bucket {
	if _, ok := transaction.buckets[string(name)]; !ok {
		return nil
	}

	return &MemoryBucket{transaction: transaction, name: string(name)}
}

func (transaction *MemoryTransaction) CreateBucketIfNotExists(name []byte) (kv.Bucket, error) {
	if transaction.done {
		return nil, kv.ErrTxDone
	}

	if !transaction.writable {
		return nil, kv.ErrReadOnly
	}

	if len(name) == 0 {
		return nil, kv.ErrEmptyKey
	}

	if _, ok := transaction.buckets[string(name)]; !ok {
		transaction.buckets[string(name)] = newMemoryBucketState()
		transaction.copied[string(name)] = true
	}

	return &MemoryBucket{transaction: transaction, name: string(name)}, nil
}

func (transaction *MemoryTransaction) Writable() bool {
	return transaction.writable
}

func (transaction *MemoryTransaction) Commit() error {
	if transaction.done {
		return kv.ErrTxDone
	}

	if !transaction.writable {
		return kv.ErrReadOnly
	}

	transaction.store.mu.Lock()
	transaction.store.buckets = transaction.buckets
	transaction.store.mu.Unlock()

	transaction.done = true
	transaction.store.writeMu.Unlock()

	return nil
}

func (transaction *MemoryTransaction) Rollback() error {
	if transaction.done {
		return nil
	}

	transaction.done = true

	if transaction.writable {
		transaction.store.writeMu.Unlock()
	}

	return nil
}

// read returns the state of the bucket for reading
func (transaction *MemoryTransaction) read(name string) *memoryBucketState {
	return transaction.buckets[name]
}

// write returns a private copy of the bucket state,
// copying it on first use within this transaction
func (transaction *MemoryTransaction) write(name string) (*memoryBucketState, error) {
	if transaction.done {
		return nil, kv.ErrTxDone
	}

	if !transaction.writable {
		return nil, kv.ErrReadOnly
	}

	if !transaction.copied[name] {
		transaction.buckets[name] = transaction.buckets[name].clone()
		transaction.copied[name] = true
	}

	return transaction.buckets[name], nil
}

var _ kv.Bucket = (*MemoryBucket)(nil)

type MemoryBucket struct {
	transaction *MemoryTransaction
	name        string
}

func (bucket *MemoryBucket) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, kv.ErrEmptyKey
	}

	if bucket.transaction.done {
		return nil, kv.ErrTxDone
	}

	v, ok := bucket.transaction.read(bucket.name).m.Get(key)

	if !ok {
		return nil, nil
	}

	return v.([]byte), nil
}

func (bucket *MemoryBucket) Put(key []byte, value []byte) error {
	if len(key) == 0 {
		return kv.ErrEmptyKey
	}

	state, err := bucket.transaction.write(bucket.name)

	if err != nil {
		return err
	}

	k := make([]byte, len(key))
	v := make([]byte, len(value))
	copy(k, key)
	copy(v, value)
	state.m.Put(k, v)

	return nil
}

func (bucket *MemoryBucket) Delete(key []byte) error {
	if len(key) == 0 {
		return kv.ErrEmptyKey
	}

	state, err := bucket.transaction.write(bucket.name)

	if err != nil {
		return err
	}

	state.m.Remove(key)

	return nil
}

func (bucket *MemoryBucket) Cursor() kv.Cursor {
	state := bucket.transaction.read(bucket.name)
	cursor := &MemoryCursor{}

	for _, key := range state.m.Keys() {
		value, _ := state.m.Get(key)
		cursor.keys = append(cursor.keys, key.([]byte))
		cursor.values = append(cursor.values, value.([]byte))
	}

	return cursor
}

func (bucket *MemoryBucket) NextSequence() (uint64, error) {
	state, err := bucket.transaction.write(bucket.name)

	if err != nil {
		return 0, err
	}

	state.sequence++

	return state.sequence, nil
}

func (bucket *MemoryBucket) Sequence() (uint64, error) {
	if bucket.transaction.done {
		return 0, kv.ErrTxDone
	}

	return bucket.transaction.read(bucket.name).sequence, nil
}

var _ kv.Cursor = (*MemoryCursor)(nil)

// MemoryCursor walks a copy of the bucket's
// keys taken when the cursor was created
type MemoryCursor struct {
	keys   [][]byte
	values [][]byte
	i      int
}

func (cursor *MemoryCursor) current() ([]byte, []byte) {
	if cursor.i >= len(cursor.keys) {
		return nil, nil
	}

	return cursor.keys[cursor.i], cursor.values[cursor.i]
}

func (cursor *MemoryCursor) First() (key []byte, value []byte) {
	cursor.i = 0

	return cursor.current()
}

func (cursor *MemoryCursor) Next() (key []byte, value []byte) {
	if cursor.i < len(cursor.keys) {
		cursor.i++
	}

	return cursor.current()
}

func (cursor *MemoryCursor) Seek(seek []byte) (key []byte, value []byte) {
	cursor.i = sort.Search(len(cursor.keys), func(i int) bool {
		return keys.Compare(cursor.keys[i], seek) >= 0
	})

	return cursor.current()
}

func (cursor *MemoryCursor) Error() error {
	return nil
}
