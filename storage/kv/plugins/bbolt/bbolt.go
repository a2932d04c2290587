package bbolt

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/saloonhub/saloonstore/storage/kv"
	"github.com/saloonhub/saloonstore/utils/uuid"
	bolt "go.etcd.io/bbolt"
)

const (
	DriverName = "bbolt"
)

func Plugins() []kv.Plugin {
	return []kv.Plugin{
		&BBoltPlugin{},
	}
}

type BBoltPlugin struct {
}

func (plugin *BBoltPlugin) Name() string {
	return DriverName
}

func (plugin *BBoltPlugin) NewStore(options kv.PluginOptions) (kv.Store, error) {
	var config BBoltStoreConfig

	if path, ok := options["path"]; !ok {
		return nil, fmt.Errorf("\"path\" is required")
	} else if pathString, ok := path.(string); !ok {
		return nil, fmt.Errorf("\"path\" must be a string")
	} else {
		config.Path = pathString
	}

	store, err := New(config)

	if err != nil {
		return nil, err
	}

	return store, nil
}

func (plugin *BBoltPlugin) NewTempStore() (kv.Store, error) {
	return plugin.NewStore(kv.PluginOptions{
		"path": uuid.TempPath("bbolt", ".db"),
	})
}

type BBoltStoreConfig struct {
	Path string
	// Timeout is how long Open waits for the file lock held
	// by another process. Zero means one second.
	Timeout time.Duration
}

var _ kv.Store = (*BBoltStore)(nil)

// New opens the bbolt database at config.Path, creating it if needed.
// Every commit is fsynced before it returns.
func New(config BBoltStoreConfig) (*BBoltStore, error) {
	timeout := config.Timeout

	if timeout == 0 {
		timeout = time.Second
	}

	db, err := bolt.Open(config.Path, 0666, &bolt.Options{Timeout: timeout})

	if err != nil {
		return nil, fmt.Errorf("could not open bbolt store at %s: %w", config.Path, err)
	}

	return &BBoltStore{db: db}, nil
}

type BBoltStore struct {
	db *bolt.DB
}

func (store *BBoltStore) Begin(writable bool) (kv.Transaction, error) {
	transaction, err := store.db.Begin(writable)

	if err != nil {
		return nil, wrapError("could not begin transaction", err)
	}

	return &BBoltTransaction{transaction: transaction}, nil
}

func (store *BBoltStore) Close() error {
	return store.db.Close()
}

func (store *BBoltStore) Delete() error {
	path := store.db.Path()

	if err := store.Close(); err != nil {
		return fmt.Errorf("could not close store: %w", err)
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("could not remove path %s: %w", path, err)
	}

	return nil
}

var _ kv.Transaction = (*BBoltTransaction)(nil)

type BBoltTransaction struct {
	transaction *bolt.Tx
}

func (transaction *BBoltTransaction) Bucket(name []byte) kv.Bucket {
	bucket := transaction.transaction.Bucket(name)

	if bucket == nil {
		return nil
	}

	return &BBoltBucket{bucket: bucket}
}

func (transaction *BBoltTransaction) CreateBucketIfNotExists(name []byte) (kv.Bucket, error) {
	bucket, err := transaction.transaction.CreateBucketIfNotExists(name)

	if err != nil {
		return nil, wrapError("could not create bucket", err)
	}

	return &BBoltBucket{bucket: bucket}, nil
}

func (transaction *BBoltTransaction) Writable() bool {
	return transaction.transaction.Writable()
}

func (transaction *BBoltTransaction) Commit() error {
	return wrapError("could not commit", transaction.transaction.Commit())
}

func (transaction *BBoltTransaction) Rollback() error {
	if err := transaction.transaction.Rollback(); err != nil && !errors.Is(err, bolt.ErrTxClosed) {
		return err
	}

	return nil
}

var _ kv.Bucket = (*BBoltBucket)(nil)

type BBoltBucket struct {
	bucket *bolt.Bucket
}

func (bucket *BBoltBucket) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, kv.ErrEmptyKey
	}

	return bucket.bucket.Get(key), nil
}

func (bucket *BBoltBucket) Put(key []byte, value []byte) error {
	return wrapError("could not put key", bucket.bucket.Put(key, value))
}

func (bucket *BBoltBucket) Delete(key []byte) error {
	if len(key) == 0 {
		return kv.ErrEmptyKey
	}

	return wrapError("could not delete key", bucket.bucket.Delete(key))
}

func (bucket *BBoltBucket) Cursor() kv.Cursor {
	return &BBoltCursor{cursor: bucket.bucket.Cursor()}
}

func (bucket *BBoltBucket) NextSequence() (uint64, error) {
	seq, err := bucket.bucket.NextSequence()

	return seq, wrapError("could not increment sequence", err)
}

func (bucket *BBoltBucket) Sequence() (uint64, error) {
	return bucket.bucket.Sequence(), nil
}

var _ kv.Cursor = (*BBoltCursor)(nil)

type BBoltCursor struct {
	cursor *bolt.Cursor
}

func (cursor *BBoltCursor) Error() error {
	return nil
}

func (cursor *BBoltCursor) First() (key []byte, value []byte) {
	return cursor.cursor.First()
}

func (cursor *BBoltCursor) Next() (key []byte, value []byte) {
	return cursor.cursor.Next()
}

func (cursor *BBoltCursor) Seek(seek []byte) (key []byte, value []byte) {
	return cursor.cursor.Seek(seek)
}

func wrapError(wrap string, err error) error {
	switch err {
	case nil:
		return nil
	case bolt.ErrDatabaseNotOpen:
		return kv.ErrClosed
	case bolt.ErrTxNotWritable:
		return kv.ErrReadOnly
	case bolt.ErrKeyRequired:
		return kv.ErrEmptyKey
	case bolt.ErrTxClosed:
		return kv.ErrTxDone
	}

	return fmt.Errorf("%s: %w", wrap, err)
}
