// Package sqlite implements a kv driver on top of a SQLite database.
// Buckets are rows of a buckets table and their contents live in a
// single kvs table keyed by (bucket, key). SQLite compares BLOBs with
// memcmp so key order matches the byte order of the other drivers.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/saloonhub/saloonstore/storage/kv"
	"github.com/saloonhub/saloonstore/storage/kv/keys"
	"github.com/saloonhub/saloonstore/utils/uuid"
)

const (
	DriverName = "sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS buckets (
	name     BLOB PRIMARY KEY,
	sequence INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS kvs (
	bucket BLOB NOT NULL,
	key    BLOB NOT NULL,
	value  BLOB NOT NULL,
	PRIMARY KEY (bucket, key)
) WITHOUT ROWID;
`

func Plugins() []kv.Plugin {
	return []kv.Plugin{
		&SQLitePlugin{},
	}
}

type SQLitePlugin struct {
}

func (plugin *SQLitePlugin) Name() string {
	return DriverName
}

func (plugin *SQLitePlugin) NewStore(options kv.PluginOptions) (kv.Store, error) {
	path, ok := options["path"]

	if !ok {
		return nil, fmt.Errorf("\"path\" is required")
	}

	pathString, ok := path.(string)

	if !ok {
		return nil, fmt.Errorf("\"path\" must be a string")
	}

	return Open(pathString)
}

func (plugin *SQLitePlugin) NewTempStore() (kv.Store, error) {
	return plugin.NewStore(kv.PluginOptions{
		"path": uuid.TempPath("sqlite", ".db"),
	})
}

var _ kv.Store = (*SQLiteStore)(nil)

type SQLiteStore struct {
	path string
	db   *sql.DB

	mu     sync.RWMutex
	closed bool
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode so readers don't block on the writer
//   - FULL synchronous mode so a commit is durable when it returns
//   - 5-second busy timeout for lock contention
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)

	if err != nil {
		return nil, fmt.Errorf("could not open sqlite store at %s: %w", path, err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()

		return nil, fmt.Errorf("could not apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()

		return nil, fmt.Errorf("could not apply schema: %w", err)
	}

	return &SQLiteStore{path: path, db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}

	return nil
}

func (store *SQLiteStore) Begin(writable bool) (kv.Transaction, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.closed {
		return nil, kv.ErrClosed
	}

	tx, err := store.db.Begin()

	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}

	return &SQLiteTransaction{tx: tx, writable: writable}, nil
}

func (store *SQLiteStore) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.closed {
		return nil
	}

	store.closed = true

	return store.db.Close()
}

func (store *SQLiteStore) Delete() error {
	if err := store.Close(); err != nil {
		return fmt.Errorf("could not close store: %w", err)
	}

	for _, path := range []string{store.path, store.path + "-wal", store.path + "-shm"} {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("could not remove path %s: %w", path, err)
		}
	}

	return nil
}

var _ kv.Transaction = (*SQLiteTransaction)(nil)

type SQLiteTransaction struct {
	tx       *sql.Tx
	writable bool
	done     bool
}

// Bucket returns nil only when the bucket is known not to exist. If the
// lookup itself fails the returned bucket reports that error from every
// method, so a broken transaction is never mistaken for a missing bucket.
func (transaction *SQLiteTransaction) Bucket(name []byte) kv.Bucket {
	if transaction.done {
		return &SQLiteBucket{transaction: transaction, name: name, err: kv.ErrTxDone}
	}

	var found int

	err := transaction.tx.QueryRow(`SELECT 1 FROM buckets WHERE name = ?`, name).Scan(&found)

	if errors.Is(err, sql.ErrNoRows) {
		return nil
	} else if err != nil {
		return &SQLiteBucket{transaction: transaction, name: name, err: fmt.Errorf("could not look up bucket: %w", err)}
	}

	return &SQLiteBucket{transaction: transaction, name: name}
}

func (transaction *SQLiteTransaction) CreateBucketIfNotExists(name []byte) (kv.Bucket, error) {
	if err := transaction.checkWritable(); err != nil {
		return nil, err
	}

	if len(name) == 0 {
		return nil, kv.ErrEmptyKey
	}

	if _, err := transaction.tx.Exec(`INSERT OR IGNORE INTO buckets (name, sequence) VALUES (?, 0)`, name); err != nil {
		return nil, fmt.Errorf("could not create bucket: %w", err)
	}

	return &SQLiteBucket{transaction: transaction, name: name}, nil
}

func (transaction *SQLiteTransaction) Writable() bool {
	return transaction.writable
}

func (transaction *SQLiteTransaction) Commit() error {
	if transaction.done {
		return kv.ErrTxDone
	}

	if !transaction.writable {
		return kv.ErrReadOnly
	}

	transaction.done = true

	return transaction.tx.Commit()
}

func (transaction *SQLiteTransaction) Rollback() error {
	if transaction.done {
		return nil
	}

	transaction.done = true

	if err := transaction.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (transaction *SQLiteTransaction) checkWritable() error {
	if transaction.done {
		return kv.ErrTxDone
	}

	if !transaction.writable {
		return kv.ErrReadOnly
	}

	return nil
}

var _ kv.Bucket = (*SQLiteBucket)(nil)

type SQLiteBucket struct {
	transaction *SQLiteTransaction
	name        []byte
	err         error
}

func (bucket *SQLiteBucket) check() error {
	if bucket.err != nil {
		return bucket.err
	}

	if bucket.transaction.done {
		return kv.ErrTxDone
	}

	return nil
}

func (bucket *SQLiteBucket) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, kv.ErrEmptyKey
	}

	if err := bucket.check(); err != nil {
		return nil, err
	}

	var value []byte

	err := bucket.transaction.tx.QueryRow(`SELECT value FROM kvs WHERE bucket = ? AND key = ?`, bucket.name, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("could not get key: %w", err)
	}

	if value == nil {
		value = []byte{}
	}

	return value, nil
}

func (bucket *SQLiteBucket) Put(key []byte, value []byte) error {
	if len(key) == 0 {
		return kv.ErrEmptyKey
	}

	if err := bucket.check(); err != nil {
		return err
	}

	if err := bucket.transaction.checkWritable(); err != nil {
		return err
	}

	if value == nil {
		value = []byte{}
	}

	if _, err := bucket.transaction.tx.Exec(`INSERT OR REPLACE INTO kvs (bucket, key, value) VALUES (?, ?, ?)`, bucket.name, key, value); err != nil {
		return fmt.Errorf("could not put key: %w", err)
	}

	return nil
}

func (bucket *SQLiteBucket) Delete(key []byte) error {
	if len(key) == 0 {
		return kv.ErrEmptyKey
	}

	if err := bucket.check(); err != nil {
		return err
	}

	if err := bucket.transaction.checkWritable(); err != nil {
		return err
	}

	if _, err := bucket.transaction.tx.Exec(`DELETE FROM kvs WHERE bucket = ? AND key = ?`, bucket.name, key); err != nil {
		return fmt.Errorf("could not delete key: %w", err)
	}

	return nil
}

// Cursor reads the whole bucket up front. Buckets in this store
// are small enough that this beats holding a statement open.
func (bucket *SQLiteBucket) Cursor() kv.Cursor {
	cursor := &SQLiteCursor{}

	if err := bucket.check(); err != nil {
		cursor.err = err

		return cursor
	}

	rows, err := bucket.transaction.tx.Query(`SELECT key, value FROM kvs WHERE bucket = ? ORDER BY key ASC`, bucket.name)

	if err != nil {
		cursor.err = fmt.Errorf("could not list keys: %w", err)

		return cursor
	}

	defer rows.Close()

	for rows.Next() {
		var key, value []byte

		if err := rows.Scan(&key, &value); err != nil {
			cursor.err = fmt.Errorf("could not scan key: %w", err)

			return cursor
		}

		if value == nil {
			value = []byte{}
		}

		cursor.keys = append(cursor.keys, key)
		cursor.values = append(cursor.values, value)
	}

	if err := rows.Err(); err != nil {
		cursor.err = fmt.Errorf("could not list keys: %w", err)
	}

	return cursor
}

func (bucket *SQLiteBucket) NextSequence() (uint64, error) {
	if err := bucket.check(); err != nil {
		return 0, err
	}

	if err := bucket.transaction.checkWritable(); err != nil {
		return 0, err
	}

	if _, err := bucket.transaction.tx.Exec(`UPDATE buckets SET sequence = sequence + 1 WHERE name = ?`, bucket.name); err != nil {
		return 0, fmt.Errorf("could not increment sequence: %w", err)
	}

	return bucket.Sequence()
}

func (bucket *SQLiteBucket) Sequence() (uint64, error) {
	if err := bucket.check(); err != nil {
		return 0, err
	}

	var sequence int64

	if err := bucket.transaction.tx.QueryRow(`SELECT sequence FROM buckets WHERE name = ?`, bucket.name).Scan(&sequence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, kv.ErrNoSuchBucket
		}

		return 0, fmt.Errorf("could not read sequence: %w", err)
	}

	return uint64(sequence), nil
}

var _ kv.Cursor = (*SQLiteCursor)(nil)

type SQLiteCursor struct {
	keys   [][]byte
	values [][]byte
	i      int
	err    error
}

func (cursor *SQLiteCursor) current() ([]byte, []byte) {
	if cursor.err != nil || cursor.i >= len(cursor.keys) {
		return nil, nil
	}

	return cursor.keys[cursor.i], cursor.values[cursor.i]
}

func (cursor *SQLiteCursor) First() (key []byte, value []byte) {
	cursor.i = 0

	return cursor.current()
}

func (cursor *SQLiteCursor) Next() (key []byte, value []byte) {
	if cursor.i < len(cursor.keys) {
		cursor.i++
	}

	return cursor.current()
}

func (cursor *SQLiteCursor) Seek(seek []byte) (key []byte, value []byte) {
	cursor.i = sort.Search(len(cursor.keys), func(i int) bool {
		return keys.Compare(cursor.keys[i], seek) >= 0
	})

	return cursor.current()
}

func (cursor *SQLiteCursor) Error() error {
	return cursor.err
}
