package kv

import "fmt"

// Update runs fn inside a read-write transaction. The transaction
// is committed if fn returns nil and rolled back otherwise.
func Update(store Store, fn func(txn Transaction) error) error {
	transaction, err := store.Begin(true)

	if err != nil {
		return err
	}

	defer transaction.Rollback()

	if err := fn(transaction); err != nil {
		return err
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// View runs fn inside a read-only transaction
func View(store Store, fn func(txn Transaction) error) error {
	transaction, err := store.Begin(false)

	if err != nil {
		return err
	}

	defer transaction.Rollback()

	return fn(transaction)
}

// Keys reads up to limit key-value pairs from the cursor starting
// at its first key. limit < 0 indicates no limit. The returned
// slices are copies and remain valid after the transaction ends.
func Keys(cursor Cursor, limit int) ([][2][]byte, error) {
	result := [][2][]byte{}

	for key, value := cursor.First(); key != nil && (limit < 0 || len(result) < limit); key, value = cursor.Next() {
		result = append(result, [2][]byte{copyBytes(key), copyBytes(value)})
	}

	if err := cursor.Error(); err != nil {
		return nil, err
	}

	return result, nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}

	c := make([]byte, len(b))
	copy(c, b)

	return c
}
