package keys

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Size is the length in bytes of an integer key
const Size = 8

// Uint64ToKey constructs a key from a uint64. Keys are
// big-endian so that byte order matches numeric order.
func Uint64ToKey(i uint64) []byte {
	k := make([]byte, Size)

	binary.BigEndian.PutUint64(k, i)

	return k
}

// KeyToUint64 constructs a uint64 from a key created
// with Uint64ToKey
func KeyToUint64(k []byte) (uint64, error) {
	if len(k) != Size {
		return 0, fmt.Errorf("key must be %d bytes long, got %d", Size, len(k))
	}

	return binary.BigEndian.Uint64(k), nil
}

// Key is a single key
type Key []byte

// Compare compares two keys
// -1 means a < b
// 1 means a > b
// 0 means a = b
func Compare(a, b Key) int {
	return bytes.Compare(a, b)
}
