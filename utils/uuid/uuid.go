package uuid

import (
	"fmt"
	"os"
	"path/filepath"

	google_uuid "github.com/google/uuid"
)

// MustUUID returns a random UUID string
func MustUUID() string {
	return google_uuid.New().String()
}

// TempPath returns a path in the temp directory that
// is unique to this call, like /tmp/bbolt-<uuid>.db
func TempPath(prefix string, ext string) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s%s", prefix, MustUUID(), ext))
}
