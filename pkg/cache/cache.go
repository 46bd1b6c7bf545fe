// Package cache stores fetched dataset files on disk so repeated
// browses of the same device+firmware pair skip the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store is a flat directory of cached dataset documents. Each document
// is kept next to a .sha256 sidecar; a sidecar mismatch counts as a
// miss.
type Store struct {
	Dir string
}

// DefaultDir returns the per-user cache directory.
func DefaultDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "fwbrowse"), nil
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir}, nil
}

// Key derives the stable cache filename for a dataset. SHA1 UUIDs keep
// arbitrary device/firmware names out of the filesystem namespace.
func Key(device, firmware, dataset string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(device+"/"+firmware+"/"+dataset)).String()
}

// Sum returns the hex sha256 of data.
func Sum(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// Load returns the cached document for a path triple, or false on a
// miss. Corrupt entries are treated as misses, not errors.
func (s *Store) Load(device, firmware, dataset string) ([]byte, bool) {
	base := filepath.Join(s.Dir, Key(device, firmware, dataset))

	data, err := os.ReadFile(base)
	if err != nil {
		return nil, false
	}
	want, err := os.ReadFile(base + ".sha256")
	if err != nil {
		return nil, false
	}
	if Sum(data) != string(want) {
		slog.Warn("Cache checksum mismatch, refetching", "device", device, "firmware", firmware, "dataset", dataset)
		return nil, false
	}
	return data, true
}

// Save stores a document and its checksum sidecar.
func (s *Store) Save(device, firmware, dataset string, data []byte) error {
	base := filepath.Join(s.Dir, Key(device, firmware, dataset))

	if err := os.WriteFile(base, data, 0644); err != nil {
		return err
	}
	return os.WriteFile(base+".sha256", []byte(Sum(data)), 0644)
}
