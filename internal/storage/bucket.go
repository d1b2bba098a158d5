// Package storage provides disk-backed file storage for uploaded assets:
// article covers, user avatars, ebook covers, and ebook files.
package storage

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Bucket names used by the server.
const (
	BucketCovers  = "covers"
	BucketAvatars = "avatars"
	BucketEbooks  = "ebooks"
)

// Bucket manages filesystem operations for one asset class.
// Thread-safe for concurrent operations.
type Bucket struct {
	basePath string
	name     string
	mu       sync.RWMutex // Protects file operations
}

// NewBucket creates a bucket rooted at {basePath}/{name}/.
// Example: NewBucket("/data", "covers") -> /data/covers/.
func NewBucket(basePath, name string) (*Bucket, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("bucket name cannot be empty")
	}

	storagePath := filepath.Join(basePath, name)

	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", name, err)
	}

	return &Bucket{
		basePath: storagePath,
		name:     name,
	}, nil
}

// Save stores data under the given key. The key must be a bare filename
// like "art-abc123.jpg"; path separators are rejected.
func (b *Bucket) Save(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("data cannot be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.WriteFile(b.Path(key), data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// Get retrieves data for a key.
func (b *Bucket) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	data, err := os.ReadFile(b.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found for %s: %w", key, err)
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// Exists checks if a key exists.
func (b *Bucket) Exists(key string) bool {
	if validateKey(key) != nil {
		return false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	_, err := os.Stat(b.Path(key))
	return err == nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (b *Bucket) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.Remove(b.Path(key)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete file: %w", err)
	}

	return nil
}

// Hash computes the SHA256 hash of a stored file.
// Returns hex-encoded string for ETag/cache validation.
func (b *Bucket) Hash(key string) (string, error) {
	data, err := b.Get(key)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for a key.
func (b *Bucket) Path(key string) string {
	return filepath.Join(b.basePath, key)
}

// StoragePath returns the path recorded in the database: "{bucket}/{key}".
func (b *Bucket) StoragePath(key string) string {
	return b.name + "/" + key
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}

// PublicURL resolves a stored path ("covers/art-abc.jpg") to a URL clients
// can fetch, given the server's external base URL.
func PublicURL(baseURL, storagePath string) string {
	if storagePath == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + "/files/" + storagePath
}
