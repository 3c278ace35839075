// Package blobstore is the durable key-value layer the tracker persists its
// slots into. Every driver stores opaque byte values under short string keys.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get when a key has never been written or was deleted.
var ErrNotFound = errors.New("blobstore: key not found")

// ErrInvalidKey is returned for keys outside the allowed character set.
var ErrInvalidKey = errors.New("blobstore: invalid key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]{1,128}$`)

// Store is a key-value blob store. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// ValidateKey checks that key is usable by every driver, including as a file name.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
