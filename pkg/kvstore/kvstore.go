// Package kvstore provides a small synchronous key-value byte store scoped
// to a single client session. It mirrors the shape of a browser's local
// storage: fixed string keys, opaque byte values, best-effort durability.
package kvstore

import (
	"github.com/go-faster/errors"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a synchronous byte store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes the value under key. Deleting an absent key is not
	// an error.
	Delete(key string) error
}
