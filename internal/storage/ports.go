// Package storage holds the string-keyed blob stores the entry ledger
// persists into.
package storage

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned for keys that are empty or could escape a
// file-backed store's directory.
var ErrInvalidKey = errors.New("invalid storage key")

// Ports for blob persistence.
type (
	BlobReader interface {
		// Load returns the value stored under key. ok is false when nothing
		// has been saved yet.
		Load(ctx context.Context, key string) (value string, ok bool, err error)
	}

	BlobWriter interface {
		// Save replaces the value stored under key.
		Save(ctx context.Context, key, value string) error
	}

	BlobStore interface {
		BlobReader
		BlobWriter
	}
)
