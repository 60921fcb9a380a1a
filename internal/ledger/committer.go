package ledger

import (
	"context"
	"fmt"

	"budgeter/internal/storage"
)

// Snapshot is one committed state of the ledger.
type Snapshot struct {
	Key     string
	Version uint64
	Payload string
}

// Committer receives the serialized ledger after every accepted mutation.
type Committer interface {
	Commit(ctx context.Context, s Snapshot) error
}

// CommitterFunc adapts a function to Committer.
type CommitterFunc func(ctx context.Context, s Snapshot) error

func (f CommitterFunc) Commit(ctx context.Context, s Snapshot) error {
	return f(ctx, s)
}

// BlobCommitter writes snapshots straight to a blob store.
type BlobCommitter struct {
	store storage.BlobWriter
}

func NewBlobCommitter(store storage.BlobWriter) *BlobCommitter {
	return &BlobCommitter{store: store}
}

func (c *BlobCommitter) Commit(ctx context.Context, s Snapshot) error {
	if err := c.store.Save(ctx, s.Key, s.Payload); err != nil {
		return fmt.Errorf("commit version %d: %w", s.Version, err)
	}
	return nil
}
