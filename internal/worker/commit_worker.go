package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"budgeter/internal/amqp"
	"budgeter/internal/dashboard"
	"budgeter/internal/export"
	"budgeter/internal/ledger"
	"budgeter/internal/storage"
)

// CommitWorker applies snapshot commit messages to blob storage and
// optionally mirrors the ledger to an export sink.
type CommitWorker struct {
	store  storage.BlobWriter
	mirror export.Sink
	now    func() time.Time

	mu      sync.Mutex
	applied map[string]uint64
}

func NewCommitWorker(store storage.BlobWriter, mirror export.Sink) *CommitWorker {
	return &CommitWorker{
		store:   store,
		mirror:  mirror,
		now:     time.Now,
		applied: make(map[string]uint64),
	}
}

// HandleSnapshot saves msg unless a newer version of the same key has
// already been applied. Malformed payloads are dropped without error so the
// broker does not redeliver them.
func (w *CommitWorker) HandleSnapshot(ctx context.Context, msg *amqp.SnapshotCommitMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if last, ok := w.applied[msg.Key]; ok && msg.Version <= last {
		slog.InfoContext(ctx, "Skipping stale snapshot",
			"key", msg.Key,
			"version", msg.Version,
			"applied_version", last)
		return nil
	}

	entries, err := ledger.DecodeEntries(msg.Payload)
	if err != nil {
		slog.ErrorContext(ctx, "Dropping snapshot with malformed payload",
			"key", msg.Key,
			"version", msg.Version,
			"error", err)
		return nil
	}

	if err := w.store.Save(ctx, msg.Key, msg.Payload); err != nil {
		return fmt.Errorf("save snapshot %q v%d: %w", msg.Key, msg.Version, err)
	}
	w.applied[msg.Key] = msg.Version

	slog.InfoContext(ctx, "Snapshot applied",
		"key", msg.Key,
		"version", msg.Version,
		"entries", len(entries),
		"published_at", msg.Timestamp)

	if w.mirror != nil {
		// The blob is already durable; a mirror failure is not worth a redelivery.
		if _, err := w.mirror.Export(ctx, w.now(), dashboard.SortForDisplay(entries)); err != nil {
			slog.WarnContext(ctx, "Failed to mirror snapshot",
				"key", msg.Key,
				"version", msg.Version,
				"error", err)
		}
	}
	return nil
}

// AppliedVersion returns the last version saved for key.
func (w *CommitWorker) AppliedVersion(key string) (uint64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.applied[key]
	return v, ok
}
