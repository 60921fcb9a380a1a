// Package ledger owns the authoritative in-memory sequence of entries and
// commits it after every accepted mutation.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"budgeter/internal/core"
	"budgeter/internal/storage"
)

// DefaultKey is the blob key the ledger persists under.
const DefaultKey = "snapshot_budgeter_data"

type Store struct {
	mu        sync.RWMutex
	key       string
	reader    storage.BlobReader
	committer Committer
	entries   []core.Entry
	version   uint64
}

// NewStore creates an empty store. The version counter starts from the wall
// clock so snapshots from a restarted process still sort after older ones.
func NewStore(key string, reader storage.BlobReader, committer Committer) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		key:       key,
		reader:    reader,
		committer: committer,
		entries:   []core.Entry{},
		version:   uint64(time.Now().UnixNano()),
	}
}

// Key returns the blob key.
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory sequence with the persisted one. Absent,
// unreadable or malformed data yields an empty sequence; the cause is logged.
func (s *Store) Load(ctx context.Context) []core.Entry {
	entries := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.version++
	return slices.Clone(entries)
}

func (s *Store) read(ctx context.Context) []core.Entry {
	blob, ok, err := s.reader.Load(ctx, s.key)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read ledger, starting empty", "key", s.key, "error", err)
		return []core.Entry{}
	}
	if !ok {
		slog.InfoContext(ctx, "No stored ledger, starting empty", "key", s.key)
		return []core.Entry{}
	}
	entries, err := DecodeEntries(blob)
	if err != nil {
		slog.WarnContext(ctx, "Discarding unparseable ledger", "key", s.key, "error", err)
		return []core.Entry{}
	}
	slog.InfoContext(ctx, "Ledger loaded", "key", s.key, "entries", len(entries))
	return entries
}

// Persist commits the full current sequence.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.RLock()
	snap, err := s.snapshot()
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return s.commit(ctx, snap)
}

// Add prepends e and commits. The entry is kept even when the commit fails.
func (s *Store) Add(ctx context.Context, e core.Entry) error {
	s.mu.Lock()
	s.entries = append([]core.Entry{e}, s.entries...)
	s.version++
	snap, err := s.snapshot()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.commit(ctx, snap)
}

// Remove deletes the entry with id. An unknown id changes nothing, commits
// nothing and reports false.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	i := slices.IndexFunc(s.entries, func(e core.Entry) bool { return e.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.entries = slices.Delete(slices.Clone(s.entries), i, i+1)
	s.version++
	snap, err := s.snapshot()
	s.mu.Unlock()
	if err != nil {
		return true, err
	}
	return true, s.commit(ctx, snap)
}

// ReplaceAll swaps in a new sequence and commits.
func (s *Store) ReplaceAll(ctx context.Context, entries []core.Entry) error {
	s.mu.Lock()
	s.entries = slices.Clone(entries)
	if s.entries == nil {
		s.entries = []core.Entry{}
	}
	s.version++
	snap, err := s.snapshot()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.commit(ctx, snap)
}

// Entries returns a copy of the current sequence, newest addition first.
func (s *Store) Entries() []core.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Version increases on every mutation and on Load.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// snapshot must be called with mu held.
func (s *Store) snapshot() (Snapshot, error) {
	payload, err := EncodeEntries(s.entries)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Key: s.key, Version: s.version, Payload: payload}, nil
}

func (s *Store) commit(ctx context.Context, snap Snapshot) error {
	if s.committer == nil {
		return nil
	}
	if err := s.committer.Commit(ctx, snap); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}
	slog.DebugContext(ctx, "Ledger committed", "key", snap.Key, "version", snap.Version, "bytes", len(snap.Payload))
	return nil
}
