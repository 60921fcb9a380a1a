package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"budgeter/internal/storage"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, ok, err := s.Load(ctx, "k"); ok || err != nil {
		t.Fatalf("expected empty store, ok=%v err=%v", ok, err)
	}
	if err := s.Save(ctx, "k", "[]"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "k", `[{"id":"1"}]`); err != nil {
		t.Fatalf("save: %v", err)
	}
	v, ok, err := s.Load(ctx, "k")
	if err != nil || !ok || v != `[{"id":"1"}]` {
		t.Fatalf("unexpected load: v=%q ok=%v err=%v", v, ok, err)
	}
	if err := s.Save(ctx, "", "x"); !errors.Is(err, storage.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	// No files -> empty
	s := NewFromFiles(dir)
	if _, ok, _ := s.Load(context.Background(), "snapshot"); ok {
		t.Fatalf("expected no seed when files missing")
	}

	if err := os.WriteFile(filepath.Join(dir, "snapshot.json"), []byte("[]"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s = NewFromFiles(dir)
	v, ok, _ := s.Load(context.Background(), "snapshot")
	if !ok || v != "[]" {
		t.Fatalf("unexpected seed: %q %v", v, ok)
	}
	if _, ok, _ := s.Load(context.Background(), "notes"); ok {
		t.Fatalf("non-json files must be ignored")
	}

	// Saves stay in memory.
	_ = s.Save(context.Background(), "snapshot", "changed")
	b, _ := os.ReadFile(filepath.Join(dir, "snapshot.json"))
	if string(b) != "[]" {
		t.Fatalf("seed file modified: %q", b)
	}
}
