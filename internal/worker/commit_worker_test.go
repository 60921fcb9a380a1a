package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgeter/internal/amqp"
	"budgeter/internal/core"
	"budgeter/internal/ledger"
	"budgeter/internal/storage/memory"
)

type fakeSink struct {
	calls [][]core.Entry
	err   error
}

func (f *fakeSink) Export(_ context.Context, _ time.Time, entries []core.Entry) (string, error) {
	f.calls = append(f.calls, entries)
	return "ref", f.err
}

type failingWriter struct{}

func (failingWriter) Save(context.Context, string, string) error { return errors.New("disk full") }

func payload(t *testing.T, entries ...core.Entry) string {
	t.Helper()
	s, err := ledger.EncodeEntries(entries)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return s
}

func TestHandleSnapshotAppliesAndSkipsStale(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewCommitWorker(store, nil)

	a := core.Entry{ID: "a", Date: "2024-01-01", Merchant: "A", Amount: 1, Category: core.CategoryOther, Currency: "USD"}
	b := core.Entry{ID: "b", Date: "2024-01-02", Merchant: "B", Amount: 2, Category: core.CategoryOther, Currency: "USD"}

	if err := w.HandleSnapshot(ctx, &amqp.SnapshotCommitMessage{Key: "k", Version: 2, Payload: payload(t, b, a)}); err != nil {
		t.Fatalf("apply v2: %v", err)
	}
	// Out-of-order delivery of an older version must not win.
	if err := w.HandleSnapshot(ctx, &amqp.SnapshotCommitMessage{Key: "k", Version: 1, Payload: payload(t, a)}); err != nil {
		t.Fatalf("apply v1: %v", err)
	}

	got, ok, _ := store.Load(ctx, "k")
	if !ok || got != payload(t, b, a) {
		t.Fatalf("stored = %q", got)
	}
	if v, _ := w.AppliedVersion("k"); v != 2 {
		t.Fatalf("applied version = %d", v)
	}
}

func TestHandleSnapshotDropsMalformed(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewCommitWorker(store, nil)

	if err := w.HandleSnapshot(ctx, &amqp.SnapshotCommitMessage{Key: "k", Version: 1, Payload: "{"}); err != nil {
		t.Fatalf("malformed payload should be acked, got %v", err)
	}
	if _, ok, _ := store.Load(ctx, "k"); ok {
		t.Fatal("malformed payload must not be stored")
	}
	if _, ok := w.AppliedVersion("k"); ok {
		t.Fatal("malformed payload must not advance the version")
	}
}

func TestHandleSnapshotSaveErrorRequeues(t *testing.T) {
	w := NewCommitWorker(failingWriter{}, nil)
	err := w.HandleSnapshot(context.Background(), &amqp.SnapshotCommitMessage{Key: "k", Version: 1, Payload: "[]"})
	if err == nil {
		t.Fatal("expected save error")
	}
	if _, ok := w.AppliedVersion("k"); ok {
		t.Fatal("failed save must not advance the version")
	}
}

func TestHandleSnapshotMirrorsInDisplayOrder(t *testing.T) {
	sink := &fakeSink{err: errors.New("sheets down")}
	w := NewCommitWorker(memory.New(), sink)

	older := core.Entry{ID: "old", Date: "2024-01-01", Timestamp: 1704067200000, Category: core.CategoryOther, Currency: "USD", Merchant: "o"}
	newer := core.Entry{ID: "new", Date: "2024-02-01", Timestamp: 1706745600000, Category: core.CategoryOther, Currency: "USD", Merchant: "n"}

	err := w.HandleSnapshot(context.Background(), &amqp.SnapshotCommitMessage{Key: "k", Version: 1, Payload: payload(t, older, newer)})
	if err != nil {
		t.Fatalf("mirror failure must not fail the message: %v", err)
	}
	if len(sink.calls) != 1 || sink.calls[0][0].ID != "new" {
		t.Fatalf("unexpected mirror calls: %+v", sink.calls)
	}
}
