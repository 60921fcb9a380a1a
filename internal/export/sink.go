package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"budgeter/internal/core"
)

// Sink receives an export of entries already in display order and returns a
// reference to where they landed.
type Sink interface {
	Export(ctx context.Context, now time.Time, entries []core.Entry) (ref string, err error)
}

// FileSink writes CSV files into a directory.
type FileSink struct {
	dir string
}

var _ Sink = (*FileSink)(nil)

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Export writes Filename(now) into the directory, replacing a same-day file.
func (s *FileSink) Export(ctx context.Context, now time.Time, entries []core.Entry) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(s.dir, Filename(now))
	if err := os.WriteFile(path, []byte(FormatCSV(entries)), 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	slog.InfoContext(ctx, "Export written", "path", path, "entries", len(entries))
	return path, nil
}
