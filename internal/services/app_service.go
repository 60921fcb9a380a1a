package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"budgeter/internal/core"
	"budgeter/internal/dashboard"
	"budgeter/internal/export"
	"budgeter/internal/ledger"
)

// IDFunc produces fresh entry ids.
type IDFunc func() string

// AppService owns the ledger and the filter state. It is the only place that
// mutates either, and it serializes all access.
type AppService struct {
	mu       sync.Mutex
	store    *ledger.Store
	deriver  *dashboard.Deriver
	filter   core.Filter
	newID    IDFunc
	now      func() time.Time
	metrics  MetricsRecorder
	validate *validator.Validate
}

type Option func(*AppService)

func WithIDFunc(f IDFunc) Option {
	return func(s *AppService) { s.newID = f }
}

func WithClock(now func() time.Time) Option {
	return func(s *AppService) { s.now = now }
}

func WithMetrics(m MetricsRecorder) Option {
	return func(s *AppService) { s.metrics = m }
}

func WithDeriver(d *dashboard.Deriver) Option {
	return func(s *AppService) { s.deriver = d }
}

// NewAppService creates the service with the given initial filter. An
// invalid range falls back to Month and an empty currency to USD.
func NewAppService(store *ledger.Store, initial core.Filter, opts ...Option) *AppService {
	if !initial.TimeRange.IsValid() {
		initial.TimeRange = core.Month
	}
	if initial.Currency == "" {
		initial.Currency = core.DefaultCurrency
	}
	s := &AppService{
		store:    store,
		filter:   initial,
		newID:    uuid.NewString,
		now:      time.Now,
		metrics:  noopMetrics{},
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted ledger. When it holds entries, the active
// currency becomes the one they use most.
func (s *AppService) Load(ctx context.Context) []core.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.store.Load(ctx)
	if code, ok := dashboard.MostFrequentCurrency(entries); ok {
		s.filter.Currency = code
		slog.InfoContext(ctx, "Active currency taken from stored entries", "currency", code)
	}
	s.metrics.SetEntries(len(entries))
	return entries
}

// Filter returns the active filter.
func (s *AppService) Filter() core.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Entries returns every stored entry regardless of filter.
func (s *AppService) Entries() []core.Entry {
	return s.store.Entries()
}

// AddEntry validates in and prepends the new entry. Rejections return
// core.ErrEmptyMerchant, core.ErrInvalidAmount or core.ErrInvalidDate and
// leave the ledger untouched.
func (s *AppService) AddEntry(ctx context.Context, in EntryInput) (core.Entry, error) {
	e, err := s.buildEntry(in)
	if err != nil {
		s.metrics.RecordMutation("add", "rejected")
		slog.InfoContext(ctx, "Entry rejected", "error", err)
		return core.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.newID()
	e.Currency = s.filter.Currency
	s.commit(ctx, "add", func() error { return s.store.Add(ctx, e) })

	slog.InfoContext(ctx, "Entry added",
		"id", e.ID,
		"merchant", e.Merchant,
		"amount", e.Amount,
		"currency", e.Currency,
		"date", e.Date)
	return e, nil
}

func (s *AppService) buildEntry(in EntryInput) (core.Entry, error) {
	if err := checkPresence(s.validate, in); err != nil {
		return core.Entry{}, err
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Entry{}, err
	}
	date := strings.TrimSpace(in.Date)
	ts, err := core.TimestampFor(date)
	if err != nil {
		return core.Entry{}, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = core.CategoryFood
	}
	return core.Entry{
		Date:      date,
		Merchant:  strings.TrimSpace(in.Merchant),
		Amount:    amount,
		Category:  category,
		Timestamp: ts,
	}, nil
}

// DeleteEntry removes the entry with id and reports whether it existed.
// Unknown ids are a no-op.
func (s *AppService) DeleteEntry(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool
	s.commit(ctx, "delete", func() error {
		var err error
		removed, err = s.store.Remove(ctx, id)
		return err
	})
	if !removed {
		slog.DebugContext(ctx, "Delete of unknown entry ignored", "id", id)
		return false
	}
	slog.InfoContext(ctx, "Entry deleted", "id", id)
	return true
}

// ReplaceAll swaps the whole ledger, as done by an import.
func (s *AppService) ReplaceAll(ctx context.Context, entries []core.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, "replace", func() error { return s.store.ReplaceAll(ctx, entries) })
}

// commit runs a ledger mutation. Commit failures are logged and counted
// but never reach the caller: the mutation itself has already happened.
func (s *AppService) commit(ctx context.Context, op string, mutate func() error) {
	before := s.store.Version()
	start := time.Now()
	err := mutate()
	if s.store.Version() == before {
		return
	}
	s.metrics.SetEntries(len(s.store.Entries()))
	s.metrics.RecordMutation(op, "ok")
	if err != nil {
		s.metrics.RecordCommit("error", time.Since(start))
		slog.ErrorContext(ctx, "Ledger commit failed", "op", op, "error", err)
		return
	}
	s.metrics.RecordCommit("ok", time.Since(start))
}

// SetTimeRange switches the active range.
func (s *AppService) SetTimeRange(r core.TimeRange) error {
	if !r.IsValid() {
		s.metrics.RecordMutation("filter", "rejected")
		return core.ErrInvalidTimeRange
	}
	s.mu.Lock()
	s.filter.TimeRange = r
	s.mu.Unlock()
	s.metrics.RecordMutation("filter", "ok")
	return nil
}

// SetCurrency switches the active currency to one of the supported codes.
func (s *AppService) SetCurrency(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !core.IsSupportedCurrency(code) {
		s.metrics.RecordMutation("filter", "rejected")
		return core.ErrUnsupportedCurrency
	}
	s.mu.Lock()
	s.filter.Currency = code
	s.mu.Unlock()
	s.metrics.RecordMutation("filter", "ok")
	return nil
}

// Views derives the dashboard for the current ledger and filter at now.
func (s *AppService) Views(now time.Time) core.Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() { s.metrics.RecordDerivation(time.Since(start)) }()

	if s.deriver != nil {
		return s.deriver.Derive(s.store.Version(), s.store.Entries(), s.filter, now)
	}
	return dashboard.Derive(s.store.Entries(), s.filter, now)
}

// Dashboard derives the views at the service clock's current time.
func (s *AppService) Dashboard() core.Dashboard {
	return s.Views(s.now())
}

// ExportCSV renders the visible entries in display order and names the file.
func (s *AppService) ExportCSV() (filename, content string) {
	now := s.now()
	return export.Filename(now), export.FormatCSV(s.Views(now).Entries)
}

// Export hands the visible entries, in display order, to sink.
func (s *AppService) Export(ctx context.Context, sink export.Sink, sinkName string) (string, error) {
	now := s.now()
	ref, err := sink.Export(ctx, now, s.Views(now).Entries)
	if err != nil {
		s.metrics.RecordExport(sinkName, "error")
		return "", err
	}
	s.metrics.RecordExport(sinkName, "ok")
	return ref, nil
}

// IsValidationError reports whether err is an add-entry or filter rejection.
func IsValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyMerchant) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidTimeRange) ||
		errors.Is(err, core.ErrUnsupportedCurrency)
}
