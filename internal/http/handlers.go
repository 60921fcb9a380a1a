package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"budgeter/internal/core"
	"budgeter/internal/log"
	"budgeter/internal/services"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().Text("text/plain; charset=utf-8", "ok").Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			NewResponse().Status(http.StatusServiceUnavailable).Text("text/plain; charset=utf-8", "not ready").Write(w)
			return
		}
	}
	NewResponse().Text("text/plain; charset=utf-8", "ready").Write(w)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(newMetaResponse()).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(newDashboardResponse(s.app.Dashboard())).Write(w)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	in, err := ParseEntryInput(r)
	if err != nil {
		writeParseError(w, r, err)
		return
	}

	e, err := s.app.AddEntry(r.Context(), in)
	if err != nil {
		if services.IsValidationError(err) {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Add entry failed", log.FieldError, err)
		InternalServerError("failed to add entry").Write(w)
		return
	}

	log.NewStructuredLogger(log.FromContext(r.Context())).
		LogEntryAdded(r.Context(), e.ID, e.Merchant, e.Amount, e.Category, e.Currency)
	NewResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/entries/"+e.ID).
		JSON(entryView{Entry: e, Display: core.FormatMoney(e.Currency, e.Amount, 2)}).
		Write(w)
}

// handleDeleteEntry answers 204 whether or not the id existed.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	s.app.DeleteEntry(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// handleSetFilter validates both fields before applying either, so a
// rejected update leaves the filter unchanged.
func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	in, err := ParseFilterInput(r)
	if err != nil {
		writeParseError(w, r, err)
		return
	}

	var rng core.TimeRange
	if in.Range != "" {
		if rng, err = core.ParseTimeRange(in.Range); err != nil {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
	}
	code := strings.ToUpper(in.Currency)
	if code != "" && !core.IsSupportedCurrency(code) {
		UnprocessableEntityError(core.ErrUnsupportedCurrency.Error()).Write(w)
		return
	}

	if rng != "" {
		if err := s.app.SetTimeRange(rng); err != nil {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
	}
	if code != "" {
		if err := s.app.SetCurrency(code); err != nil {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
	}

	f := s.app.Filter()
	log.FromContext(r.Context()).InfoContext(r.Context(), "Filter changed",
		log.NewFields().WithFilter(string(f.TimeRange), f.Currency).WithOperation(log.OpFilter).ToSlice()...)
	NewResponse().JSON(newDashboardResponse(s.app.Dashboard())).Write(w)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	filename, content := s.app.ExportCSV()
	NewResponse().
		Text("text/csv; charset=utf-8", content).
		Attachment(filename).
		Write(w)
}

type exportResponse struct {
	Sink string `json:"sink"`
	Ref  string `json:"ref"`
}

func (s *Server) handleExportToSink(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("sink")
	sink, ok := s.sinks[name]
	if !ok {
		NotFoundError("unknown export sink").Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()
	ref, err := s.app.Export(ctx, sink, name)
	if err != nil {
		log.NewStructuredLogger(log.FromContext(r.Context())).LogError(r.Context(), "Export failed", err,
			log.ComponentExport, log.OpExport, log.LogFields{"sink": name})
		ErrorResponse(http.StatusBadGateway, "export failed").Write(w)
		return
	}
	log.FromContext(r.Context()).WithComponent(log.ComponentExport).InfoContext(r.Context(), "Export completed",
		"sink", name, log.FieldExportRef, ref)
	NewResponse().JSON(exportResponse{Sink: name, Ref: ref}).Write(w)
}

func writeParseError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBodyTooLarge) {
		ErrorResponse(http.StatusRequestEntityTooLarge, err.Error()).Write(w)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Malformed request body", log.FieldError, err)
	BadRequestError("malformed request body").Write(w)
}
