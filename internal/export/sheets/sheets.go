// Package sheets exports entries into a Google Sheets tab.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budgeter/internal/core"
	"budgeter/internal/export"
)

const DefaultSheetName = "Budget"

type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string

	// OAuth user credentials, used instead of a service account when
	// OAuthTokenFile is set. The token file is written by cmd/sheets-auth.
	OAuthClientJSON string
	OAuthClientFile string
	OAuthTokenFile  string
}

// Sink replaces the contents of one tab with the exported entries.
type Sink struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ export.Sink = (*Sink)(nil)

// New creates a sink authenticated with service-account credentials. Extra
// options are appended after the credentials.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Sink, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	auth, err := authOption(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]goption.ClientOption{
		auth,
		goption.WithScopes(gsheet.SpreadsheetsScope),
	}, opts...)

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", cfg.SpreadsheetID)
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

// NewWithService wraps an existing service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string) *Sink {
	if strings.TrimSpace(sheetName) == "" {
		sheetName = DefaultSheetName
	}
	return &Sink{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

func authOption(ctx context.Context, cfg Config) (goption.ClientOption, error) {
	if strings.TrimSpace(cfg.OAuthTokenFile) != "" {
		ts, err := OAuthTokenSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "Using OAuth user credentials", "token_file", cfg.OAuthTokenFile)
		return goption.WithTokenSource(ts), nil
	}
	creds, err := credentials(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return goption.WithCredentialsJSON(creds), nil
}

// OAuthConfig parses the OAuth client credentials for the Sheets scope.
func OAuthConfig(cfg Config) (*oauth2.Config, error) {
	var b []byte
	switch {
	case strings.TrimSpace(cfg.OAuthClientJSON) != "":
		b = []byte(cfg.OAuthClientJSON)
	case strings.TrimSpace(cfg.OAuthClientFile) != "":
		var err error
		if b, err = os.ReadFile(cfg.OAuthClientFile); err != nil {
			return nil, fmt.Errorf("read oauth client file: %w", err)
		}
	default:
		return nil, errors.New("missing OAuth client (set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)")
	}
	oc, err := google.ConfigFromJSON(b, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client: %w", err)
	}
	return oc, nil
}

// OAuthTokenSource returns a refreshing token source from the saved token.
func OAuthTokenSource(ctx context.Context, cfg Config) (oauth2.TokenSource, error) {
	oc, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(cfg.OAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}
	return oc.TokenSource(ctx, &tok), nil
}

// credentials resolves inline JSON first, then the file path, then
// GOOGLE_APPLICATION_CREDENTIALS.
func credentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.ServiceAccountJSON)
	file := strings.TrimSpace(cfg.ServiceAccountFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Rows builds the header row followed by one row per entry. Amounts stay
// numeric so the sheet can sum them.
func Rows(entries []core.Entry) [][]any {
	header := export.Columns()
	rows := make([][]any, 0, len(entries)+1)
	h := make([]any, len(header))
	for i, c := range header {
		h[i] = c
	}
	rows = append(rows, h)
	for _, e := range entries {
		rows = append(rows, []any{e.Date, e.Merchant, e.Category, e.Amount, e.Currency})
	}
	return rows
}

// Export clears the tab and writes the header plus entries from A1.
func (s *Sink) Export(ctx context.Context, _ time.Time, entries []core.Entry) (string, error) {
	if s.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	all := fmt.Sprintf("%s!A:E", s.sheetName)
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, all, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", all, err)
	}

	rows := Rows(entries)
	ref := fmt.Sprintf("%s!A1:E%d", s.sheetName, len(rows))
	// RAW keeps merchant text from being evaluated as a formula
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, ref, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", ref, err)
	}

	slog.InfoContext(ctx, "Entries exported to Google Sheets", "range", ref, "entries", len(entries))
	return ref, nil
}
