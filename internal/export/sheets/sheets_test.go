package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budgeter/internal/core"
)

type recordedCall struct {
	method string
	path   string
	body   string
}

func newTestSink(t *testing.T) (*Sink, func() []recordedCall) {
	t.Helper()
	var mu sync.Mutex
	var calls []recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recordedCall{method: r.Method, path: r.URL.Path, body: string(b)})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewWithService(svc, "sheet-id", ""), func() []recordedCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedCall(nil), calls...)
	}
}

func TestSinkExportClearsThenWrites(t *testing.T) {
	sink, calls := newTestSink(t)
	entries := []core.Entry{
		{Date: "2024-01-02", Merchant: "=SUM(A1)", Category: core.CategoryTransport, Amount: 20, Currency: "USD"},
		{Date: "2024-01-01", Merchant: "Coffee", Category: core.CategoryFood, Amount: 4.5, Currency: "USD"},
	}

	ref, err := sink.Export(context.Background(), time.Now(), entries)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if ref != "Budget!A1:E3" {
		t.Fatalf("ref = %q", ref)
	}

	got := calls()
	if len(got) != 2 {
		t.Fatalf("expected 2 calls, got %d: %+v", len(got), got)
	}
	if got[0].method != http.MethodPost || !strings.HasSuffix(got[0].path, ":clear") {
		t.Errorf("first call should clear, got %s %s", got[0].method, got[0].path)
	}
	if got[1].method != http.MethodPut || !strings.Contains(got[1].path, "/v4/spreadsheets/sheet-id/values/") {
		t.Errorf("second call should update values, got %s %s", got[1].method, got[1].path)
	}

	var vr struct {
		Values [][]any `json:"values"`
	}
	if err := json.Unmarshal([]byte(got[1].body), &vr); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(vr.Values) != 3 || vr.Values[0][0] != "Date" || vr.Values[1][1] != "=SUM(A1)" || vr.Values[2][3] != 4.5 {
		t.Errorf("unexpected values: %v", vr.Values)
	}
}

func TestSinkExportPropagatesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(), goption.WithEndpoint(srv.URL+"/"), goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	_, err = NewWithService(svc, "sheet-id", "Tab").Export(context.Background(), time.Now(), nil)
	if err == nil || !strings.Contains(err.Error(), "clear Tab!A:E") {
		t.Fatalf("expected clear error, got %v", err)
	}
}

func TestNewRequiresSpreadsheetAndCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, err := New(context.Background(), Config{}); err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("expected missing id error, got %v", err)
	}
	_, err := New(context.Background(), Config{SpreadsheetID: "id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("expected credentials error, got %v", err)
	}
	_, err = New(context.Background(), Config{SpreadsheetID: "id", ServiceAccountFile: "/does/not/exist.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Errorf("expected file error, got %v", err)
	}
}

func TestRowsAndUninitialized(t *testing.T) {
	rows := Rows(nil)
	if len(rows) != 1 || len(rows[0]) != 5 {
		t.Fatalf("Rows(nil) = %v", rows)
	}
	if _, err := (&Sink{}).Export(context.Background(), time.Now(), nil); err == nil {
		t.Fatal("expected error for nil service")
	}
}

const testOAuthClient = `{"installed":{"client_id":"cid","client_secret":"secret","auth_uri":"https://accounts.example/auth","token_uri":"https://accounts.example/token","redirect_uris":["http://localhost"]}}`

func writeToken(t *testing.T, access string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	b, err := json.Marshal(oauth2.Token{AccessToken: access, TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("marshal token: %v", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}
	return path
}

func TestNewWithOAuthTokenSendsBearer(t *testing.T) {
	var mu sync.Mutex
	var auth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth = append(auth, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	sink, err := New(context.Background(), Config{
		SpreadsheetID:   "sheet-id",
		OAuthClientJSON: testOAuthClient,
		OAuthTokenFile:  writeToken(t, "user-token"),
	}, goption.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := sink.Export(context.Background(), time.Now(), nil); err != nil {
		t.Fatalf("Export: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(auth) == 0 || auth[0] != "Bearer user-token" {
		t.Fatalf("Authorization headers = %v", auth)
	}
}

func TestOAuthConfigErrors(t *testing.T) {
	if _, err := OAuthConfig(Config{}); err == nil || !strings.Contains(err.Error(), "missing OAuth client") {
		t.Errorf("expected missing client error, got %v", err)
	}
	if _, err := OAuthConfig(Config{OAuthClientJSON: "not json"}); err == nil {
		t.Error("expected parse error")
	}
	_, err := OAuthTokenSource(context.Background(), Config{OAuthClientJSON: testOAuthClient, OAuthTokenFile: "/does/not/exist"})
	if err == nil || !strings.Contains(err.Error(), "read oauth token file") {
		t.Errorf("expected token file error, got %v", err)
	}
}
