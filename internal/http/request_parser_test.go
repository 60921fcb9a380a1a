package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budgeter/internal/services"
)

func TestParseEntryInput(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        services.EntryInput
		wantErr     bool
	}{
		{
			name:        "json with numeric amount",
			contentType: "application/json",
			body:        `{"merchant":" Coffee ","amount":4.5,"category":"Food & Dining","date":"2024-01-01"}`,
			want:        services.EntryInput{Merchant: "Coffee", Amount: "4.5", Category: "Food & Dining", Date: "2024-01-01"},
		},
		{
			name:        "json sniffed without content type",
			body:        `{"merchant":"Metro","amount":"20"}`,
			want:        services.EntryInput{Merchant: "Metro", Amount: "20"},
		},
		{
			name:        "form",
			contentType: "application/x-www-form-urlencoded",
			body:        "merchant=Book+Shop&amount=12.00&date=2024-02-01",
			want:        services.EntryInput{Merchant: "Book Shop", Amount: "12.00", Date: "2024-02-01"},
		},
		{
			name:        "control characters removed",
			contentType: "application/json",
			body:        `{"merchant":"Caf\u0007e"}`,
			want:        services.EntryInput{Merchant: "Cafe"},
		},
		{
			name:        "empty body",
			contentType: "application/json",
			body:        "",
			want:        services.EntryInput{},
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"merchant":`,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			got, err := ParseEntryInput(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEntryInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseEntryInput() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFilterInput(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/filter", strings.NewReader(`{"currency":"EUR"}`))
	req.Header.Set("Content-Type", "application/json")

	got, err := ParseFilterInput(req)
	if err != nil {
		t.Fatalf("ParseFilterInput() error = %v", err)
	}
	if got.Range != "" || got.Currency != "EUR" {
		t.Errorf("ParseFilterInput() = %+v", got)
	}
}

func TestRequestBodyTooLarge(t *testing.T) {
	body := `{"merchant":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(body))

	if _, err := ParseEntryInput(req); err != errBodyTooLarge {
		t.Fatalf("error = %v, want errBodyTooLarge", err)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  hello  ", "hello"},
		{"a\x00b", "ab"},
		{"tab\there", "tab\there"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
