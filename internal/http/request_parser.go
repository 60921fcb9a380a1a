package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"budgeter/internal/services"
)

// errBodyTooLarge is returned when a request body exceeds maxBodyBytes.
var errBodyTooLarge = errors.New("request body too large")

// RequestBodyParser reads a request body once and exposes its fields whether
// it was sent as JSON or as a form.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request, reading at
// most maxBodyBytes.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errBodyTooLarge
	}
	return p
}

// Parse decodes the body. JSON is used when the content type says so or the
// body starts with an object; anything else is parsed as a form.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}
	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	mediaType, _, _ := mime.ParseMediaType(p.contentType)
	trimmed := strings.TrimSpace(string(p.body))
	if mediaType == "application/json" || strings.HasPrefix(trimmed, "{") {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
		}
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized string value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to its string form. Numbers keep
// their shortest representation so "amount": 4.5 reads as "4.5".
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseEntryInput reads the add-entry fields.
func ParseEntryInput(r *http.Request) (services.EntryInput, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return services.EntryInput{}, err
	}
	return services.EntryInput{
		Merchant: p.Get("merchant"),
		Amount:   p.Get("amount"),
		Category: p.Get("category"),
		Date:     p.Get("date"),
	}, nil
}

// FilterInput is a partial filter update; empty fields are left unchanged.
type FilterInput struct {
	Range    string
	Currency string
}

// ParseFilterInput reads the filter update fields.
func ParseFilterInput(r *http.Request) (FilterInput, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return FilterInput{}, err
	}
	return FilterInput{Range: p.Get("range"), Currency: p.Get("currency")}, nil
}
