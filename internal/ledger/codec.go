package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"budgeter/internal/core"
)

// ErrMalformedBlob is returned by DecodeEntries for any blob that is not an
// array of complete entry records.
var ErrMalformedBlob = errors.New("malformed entries blob")

// wireEntry mirrors core.Entry with pointers so missing fields are detectable.
type wireEntry struct {
	ID        *string  `json:"id"`
	Date      *string  `json:"date"`
	Merchant  *string  `json:"merchant"`
	Amount    *float64 `json:"amount"`
	Category  *string  `json:"category"`
	Currency  *string  `json:"currency"`
	Timestamp *int64   `json:"timestamp"`
}

// EncodeEntries serializes entries as the persisted JSON array. A nil slice
// encodes as an empty array.
func EncodeEntries(entries []core.Entry) (string, error) {
	if entries == nil {
		entries = []core.Entry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode entries: %w", err)
	}
	return string(b), nil
}

// DecodeEntries parses a persisted blob. The whole blob is rejected when the
// top level is not an array, a record has unknown or missing fields, a field
// has the wrong type, a date does not parse or an amount exceeds
// core.MaxAmount.
func DecodeEntries(blob string) ([]core.Entry, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(blob)))
	dec.DisallowUnknownFields()

	var raw []wireEntry
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlob, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: not an array", ErrMalformedBlob)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedBlob)
	}

	out := make([]core.Entry, 0, len(raw))
	for i, w := range raw {
		if w.ID == nil || w.Date == nil || w.Merchant == nil || w.Amount == nil ||
			w.Category == nil || w.Currency == nil || w.Timestamp == nil {
			return nil, fmt.Errorf("%w: entry %d has missing fields", ErrMalformedBlob, i)
		}
		if _, err := core.ParseDate(*w.Date); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedBlob, i, err)
		}
		if !core.AmountInRange(*w.Amount) {
			return nil, fmt.Errorf("%w: entry %d: amount %v out of range", ErrMalformedBlob, i, *w.Amount)
		}
		out = append(out, core.Entry{
			ID:        *w.ID,
			Date:      *w.Date,
			Merchant:  *w.Merchant,
			Amount:    *w.Amount,
			Category:  *w.Category,
			Currency:  *w.Currency,
			Timestamp: *w.Timestamp,
		})
	}
	return out, nil
}
