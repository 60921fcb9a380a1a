package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar date layout used for Entry.Date.
const DateLayout = "2006-01-02"

const (
	Week    TimeRange = "Week"
	Month   TimeRange = "Month"
	Quarter TimeRange = "Quarter"
	Year    TimeRange = "Year"
	All     TimeRange = "All"
)

type (
	// TimeRange selects how far back (or forward) from today entries stay visible.
	TimeRange string

	// Entry is one recorded purchase. Field names match the persisted blob.
	Entry struct {
		ID        string  `json:"id"`
		Date      string  `json:"date"`
		Merchant  string  `json:"merchant"`
		Amount    float64 `json:"amount"`
		Category  string  `json:"category"`
		Currency  string  `json:"currency"`
		Timestamp int64   `json:"timestamp"`
	}
)

var (
	ErrEmptyMerchant       = errors.New("empty merchant")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// TimeRanges lists the selectable ranges in display order.
func TimeRanges() []TimeRange {
	return []TimeRange{Week, Month, Quarter, Year, All}
}

// MaxDays returns the inclusive day distance for the range.
// ok is false for All, which has no cutoff.
func (r TimeRange) MaxDays() (days int, ok bool) {
	switch r {
	case Week:
		return 7, true
	case Month:
		return 30, true
	case Quarter:
		return 90, true
	case Year:
		return 365, true
	default:
		return 0, false
	}
}

func (r TimeRange) IsValid() bool {
	switch r {
	case Week, Month, Quarter, Year, All:
		return true
	default:
		return false
	}
}

// ParseTimeRange accepts range names case-insensitively.
func ParseTimeRange(s string) (TimeRange, error) {
	s = strings.TrimSpace(s)
	for _, r := range TimeRanges() {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", ErrInvalidTimeRange
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// DayOf returns the calendar date of t, as seen in t's location, at UTC midnight.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TimestampFor returns the ordering timestamp (epoch milliseconds) for a date string.
func TimestampFor(date string) (int64, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// Day returns the parsed calendar date of the entry.
func (e Entry) Day() (time.Time, error) {
	return ParseDate(e.Date)
}
