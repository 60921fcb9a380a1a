package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-01", true},
		{"2024-12-31", true},
		{" 2024-02-29 ", true},
		{"2023-02-29", false},
		{"2024-13-01", false},
		{"01/02/2024", false},
		{"", false},
	}
	for i, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
		}
	}
}

func TestTimestampFor(t *testing.T) {
	ts, err := TimestampFor("2024-01-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).UnixMilli()
	if ts != want {
		t.Fatalf("timestamp = %d, want %d", ts, want)
	}
	if _, err := TimestampFor("nope"); err == nil {
		t.Fatalf("expected error for bad date")
	}
}

func TestDayOfKeepsLocalCalendarDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 23:30 local on Jan 5th is still Jan 5th even though it is Jan 5th 13:30 UTC.
	now := time.Date(2024, 1, 5, 23, 30, 0, 0, loc)
	got := DayOf(now)
	if got != time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("DayOf = %v", got)
	}
}

func TestTimeRange(t *testing.T) {
	want := map[TimeRange]int{Week: 7, Month: 30, Quarter: 90, Year: 365}
	for r, days := range want {
		got, ok := r.MaxDays()
		if !ok || got != days {
			t.Fatalf("%s.MaxDays() = %d,%v want %d", r, got, ok, days)
		}
	}
	if _, ok := All.MaxDays(); ok {
		t.Fatalf("All should have no cutoff")
	}

	r, err := ParseTimeRange("quarter")
	if err != nil || r != Quarter {
		t.Fatalf("ParseTimeRange(quarter) = %q, %v", r, err)
	}
	if _, err := ParseTimeRange("Decade"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
	if TimeRange("Decade").IsValid() {
		t.Fatalf("Decade should be invalid")
	}
}

func TestCategoryColor(t *testing.T) {
	if got := CategoryColor(CategoryFood); got != "#ef4444" {
		t.Fatalf("food colour = %s", got)
	}
	if got := CategoryColor("Groceries"); got != DefaultCategoryColor {
		t.Fatalf("unknown category colour = %s", got)
	}
	if len(Categories()) != 7 {
		t.Fatalf("expected 7 categories")
	}
	for _, c := range Categories() {
		if !IsKnownCategory(c) {
			t.Fatalf("%q should be known", c)
		}
	}
}

func TestCurrencies(t *testing.T) {
	if !IsSupportedCurrency("JPY") || IsSupportedCurrency("CHF") {
		t.Fatalf("unexpected currency support")
	}
	list := Currencies()
	list[0] = "XXX"
	if Currencies()[0] != "USD" {
		t.Fatalf("Currencies must return a copy")
	}
}
