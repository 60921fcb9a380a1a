// Package dashboard derives the presented views from the stored entries and
// the active filter. Every function here is pure: inputs are never mutated
// and results depend only on the arguments.
package dashboard

import (
	"math"
	"slices"
	"time"

	"budgeter/internal/core"
)

const day = 24 * time.Hour

// FilterByCurrency keeps the entries recorded in currency, in input order.
func FilterByCurrency(entries []core.Entry, currency string) []core.Entry {
	out := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Currency == currency {
			out = append(out, e)
		}
	}
	return out
}

// FilterByTimeWindow keeps the entries whose date lies within the range of
// now's calendar date. Distance is absolute, so future dates count too.
func FilterByTimeWindow(entries []core.Entry, r core.TimeRange, now time.Time) []core.Entry {
	maxDays, bounded := r.MaxDays()
	if !bounded {
		return slices.Clone(entries)
	}
	today := core.DayOf(now)
	out := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		d, err := e.Day()
		if err != nil {
			continue
		}
		if DiffDays(today, d) <= maxDays {
			out = append(out, e)
		}
	}
	return out
}

// DiffDays returns the whole-day distance between two dates, rounded up.
func DiffDays(a, b time.Time) int {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(day)))
}

// ComputeSummary totals the entries. An empty set yields all zeros.
func ComputeSummary(entries []core.Entry) core.Summary {
	var total float64
	for _, e := range entries {
		total += e.Amount
	}
	s := core.Summary{TotalSpent: total, TransactionCount: len(entries)}
	if s.TransactionCount > 0 {
		s.AvgTransaction = total / float64(s.TransactionCount)
	}
	return s
}

// ComputeCategoryBreakdown sums amounts per category, largest first.
// Equal sums keep the order in which their category was first seen.
func ComputeCategoryBreakdown(entries []core.Entry) []core.CategoryAmount {
	index := make(map[string]int)
	out := make([]core.CategoryAmount, 0)
	for _, e := range entries {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, core.CategoryAmount{Category: e.Category, Color: core.CategoryColor(e.Category)})
		}
		out[i].Amount += e.Amount
	}
	slices.SortStableFunc(out, func(a, b core.CategoryAmount) int {
		switch {
		case a.Amount > b.Amount:
			return -1
		case a.Amount < b.Amount:
			return 1
		default:
			return 0
		}
	})
	return out
}

// SortForDisplay returns a copy ordered newest first by timestamp.
func SortForDisplay(entries []core.Entry) []core.Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b core.Entry) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Visible applies both filters: currency first, then time window.
func Visible(entries []core.Entry, f core.Filter, now time.Time) []core.Entry {
	return FilterByTimeWindow(FilterByCurrency(entries, f.Currency), f.TimeRange, now)
}

// Derive recomputes the three views from scratch.
func Derive(entries []core.Entry, f core.Filter, now time.Time) core.Dashboard {
	visible := Visible(entries, f, now)
	return core.Dashboard{
		Filter:    f,
		Summary:   ComputeSummary(visible),
		Breakdown: ComputeCategoryBreakdown(visible),
		Entries:   SortForDisplay(visible),
	}
}

// MostFrequentCurrency returns the currency code used by the most entries.
// Ties go to the code encountered first. ok is false for an empty input.
func MostFrequentCurrency(entries []core.Entry) (code string, ok bool) {
	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		if _, seen := counts[e.Currency]; !seen {
			order = append(order, e.Currency)
		}
		counts[e.Currency]++
	}
	best := -1
	for _, c := range order {
		if counts[c] > best {
			code, best = c, counts[c]
		}
	}
	return code, best > 0
}
