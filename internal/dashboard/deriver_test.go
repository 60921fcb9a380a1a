package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"budgeter/internal/core"
)

func TestDeriverMemoizesPerVersion(t *testing.T) {
	d := NewDeriver(8, time.Hour)
	f := core.Filter{TimeRange: core.All, Currency: "USD"}
	first := []core.Entry{entry("1", "Coffee", 4.5, core.CategoryFood, "USD", "2024-01-01")}

	v1 := d.Derive(1, first, f, testNow)
	assert.Equal(t, 4.5, v1.Summary.TotalSpent)

	// Same version returns the cached view even if the caller passes other entries.
	cached := d.Derive(1, nil, f, testNow)
	assert.Equal(t, v1, cached)

	second := append(first, entry("2", "Metro", 20, core.CategoryTransport, "USD", "2024-01-02"))
	v2 := d.Derive(2, second, f, testNow)
	assert.Equal(t, 24.5, v2.Summary.TotalSpent)
	assert.Len(t, v2.Entries, 2)
}

func TestDeriverKeysOnFilterAndDay(t *testing.T) {
	d := NewDeriver(8, time.Hour)
	entries := []core.Entry{
		entry("old", "a", 10, core.CategoryOther, "USD", "2024-03-01"),
		entry("eur", "b", 5, core.CategoryOther, "EUR", "2024-03-14"),
	}

	week := d.Derive(1, entries, core.Filter{TimeRange: core.Week, Currency: "USD"}, testNow)
	assert.Empty(t, week.Entries)

	month := d.Derive(1, entries, core.Filter{TimeRange: core.Month, Currency: "USD"}, testNow)
	assert.Len(t, month.Entries, 1)

	eur := d.Derive(1, entries, core.Filter{TimeRange: core.Week, Currency: "EUR"}, testNow)
	assert.Len(t, eur.Entries, 1)

	// A later day at the same version must not reuse the old window.
	later := d.Derive(1, entries, core.Filter{TimeRange: core.Week, Currency: "EUR"}, testNow.AddDate(0, 0, 30))
	assert.Empty(t, later.Entries)
}

func TestDeriverReturnsIndependentCopies(t *testing.T) {
	d := NewDeriver(8, time.Hour)
	f := core.Filter{TimeRange: core.All, Currency: "USD"}
	entries := []core.Entry{entry("1", "Coffee", 4.5, core.CategoryFood, "USD", "2024-01-01")}

	v := d.Derive(1, entries, f, testNow)
	v.Entries[0].Merchant = "changed"
	v.Breakdown[0].Amount = 999

	again := d.Derive(1, entries, f, testNow)
	assert.Equal(t, "Coffee", again.Entries[0].Merchant)
	assert.Equal(t, 4.5, again.Breakdown[0].Amount)
}
