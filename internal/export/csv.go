// Package export renders the visible entries as CSV text and hands them to
// a sink.
package export

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"budgeter/internal/core"
)

// Header is the first CSV line.
const Header = "Date,Merchant,Category,Amount,Currency"

// Columns lists the header cells in order.
func Columns() []string {
	return strings.Split(Header, ",")
}

// FormatCSV renders entries in the given order. Merchant and category are
// always quoted; rows are joined by "\n" with no trailing newline.
func FormatCSV(entries []core.Entry) string {
	var b strings.Builder
	b.WriteString(Header)
	for _, e := range entries {
		b.WriteByte('\n')
		b.WriteString(e.Date)
		b.WriteByte(',')
		b.WriteString(quote(e.Merchant))
		b.WriteByte(',')
		b.WriteString(quote(e.Category))
		b.WriteByte(',')
		b.WriteString(FormatAmount(e.Amount))
		b.WriteByte(',')
		b.WriteString(e.Currency)
	}
	return b.String()
}

// FormatAmount returns the shortest decimal text for v: 4.5, 20, 0.1.
// Non-finite values, which decimal cannot hold, render as strconv does.
func FormatAmount(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}

// Filename names an export made at now, using now's UTC date.
func Filename(now time.Time) string {
	return "budget_export_" + now.UTC().Format(core.DateLayout) + ".csv"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
