// Package core provides money parsing and display utilities.
//
// Amounts are float64 in the amount's own currency; nothing here converts
// between currencies.
package core

import (
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// MaxAmount is the largest accepted amount. Sums of any realistic number of
// entries stay finite below it.
const MaxAmount = 1e12

// groupedAmount matches comma thousands grouping followed by a dot decimal part.
var groupedAmount = regexp.MustCompile(`^\d{1,3}(,\d{3})+\.\d+$`)

// ParseAmount converts user input to a non-negative amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, and comma
// thousands grouping when a dot marks the decimals (1,234.50). No rounding
// is applied; the value is kept as entered. Returns ErrInvalidAmount for empty
// input, malformed numbers, negative values and values above MaxAmount.
//
// Examples:
//
//	ParseAmount("12.34")    -> 12.34, nil
//	ParseAmount("12,5")     -> 12.5, nil
//	ParseAmount("1,234.50") -> 1234.5, nil
//	ParseAmount("0")        -> 0, nil
//	ParseAmount("-1")       -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	switch {
	case groupedAmount.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1 && !strings.Contains(s, "."):
		s = strings.Replace(s, ",", ".", 1)
	}
	if strings.ContainsAny(s, "eE") {
		// decimal accepts exponents; a form field does not
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromFloat(MaxAmount)) {
		return 0, ErrInvalidAmount
	}
	f, _ := d.Float64()
	return f, nil
}

// AmountInRange reports whether v could have been produced by ParseAmount's
// bound, ignoring sign.
func AmountInRange(v float64) bool {
	return v >= -MaxAmount && v <= MaxAmount
}

// FormatMoney renders an amount with thousands separators and a fixed number
// of decimals (0 or 2), prefixed by the currency code: "USD 1,234.50".
func FormatMoney(currency string, amount float64, decimals int) string {
	format := "#,###.##"
	if decimals <= 0 {
		format = "#,###."
	}
	return currency + " " + humanize.FormatFloat(format, amount)
}
