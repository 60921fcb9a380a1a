package core

import "slices"

// DefaultCurrency is the active currency before any data is loaded.
const DefaultCurrency = "USD"

var supportedCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}

// Currencies returns the selectable currency codes.
func Currencies() []string {
	return slices.Clone(supportedCurrencies)
}

// IsSupportedCurrency reports whether code can be picked as the active currency.
func IsSupportedCurrency(code string) bool {
	return slices.Contains(supportedCurrencies, code)
}
