package core

import (
	"math"
	"strings"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"1.0", 1, true},
		{"4.50", 4.5, true},
		{"1,23", 1.23, true},
		{"0", 0, true},
		{"0.01", 0.01, true},
		{" 2.50 ", 2.5, true},
		{".5", 0.5, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1,234.50", 1234.5, true},
		{"12,345,678.9", 12345678.9, true},
		{"1,234", 1.234, true},
		{"1,23.4", 0, false},
		{"1,234,567", 0, false},
		{"1000000000000", 1e12, true},
		{"1000000000000.01", 0, false},
		{"1" + strings.Repeat("0", 400), 0, false},
		{"0." + strings.Repeat("0", 400) + "1", 0, true},
		{"1e3", 0, false},
		{"", 0, false},
		{"   ", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if math.IsInf(got, 0) || math.IsNaN(got) {
			t.Fatalf("%q produced non-finite %v", tc.in, got)
		}
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error, got %v", tc.in, got)
			}
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		currency string
		amount   float64
		decimals int
		want     string
	}{
		{"USD", 24.5, 2, "USD 24.50"},
		{"USD", 1234.5, 2, "USD 1,234.50"},
		{"EUR", 0, 2, "EUR 0.00"},
		{"USD", 12.25, 0, "USD 12"},
		{"GBP", 2500, 0, "GBP 2,500"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.currency, tc.amount, tc.decimals); got != tc.want {
			t.Fatalf("FormatMoney(%q, %v, %d) = %q, want %q", tc.currency, tc.amount, tc.decimals, got, tc.want)
		}
	}
}

func TestAmountInRange(t *testing.T) {
	cases := []struct {
		v    float64
		want bool
	}{
		{0, true},
		{MaxAmount, true},
		{-MaxAmount, true},
		{MaxAmount * 2, false},
		{math.MaxFloat64, false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
		{math.NaN(), false},
	}
	for _, tc := range cases {
		if got := AmountInRange(tc.v); got != tc.want {
			t.Errorf("AmountInRange(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}
