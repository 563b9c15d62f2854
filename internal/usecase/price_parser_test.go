package usecase

import (
	"math"
	"testing"
)

func TestParsePriceForSum(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain integer", "999", 999},
		{"decimal", "999.50", 999.50},
		{"rupee symbol and commas", "₹1,49,900", 149900},
		{"rs prefix", "Rs. 1,299.00", 1299},
		{"rs prefix integer", "Rs. 999", 999},
		{"currency word", "1299 INR", 1299},
		{"empty string", "", 0},
		{"no digits", "Free", 0},
		{"only symbols", "₹,.", 0},
		{"multiple dots", "1.2.3", 0},
		{"whitespace padded", "  ₹2,499  ", 2499},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePriceForSum(tt.input)
			if got != tt.want {
				t.Errorf("ParsePriceForSum(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePriceForCompare(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain integer", "999", 999},
		{"rupee symbol and commas", "₹1,49,900", 149900},
		{"rs prefix", "Rs. 1,299.00", 1299},
		{"empty string", "", PriceUnknown},
		{"no digits", "Out of stock", PriceUnknown},
		{"multiple dots", "1.2.3", PriceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePriceForCompare(tt.input)
			if got != tt.want {
				t.Errorf("ParsePriceForCompare(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPriceSentinelsDiffer(t *testing.T) {
	// The same unparseable input must resolve to 0 for sums and +Inf for
	// comparisons; mixing the two up corrupts totals or cheapest flags.
	const garbage = "N/A"

	if got := ParsePriceForSum(garbage); got != 0 {
		t.Errorf("sum sentinel = %v, want 0", got)
	}
	if got := ParsePriceForCompare(garbage); !math.IsInf(got, 1) {
		t.Errorf("compare sentinel = %v, want +Inf", got)
	}
}
