package usecase

import (
	"math"
	"strconv"
	"strings"
)

// Price strings arrive in free form ("₹1,49,900", "Rs. 999.00", "Free").
// Parsing strips everything that is not a digit or a dot and parses the
// remainder. Unparseable input resolves to a sentinel, never an error;
// which sentinel depends on what the caller does with the value:
//
//   - summation (cart/order totals): 0, so a bad price cannot inflate or
//     sink a total
//   - comparison (sorting, lowest-price): +Inf, so a bad price never wins
//     "cheapest" and sorts last in ascending order
//
// The two entry points below fix the mode at the call site.

// PriceUnknown is the comparison-mode sentinel for unparseable prices.
var PriceUnknown = math.Inf(1)

// ParsePriceForSum parses a price string for use in totals.
// Unparseable input yields 0.
func ParsePriceForSum(s string) float64 {
	v, ok := parsePrice(s)
	if !ok {
		return 0
	}
	return v
}

// ParsePriceForCompare parses a price string for use in sorting and
// minimum-finding. Unparseable input yields +Inf.
func ParsePriceForCompare(s string) float64 {
	v, ok := parsePrice(s)
	if !ok {
		return PriceUnknown
	}
	return v
}

// parsePrice strips non-numeric runes and parses the rest. Dots left
// dangling ahead of the number by stripped abbreviations ("Rs. 999")
// are dropped. Returns ok=false for empty input, digit-free input, and
// garbage the float parser rejects (e.g. multiple interior dots).
func parsePrice(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimLeft(b.String(), ".")
	if cleaned == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
