package usecase

import (
	"sort"

	"github.com/priceai/backend/internal/domain"
)

// StoreFilterAll is the sentinel meaning "no store filter".
const StoreFilterAll = "All"

// SortState is the cyclic 3-state price sort: default order as delivered
// by the backend, then ascending, then descending, then back.
type SortState int

const (
	SortDefault SortState = iota
	SortAscending
	SortDescending
)

// Next advances the sort cycle: default → ascending → descending → default.
func (s SortState) Next() SortState {
	switch s {
	case SortDefault:
		return SortAscending
	case SortAscending:
		return SortDescending
	default:
		return SortDefault
	}
}

func (s SortState) String() string {
	switch s {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return "default"
	}
}

// ParseSortState maps the wire form back to a state. Unknown values mean
// default ordering.
func ParseSortState(s string) SortState {
	switch s {
	case "asc", "ascending":
		return SortAscending
	case "desc", "descending":
		return SortDescending
	default:
		return SortDefault
	}
}

// FilterByStore projects the set down to records from one store.
// The StoreFilterAll sentinel (or an empty selection) is the identity
// projection. Matching on Source is exact; the classifier is for badges
// and links, not for filtering.
func FilterByStore(set []domain.EnrichedProductRecord, selectedStore string) []domain.EnrichedProductRecord {
	if selectedStore == "" || selectedStore == StoreFilterAll {
		return set
	}

	filtered := make([]domain.EnrichedProductRecord, 0, len(set))
	for _, rec := range set {
		if rec.Source == selectedStore {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// SortByPrice returns the set ordered per the sort state. SortDefault is
// a pass-through of the backend's original ordering — no comparator runs
// at all. Ascending and descending compare parsed prices with the
// comparison sentinel, so unparseable prices land last in both
// directions. The input slice is never reordered in place.
func SortByPrice(set []domain.EnrichedProductRecord, state SortState) []domain.EnrichedProductRecord {
	if state == SortDefault {
		return set
	}

	sorted := make([]domain.EnrichedProductRecord, len(set))
	copy(sorted, set)

	sort.SliceStable(sorted, func(i, j int) bool {
		pi := ParsePriceForCompare(sorted[i].Price)
		pj := ParsePriceForCompare(sorted[j].Price)
		if state == SortAscending {
			return pi < pj
		}
		// Descending, but +Inf (unparseable) still sorts last.
		if pi == PriceUnknown {
			return false
		}
		if pj == PriceUnknown {
			return true
		}
		return pi > pj
	})

	return sorted
}

// LowestPrice returns the minimum comparison-mode price across the whole
// set. An empty set, or one with no parseable price, yields the
// PriceUnknown sentinel.
func LowestPrice(set []domain.EnrichedProductRecord) float64 {
	lowest := PriceUnknown
	for _, rec := range set {
		if p := ParsePriceForCompare(rec.Price); p < lowest {
			lowest = p
		}
	}
	return lowest
}

// IsCheapest reports whether the record's price equals the given global
// minimum. Ties all count: every record at the minimum is flagged, not
// just the first. Nothing is cheapest when the minimum is the sentinel.
func IsCheapest(rec domain.EnrichedProductRecord, lowest float64) bool {
	if lowest == PriceUnknown {
		return false
	}
	return ParsePriceForCompare(rec.Price) == lowest
}

// Dedupe collapses records that share a canonical identity, keeping the
// first occurrence. Different scrape passes can return the same listing
// with a different image or tracking link; identity ignores those.
func Dedupe(set []domain.EnrichedProductRecord) []domain.EnrichedProductRecord {
	seen := make(map[string]bool, len(set))
	out := make([]domain.EnrichedProductRecord, 0, len(set))
	for _, rec := range set {
		id := rec.Identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, rec)
	}
	return out
}
