package domain

// ProductRecord is a single shopping listing as returned by the search
// backend. Records are treated as immutable input; derived values (safe
// links, identities) are computed on the fly, never written back.
type ProductRecord struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	DisplayPrice string `json:"displayPrice,omitempty"`
	Source       string `json:"source"`
	Link         string `json:"link,omitempty"`
	Image        string `json:"image,omitempty"`
}

// EnrichedProductRecord is a ProductRecord plus ephemeral presentation
// fields generated once per fetch. Rating and ReviewCount are not stable
// across reloads and never participate in product identity.
type EnrichedProductRecord struct {
	ProductRecord
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviews"`
}

// ResolvedProduct is what the search endpoint returns per item: the
// enriched record with a trustworthy outbound URL, a badge category and
// the cheapest flag attached.
type ResolvedProduct struct {
	EnrichedProductRecord
	SafeLink   string `json:"safeLink"`
	StoreBadge string `json:"storeBadge"`
	IsCheapest bool   `json:"isCheapest"`
}

// SearchResponse is the payload of GET /api/v1/search/:query.
// LowestPrice is the minimum over the full unfiltered set, not the
// currently filtered view.
type SearchResponse struct {
	Query       string            `json:"query"`
	Results     []ResolvedProduct `json:"results"`
	LowestPrice float64           `json:"lowestPrice"`
	SortState   string            `json:"sortState"`
	Store       string            `json:"store"`
}
