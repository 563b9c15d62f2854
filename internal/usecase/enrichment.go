package usecase

import (
	"math"
	"math/rand"
	"sync"

	"github.com/priceai/backend/internal/domain"
)

// Enrichment attaches display-only rating and review-count fields to raw
// records. The values are generated once per fetch and live only as long
// as the cached response; they are not stable across fetches and must
// never leak into identity or persistence comparisons.

// Enricher generates ephemeral presentation fields for a fetch.
// Safe for concurrent use; a rand.Rand is not, so draws are serialized.
type Enricher struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEnricher creates an enricher seeded from the given source. Tests
// pass a fixed seed; production uses a time seed.
func NewEnricher(seed int64) *Enricher {
	return &Enricher{rng: rand.New(rand.NewSource(seed))}
}

// Enrich wraps each record with a rating in [3.5, 5.0] (one decimal) and
// a review count in [100, 5100).
func (e *Enricher) Enrich(records []domain.ProductRecord) []domain.EnrichedProductRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	enriched := make([]domain.EnrichedProductRecord, 0, len(records))
	for _, rec := range records {
		rating := 3.5 + e.rng.Float64()*1.5
		enriched = append(enriched, domain.EnrichedProductRecord{
			ProductRecord: rec,
			Rating:        math.Round(rating*10) / 10,
			ReviewCount:   100 + e.rng.Intn(5000),
		})
	}
	return enriched
}
