package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/priceai/backend/internal/domain"
)

// Package-level compiled regex patterns for cache-key normalization
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL           time.Duration
	EnrichmentSeed     int64
	EnableDebugLogging bool
}

// SearchService produces the working result set for a query.
// Flow: check cache -> fetch from provider -> enrich -> dedupe -> cache.
// Concurrent fetches within one view are serialized by a per-view
// monotonic sequence number: only the most recently issued fetch for
// that view may publish its result, stale completions are discarded.
// Fetches from different views never interfere.
type SearchService struct {
	provider domain.SearchProvider
	cache    domain.CacheRepository
	enricher *Enricher
	cacheTTL time.Duration
	debug    bool

	mu    sync.Mutex
	views map[string]*viewSequence
}

// viewSequence tracks fetch ordering for one view.
type viewSequence struct {
	issued  uint64 // highest sequence handed out
	applied uint64 // highest sequence whose result was published
}

// NewSearchService creates a search service with dependencies.
func NewSearchService(
	provider domain.SearchProvider,
	cache domain.CacheRepository,
	config SearchServiceConfig,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	seed := config.EnrichmentSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &SearchService{
		provider: provider,
		cache:    cache,
		enricher: NewEnricher(seed),
		cacheTTL: cacheTTL,
		debug:    config.EnableDebugLogging,
		views:    make(map[string]*viewSequence),
	}
}

// Search returns the enriched, deduplicated working set for a query.
// viewID names the result view the caller is rendering into (session
// token, tab id); if a newer Search for the same view was issued while
// this one was still in flight, the late result is discarded and
// ErrStaleResponse is returned. An empty viewID means the caller has no
// view to keep consistent and no guard applies.
func (s *SearchService) Search(ctx context.Context, viewID, query string) ([]domain.EnrichedProductRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	seq := s.issue(viewID)

	cacheKey := s.cacheKey(query)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != nil {
		if s.debug {
			log.Printf("[SEARCH] Cache hit for %q (%d records)", query, len(cached))
		}
		return s.publish(viewID, seq, cached)
	}

	raw, err := s.provider.SearchProducts(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrNoResults) {
			return nil, domain.ErrNoResults
		}
		log.Printf("[SEARCH] Provider error for %q: %v", query, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchBackendFailure, err)
	}

	enriched := Dedupe(s.enricher.Enrich(raw))
	if s.debug {
		log.Printf("[SEARCH] %q: %d raw, %d after dedupe", query, len(raw), len(enriched))
	}

	if err := s.cache.Set(ctx, cacheKey, enriched, s.cacheTTL); err != nil {
		// A cold cache is not a failed search.
		log.Printf("[SEARCH] Cache store failed for %q: %v", query, err)
	}

	return s.publish(viewID, seq, enriched)
}

// issue hands out the next fetch sequence for a view.
func (s *SearchService) issue(viewID string) uint64 {
	if viewID == "" {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.views[viewID]
	if v == nil {
		v = &viewSequence{}
		s.views[viewID] = v
	}
	v.issued++
	return v.issued
}

// publish applies the result only if seq is still the newest fetch
// issued for its view and no newer result has already been published
// there.
func (s *SearchService) publish(viewID string, seq uint64, set []domain.EnrichedProductRecord) ([]domain.EnrichedProductRecord, error) {
	if viewID == "" {
		return set, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.views[viewID]
	if v == nil || seq < v.issued || seq <= v.applied {
		if s.debug {
			log.Printf("[SEARCH] Discarding stale response for view %q (seq %d)", viewID, seq)
		}
		return nil, domain.ErrStaleResponse
	}
	v.applied = seq
	return set, nil
}

// ForgetView drops the sequence state for a view, typically when the
// session that owned it ends.
func (s *SearchService) ForgetView(viewID string) {
	if viewID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, viewID)
}

// cacheKey normalizes the query into a stable cache key.
// Format: "search:{normalized_query}"
func (s *SearchService) cacheKey(query string) string {
	normalized := strings.ToLower(query)
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, "")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return fmt.Sprintf("search:%s", strings.TrimSpace(normalized))
}

// BuildResponse applies the store filter and sort projection over the
// working set and attaches safe links, badges and cheapest flags.
// The lowest price is computed over the full unfiltered set: the best
// deal is a property of the query's results, not of the current view.
func BuildResponse(query string, set []domain.EnrichedProductRecord, store string, sortState SortState) domain.SearchResponse {
	lowest := LowestPrice(set)

	visible := SortByPrice(FilterByStore(set, store), sortState)

	results := make([]domain.ResolvedProduct, 0, len(visible))
	for _, rec := range visible {
		results = append(results, domain.ResolvedProduct{
			EnrichedProductRecord: rec,
			SafeLink:              ResolveLink(rec.Link, rec.Source, rec.Name),
			StoreBadge:            string(ClassifyStore(rec.Source)),
			IsCheapest:            IsCheapest(rec, lowest),
		})
	}

	displayLowest := lowest
	if displayLowest == PriceUnknown {
		displayLowest = 0
	}

	if store == "" {
		store = StoreFilterAll
	}

	return domain.SearchResponse{
		Query:       query,
		Results:     results,
		LowestPrice: displayLowest,
		SortState:   sortState.String(),
		Store:       store,
	}
}
