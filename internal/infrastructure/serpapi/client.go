package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/priceai/backend/internal/domain"
	"golang.org/x/time/rate"
)

// searchResponse is the slice of the SerpApi payload we care about.
type searchResponse struct {
	ShoppingResults []shoppingResult `json:"shopping_results"`
}

// shoppingResult is one raw Google Shopping listing.
type shoppingResult struct {
	Title     string `json:"title"`
	Price     string `json:"price"`
	Source    string `json:"source"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
}

// ClientConfig holds the SerpApi request parameters.
type ClientConfig struct {
	APIKey       string
	BaseURL      string
	GoogleDomain string // e.g. "google.co.in"
	Country      string // gl parameter, e.g. "in"
	Language     string // hl parameter, e.g. "en"
	NumResults   int
}

// Client talks to SerpApi's google_shopping engine.
type Client struct {
	httpClient  *http.Client
	config      ClientConfig
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a SerpApi client. The free SerpApi plan allows 100
// searches per hour; 100/3600 ≈ 0.028 requests/sec with a small burst.
func NewClient(config ClientConfig) *Client {
	if config.NumResults <= 0 {
		config.NumResults = 20
	}
	limiter := rate.NewLimiter(rate.Limit(0.028), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config:      config,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the sleep before the given retry attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// SearchProducts fetches Google Shopping listings for a raw user query
// and maps them to product records. Listings missing a name, price or
// store are dropped at the boundary.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.ProductRecord, error) {
	if c.debug {
		log.Printf("[SERPAPI] SearchProducts called with query: %q", query)
	}

	params := url.Values{}
	params.Add("api_key", c.config.APIKey)
	params.Add("engine", "google_shopping")
	params.Add("q", query)
	params.Add("google_domain", c.config.GoogleDomain)
	params.Add("gl", c.config.Country)
	params.Add("hl", c.config.Language)
	params.Add("num", fmt.Sprintf("%d", c.config.NumResults))

	reqURL := fmt.Sprintf("%s/search?%s", c.config.BaseURL, params.Encode())

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[SERPAPI] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		if status != http.StatusOK {
			log.Printf("[SERPAPI] API error (attempt %d) - Status: %d, Body: %s", attempt, status, truncate(body, 200))
			if status == http.StatusNotFound {
				return nil, domain.ErrNoResults
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrSearchBackendFailure, status)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var resp searchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		records := mapShoppingResults(resp.ShoppingResults)
		if len(records) == 0 {
			if c.debug {
				log.Printf("[SERPAPI] No usable listings for query: %q", query)
			}
			return nil, domain.ErrNoResults
		}

		if c.debug {
			log.Printf("[SERPAPI] Found %d listings for query: %q", len(records), query)
		}
		return records, nil
	}

	log.Printf("[SERPAPI] All retries failed for query: %q", query)
	return nil, lastErr
}

// doRequest executes one GET and returns the body and status code.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PriceAI/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrSearchBackendFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
