package usecase

import (
	"net/url"
	"regexp"
	"strings"
)

// Scraped links are unreliable: relative paths, tracking redirectors, or
// missing entirely. ResolveLink repairs what it can and otherwise falls
// back to a search URL on the right store, so the shopper always lands
// somewhere relevant instead of on a dead link.

// embeddedURLPattern finds an absolute URL buried inside a redirector
// string. The character class stops at '&' and '%' so query-parameter
// wrapping does not bleed into the captured URL.
var embeddedURLPattern = regexp.MustCompile(`https?://[^&%]+`)

// storeSearchTemplates maps a store category to its catalog-search URL.
// The %s slot takes the URL-encoded product title.
var storeSearchTemplates = map[StoreCategory]string{
	CategoryAmazon:    "https://www.amazon.in/s?k=%s",
	CategoryFlipkart:  "https://www.flipkart.com/search?q=%s",
	CategoryCroma:     "https://www.croma.com/search/?text=%s",
	CategoryReliance:  "https://www.reliancedigital.in/search?q=%s",
	CategoryCashify:   "https://www.cashify.in/search?q=%s",
	CategoryTataCliq:  "https://www.tatacliq.com/search/?searchCategory=all&text=%s",
	CategorySahivalue: "https://sahivalue.com/search?q=%s",
	CategoryOvantica:  "https://ovantica.com/index.php?route=product/search&search=%s",
}

// relativePrefixes maps known product-detail path conventions to the
// store domain they belong to. Checked in order.
var relativePrefixes = []struct {
	prefix string
	domain string
}{
	{"/dp/", "https://www.amazon.in"},
	{"/gp/", "https://www.amazon.in"},
	{"/p/", "https://www.flipkart.com"},
	{"/dl/", "https://www.flipkart.com"},
}

// ResolveLink turns a raw scraped link into a fully-qualified URL.
// It never returns an empty string and never a relative path.
//
// Decision list, first applicable rule wins:
//  1. empty link → store search URL
//  2. absolute http(s) link: return unchanged unless it points at a
//     search-engine redirector, in which case → store search URL
//  3. recognized relative product path → prepend the store domain
//  4. absolute URL embedded in a redirector string → extract it
//  5. fallback → store search URL
func ResolveLink(rawLink, storeName, title string) string {
	if rawLink == "" {
		return StoreSearchURL(storeName, title)
	}

	if strings.HasPrefix(rawLink, "http") {
		if isSearchEngineLink(rawLink) {
			return StoreSearchURL(storeName, title)
		}
		return rawLink
	}

	for _, rp := range relativePrefixes {
		if strings.HasPrefix(rawLink, rp.prefix) {
			return rp.domain + rawLink
		}
	}

	if extracted := extractEmbeddedURL(rawLink); extracted != "" {
		return extracted
	}

	return StoreSearchURL(storeName, title)
}

// StoreSearchURL builds a catalog-search URL for the store, substituting
// the encoded product title. Unrecognized stores get a Google web search
// scoped to the store's likely domains via site: qualifiers.
func StoreSearchURL(storeName, title string) string {
	encoded := url.QueryEscape(title)
	category := ClassifyStore(storeName)

	if tmpl, ok := storeSearchTemplates[category]; ok {
		return strings.Replace(tmpl, "%s", encoded, 1)
	}

	cleaned := normalizeStoreName(storeName)
	if cleaned == "" {
		return "https://www.google.com/search?q=" + encoded
	}
	return "https://www.google.com/search?q=" + encoded +
		"+site:" + cleaned + ".com+OR+site:" + cleaned + ".in"
}

// isSearchEngineLink reports whether the URL points at a search-engine
// domain that wraps the real destination rather than being one.
func isSearchEngineLink(link string) bool {
	return strings.Contains(link, "google.com") || strings.Contains(link, "google.co.in")
}

// extractEmbeddedURL scans a redirector string for a wrapped absolute
// URL, URL-decodes it, and returns it unless the wrapped URL is itself a
// search-engine link. Empty string means nothing usable was found.
func extractEmbeddedURL(rawLink string) string {
	match := embeddedURLPattern.FindString(rawLink)
	if match == "" {
		return ""
	}

	decoded, err := url.QueryUnescape(match)
	if err != nil {
		decoded = match
	}
	if isSearchEngineLink(decoded) {
		return ""
	}
	return decoded
}
