package serpapi

import (
	"strings"

	"github.com/priceai/backend/internal/domain"
)

// mapShoppingResults converts raw SerpApi listings into product records.
// The raw "price" field ("₹59,999") is kept for display; the record's
// Price carries the cleaned numeric text for downstream parsing, the
// same split the original scraper made.
func mapShoppingResults(results []shoppingResult) []domain.ProductRecord {
	records := make([]domain.ProductRecord, 0, len(results))
	for _, item := range results {
		// Only keep listings that have a name, a price and a store.
		if item.Title == "" || item.Price == "" || item.Source == "" {
			continue
		}
		records = append(records, domain.ProductRecord{
			Name:         item.Title,
			Price:        cleanPriceText(item.Price),
			DisplayPrice: item.Price,
			Source:       item.Source,
			Link:         item.Link,
			Image:        item.Thumbnail,
		})
	}
	return records
}

// cleanPriceText strips the rupee symbol, thousands separators and
// padding so the price sorts and sums without re-cleaning.
func cleanPriceText(price string) string {
	cleaned := strings.ReplaceAll(price, "₹", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return strings.TrimSpace(cleaned)
}
