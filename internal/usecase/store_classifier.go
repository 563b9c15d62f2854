package usecase

import "strings"

// StoreCategory is the closed set of recognized retailers. Everything
// that matches none of the rules is CategoryGeneric.
type StoreCategory string

const (
	CategoryAmazon    StoreCategory = "amazon"
	CategoryFlipkart  StoreCategory = "flipkart"
	CategoryCroma     StoreCategory = "croma"
	CategoryCashify   StoreCategory = "cashify"
	CategoryReliance  StoreCategory = "reliance"
	CategoryTataCliq  StoreCategory = "tatacliq"
	CategorySahivalue StoreCategory = "sahivalue"
	CategoryOvantica  StoreCategory = "ovantica"
	CategoryGeneric   StoreCategory = "generic"
)

// classifierRules is the match table for ClassifyStore. Order is fixed:
// rules are tried top to bottom and the first substring hit wins, so an
// ambiguous store name always resolves the same way.
var classifierRules = []struct {
	substr   string
	category StoreCategory
}{
	{"amazon", CategoryAmazon},
	{"flipkart", CategoryFlipkart},
	{"croma", CategoryCroma},
	{"cashify", CategoryCashify},
	{"reliance", CategoryReliance},
	{"tatacliq", CategoryTataCliq},
	{"sahivalue", CategorySahivalue},
	{"ovantica", CategoryOvantica},
}

// ClassifyStore maps a free-text store name ("Amazon.in", "Tata CLiQ")
// to its category. Matching is case-insensitive and ignores whitespace,
// so "Tata CLiQ" hits the tatacliq rule.
func ClassifyStore(storeName string) StoreCategory {
	s := normalizeStoreName(storeName)
	for _, rule := range classifierRules {
		if strings.Contains(s, rule.substr) {
			return rule.category
		}
	}
	return CategoryGeneric
}

// normalizeStoreName lowercases and strips whitespace from a store name.
func normalizeStoreName(storeName string) string {
	s := strings.ToLower(storeName)
	return strings.Join(strings.Fields(s), "")
}

// BadgeStyle is the presentation color pair for a store badge.
type BadgeStyle struct {
	Background string `json:"background"`
	Text       string `json:"text"`
}

// badgeStyles holds the brand colors per category. Categories without an
// entry fall back to the neutral style.
var badgeStyles = map[StoreCategory]BadgeStyle{
	CategoryAmazon:   {Background: "#FF9900", Text: "#000000"},
	CategoryFlipkart: {Background: "#2874F0", Text: "#FFFFFF"},
	CategoryCroma:    {Background: "#00E9BF", Text: "#000000"},
	CategoryCashify:  {Background: "#4CAF50", Text: "#FFFFFF"},
	CategoryReliance: {Background: "#E42529", Text: "#FFFFFF"},
}

var neutralBadge = BadgeStyle{Background: "#E5E7EB", Text: "#374151"}

// StoreBadgeStyle returns the badge colors for a free-text store name.
// Pure lookup: same input, same style.
func StoreBadgeStyle(storeName string) BadgeStyle {
	if style, ok := badgeStyles[ClassifyStore(storeName)]; ok {
		return style
	}
	return neutralBadge
}
