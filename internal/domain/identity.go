package domain

import (
	"strings"
	"unicode"
)

// Identity derives the canonical key for a product record:
// "source-name-price" with all whitespace removed and case folded.
// Two records that agree on those three fields are the same product for
// membership and dedup purposes, whatever their image, link or ephemeral
// enrichment fields say. The key is purely derived — no random or
// time-based component — so it matches persisted copies across process
// restarts.
func (r ProductRecord) Identity() string {
	return IdentityOf(r.Source, r.Name, r.Price)
}

// IdentityOf builds the canonical identity from raw field values.
// The field order (source, name, price) is fixed and part of the
// contract.
func IdentityOf(source, name, price string) string {
	raw := source + "-" + name + "-" + price
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
