// Package resolver maps free-text query tokens to known financial
// instruments. Matching is exact lower-cased substring only: no fuzzy
// matching, no typo tolerance.
package resolver

import (
	"strings"

	"newssense/internal/models"
)

// Resolve returns the instruments from the candidate pool referenced by the
// query text. Order follows the candidate pool's original order filtered
// down; no ranking is applied. An empty result means no instrument was
// recognized, which callers must treat as a first-class outcome rather than
// an error.
func Resolve(queryText string, pool []models.Instrument) []models.Instrument {
	q := strings.ToLower(queryText)

	// Symbols referenced through the alias table.
	aliasSymbols := make(map[string]bool)
	for alias, symbol := range tickerAliases {
		if strings.Contains(q, alias) {
			aliasSymbols[symbol] = true
		}
	}

	var matched []models.Instrument
	seen := make(map[string]bool)
	for _, inst := range pool {
		if !matchesQuery(q, inst, aliasSymbols) {
			continue
		}
		if seen[inst.ID] {
			continue
		}
		seen[inst.ID] = true
		matched = append(matched, inst)
	}
	return matched
}

func matchesQuery(q string, inst models.Instrument, aliasSymbols map[string]bool) bool {
	if inst.Symbol != "" && aliasSymbols[inst.Symbol] {
		return true
	}
	if inst.Name != "" && strings.Contains(q, strings.ToLower(inst.Name)) {
		return true
	}
	if inst.Sector != "" && strings.Contains(q, strings.ToLower(inst.Sector)) {
		return true
	}
	return matchesCategory(q, inst.Category)
}

// matchesCategory tests whether the query names the instrument's category.
// The literal substring "fund" matches mutual funds, so "why are my mutual
// funds down" and "fund performance" both hit.
func matchesCategory(q string, category models.Category) bool {
	switch category {
	case models.CategoryMutualFund:
		return strings.Contains(q, "fund")
	case models.CategoryETF:
		return strings.Contains(q, "etf")
	case models.CategoryStock:
		return strings.Contains(q, "stock")
	}
	return false
}

// SectorTokens returns the sector labels from the pool that appear verbatim
// in the query text. Used by the query parser to surface sector entities the
// resolver alone would fold into instrument matches.
func SectorTokens(queryText string, pool []models.Instrument) []string {
	q := strings.ToLower(queryText)
	var tokens []string
	seen := make(map[string]bool)
	for _, inst := range pool {
		sector := strings.ToLower(inst.Sector)
		if sector == "" || seen[sector] {
			continue
		}
		if strings.Contains(q, sector) {
			seen[sector] = true
			tokens = append(tokens, inst.Sector)
		}
	}
	return tokens
}
