// Package query extracts an intent and entity list from a raw user question.
// Intent detection is keyword triggering over a fixed priority order; entity
// extraction delegates to the security resolver.
package query

import (
	"strings"

	"newssense/internal/models"
	"newssense/internal/resolver"
)

// intentOrder is the fixed priority order over intents: the first intent
// whose keyword set has any match wins.
var intentOrder = []models.Intent{
	models.IntentPriceMovement,
	models.IntentPerformance,
	models.IntentNewsImpact,
	models.IntentOutlook,
	models.IntentRecommendation,
	models.IntentMacro,
}

var intentKeywords = map[models.Intent][]string{
	models.IntentPriceMovement: {
		"why is", "why did", "why has", "why are", "reason for", "explain",
		"what caused", "what is causing", "what made", "what happened", "movement",
		"up today", "down today", "climbing", "falling", "dropped",
		"surged", "plunged", "rallied", "declined", "gained", "why",
	},
	models.IntentPerformance: {
		"how is", "how did", "performance", "performing", "trend",
		"doing", "track record", "history", "historical", "compare",
	},
	models.IntentNewsImpact: {
		"news", "headlines", "articles", "reported", "announced",
		"press release", "media", "coverage", "report", "statement",
	},
	models.IntentOutlook: {
		"outlook", "forecast", "projection", "future", "expectation",
		"guidance", "target", "potential", "prospect", "predict",
	},
	models.IntentRecommendation: {
		"should i", "is it good", "is it bad", "worth", "recommend",
		"buy", "sell", "hold", "invest", "investment",
	},
	models.IntentMacro: {
		"macro", "economy", "economic", "interest rate", "inflation",
		"rbi", "fed", "federal reserve", "global", "market-wide",
	},
}

var timeframePatterns = map[models.Timeframe][]string{
	models.TimeframeToday:       {"today", "now", "current"},
	models.TimeframeYesterday:   {"yesterday"},
	models.TimeframeThisWeek:    {"this week", "past week", "recent days"},
	models.TimeframeThisMonth:   {"this month", "past month", "recent weeks"},
	models.TimeframeThisQuarter: {"this quarter", "past quarter", "recent months"},
	models.TimeframeThisYear:    {"this year", "past year", "ytd", "year to date"},
}

// timeframeOrder fixes evaluation order so longer ranges win over "today"
// tokens embedded in them.
var timeframeOrder = []models.Timeframe{
	models.TimeframeYesterday,
	models.TimeframeThisWeek,
	models.TimeframeThisMonth,
	models.TimeframeThisQuarter,
	models.TimeframeThisYear,
	models.TimeframeToday,
}

var upTerms = []string{"up", "rise", "rising", "gain", "grew", "higher", "increased", "positive"}

var downTerms = []string{"down", "fall", "falling", "drop", "decline", "lower", "decreased", "negative"}

var factorKeywords = map[string][]string{
	"earnings":   {"earnings", "revenue", "profit", "financial results"},
	"analyst":    {"analyst", "rating", "upgrade", "downgrade", "target price"},
	"merger":     {"merger", "acquisition", "takeover", "buyout"},
	"product":    {"product", "launch", "release", "announcement"},
	"legal":      {"lawsuit", "legal", "litigation", "settlement"},
	"management": {"ceo", "executive", "management", "leadership"},
}

// factorOrder keeps factor extraction deterministic.
var factorOrder = []string{"earnings", "analyst", "merger", "product", "legal", "management"}

// Parser extracts query components against a session's instrument pool.
type Parser struct {
	pool []models.Instrument
}

// NewParser creates a parser over the given candidate pool.
func NewParser(pool []models.Instrument) *Parser {
	return &Parser{pool: pool}
}

// Parse extracts the intent, entities and supporting components from a raw
// query. It never fails: an unrecognized query yields the general inquiry
// intent and an empty entity list.
func (p *Parser) Parse(raw string) models.ParsedQuery {
	q := strings.ToLower(raw)

	parsed := models.ParsedQuery{
		Raw:       raw,
		Intent:    detectIntent(q),
		Timeframe: detectTimeframe(q),
		Direction: detectDirection(q),
		Factors:   detectFactors(q),
	}

	// Entities: resolved instrument names plus sector tokens present verbatim.
	seen := make(map[string]bool)
	for _, inst := range resolver.Resolve(raw, p.pool) {
		key := strings.ToLower(inst.Name)
		if !seen[key] {
			seen[key] = true
			parsed.Entities = append(parsed.Entities, inst.Name)
		}
	}
	for _, sector := range resolver.SectorTokens(raw, p.pool) {
		key := strings.ToLower(sector)
		if !seen[key] {
			seen[key] = true
			parsed.Entities = append(parsed.Entities, sector)
		}
	}
	for _, cat := range categoryTokens(q) {
		if !seen[cat] {
			seen[cat] = true
			parsed.Entities = append(parsed.Entities, cat)
		}
	}

	return parsed
}

func detectIntent(q string) models.Intent {
	for _, intent := range intentOrder {
		for _, kw := range intentKeywords[intent] {
			if strings.Contains(q, kw) {
				return intent
			}
		}
	}
	return models.IntentGeneral
}

func detectTimeframe(q string) models.Timeframe {
	for _, tf := range timeframeOrder {
		for _, pattern := range timeframePatterns[tf] {
			if strings.Contains(q, pattern) {
				return tf
			}
		}
	}
	return models.TimeframeToday
}

func detectDirection(q string) string {
	for _, term := range upTerms {
		if strings.Contains(q, term) {
			return "up"
		}
	}
	for _, term := range downTerms {
		if strings.Contains(q, term) {
			return "down"
		}
	}
	return ""
}

func detectFactors(q string) []string {
	var factors []string
	for _, factor := range factorOrder {
		for _, kw := range factorKeywords[factor] {
			if strings.Contains(q, kw) {
				factors = append(factors, factor)
				break
			}
		}
	}
	return factors
}

func categoryTokens(q string) []string {
	var tokens []string
	for _, tok := range []string{"stock", "etf", "mutual fund", "fund"} {
		if strings.Contains(q, tok) {
			tokens = append(tokens, tok)
			// "mutual fund" subsumes "fund"
			if tok == "mutual fund" {
				return tokens
			}
		}
	}
	return tokens
}
