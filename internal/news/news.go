// Package news provides news aggregation for financial instruments. The core
// of the package annotates raw articles with sentiment, impact, entities and
// keywords; fetching itself is behind the Fetcher interface so scraping,
// canned fixtures and the demo feed are interchangeable collaborators.
package news

import (
	"context"
	"strings"
	"unicode/utf8"

	"newssense/internal/models"
	"newssense/internal/sentiment"
)

// Fetcher is the external collaborator boundary for news retrieval.
type Fetcher interface {
	// FetchNews returns a bounded list of news records about the subject
	// (an instrument name or ticker).
	FetchNews(ctx context.Context, subject string) ([]models.NewsRecord, error)
	// FetchGeneralMarketNews returns news not tied to one instrument.
	FetchGeneralMarketNews(ctx context.Context) ([]models.NewsRecord, error)
}

// marketWatchlist is the fixed set of market-alias tokens seeded into a
// record's entity set when they appear in its title.
var marketWatchlist = []string{
	"nifty", "sensex", "nasdaq", "s&p 500", "dow jones", "rbi", "fed",
	"sebi", "rupee", "dollar", "crude", "gold", "inflation", "gdp",
}

// stopWords is the fixed English stop-word list for keyword extraction.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"day": true, "get": true, "has": true, "him": true, "his": true,
	"how": true, "man": true, "new": true, "now": true, "old": true,
	"see": true, "two": true, "way": true, "who": true, "its": true,
	"did": true, "yes": true, "this": true, "that": true, "with": true,
	"from": true, "they": true, "will": true, "have": true, "been": true,
	"were": true, "said": true, "each": true, "which": true, "their": true,
	"about": true, "would": true, "there": true, "could": true, "other": true,
	"after": true, "more": true, "than": true, "into": true, "over": true,
	"under": true, "while": true, "also": true, "some": true, "what": true,
	"when": true, "where": true, "these": true, "those": true, "such": true,
	"being": true, "during": true, "before": true, "between": true,
	"through": true, "because": true, "against": true, "among": true,
}

// Annotate fills in the derived fields of a record: sentiment, impact,
// entities and keywords. The subject used to retrieve the record is always
// included in the entity set.
func Annotate(rec *models.NewsRecord, subject string) {
	if rec.Sentiment == "" {
		rec.Sentiment = sentiment.Score(rec.Title + " " + rec.Content)
	}
	rec.Impact = ImpactFor(utf8.RuneCountInString(rec.Content), rec.Sentiment)
	rec.Entities = ExtractEntities(rec.Title, subject)
	rec.Keywords = ExtractKeywords(rec.Title + " " + rec.Content)
}

// ImpactFor derives the editorial impact level from body length (in runes)
// and sentiment. High demands both a long body and a polarized sentiment;
// medium needs either some length or any non-neutral signal.
func ImpactFor(bodyLen int, s models.Sentiment) models.Impact {
	if bodyLen > 500 && sentiment.Polarized(s) {
		return models.ImpactHigh
	}
	if bodyLen > 300 || s != models.SentimentNeutral {
		return models.ImpactMedium
	}
	return models.ImpactLow
}

// ExtractEntities seeds an entity set with every watchlist token found as a
// substring of the title, plus the query subject itself, de-duplicated.
func ExtractEntities(title, subject string) []string {
	lowerTitle := strings.ToLower(title)

	var entities []string
	seen := make(map[string]bool)

	add := func(e string) {
		key := strings.ToLower(e)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		entities = append(entities, e)
	}

	for _, token := range marketWatchlist {
		if strings.Contains(lowerTitle, token) {
			add(token)
		}
	}
	add(subject)

	return entities
}

// ExtractKeywords lower-cases the text, strips punctuation, splits on
// whitespace, discards stop words and tokens of length <= 2, and returns at
// most the first 10 distinct tokens in first-occurrence order. Tokens are
// never frequency-ranked.
func ExtractKeywords(text string) []string {
	cleaned := stripPunctuation(strings.ToLower(text))

	var keywords []string
	seen := make(map[string]bool)
	for _, token := range strings.Fields(cleaned) {
		if len(token) <= 2 || stopWords[token] || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
		if len(keywords) == 10 {
			break
		}
	}
	return keywords
}

func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '\t', r == '\n':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
