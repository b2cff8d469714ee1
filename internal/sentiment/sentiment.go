// Package sentiment classifies text into a coarse polarity label by keyword
// counting. It is not a statistical classifier: the word lists are fixed,
// finance-flavored tables shared read-only across concurrent callers.
package sentiment

import (
	"strings"

	"newssense/internal/models"
)

// positiveWords and negativeWords are matched by substring containment against
// each whitespace token, so "gains" and "gained" both count for "gain".
var positiveWords = []string{
	"up", "rise", "gain", "growth", "profit", "surge", "rally",
	"bullish", "upgrade", "beat", "exceed", "strong", "positive",
	"outperform", "record", "boost", "improve", "success", "optimistic",
}

var negativeWords = []string{
	"down", "fall", "loss", "decline", "drop", "plunge", "bearish",
	"downgrade", "miss", "weak", "negative", "underperform", "concern",
	"cut", "warning", "risk", "pessimistic", "slump",
}

// Score classifies a text blob into one of the four sentiment labels.
//
// The decision rule requires a dominant signal before committing to a
// polarity: one side must outnumber the other by more than 2x, otherwise a
// non-empty signal is labeled mixed. Pure function of its input.
func Score(text string) models.Sentiment {
	positiveCount, negativeCount := Counts(text)

	switch {
	case positiveCount > 2*negativeCount:
		return models.SentimentPositive
	case negativeCount > 2*positiveCount:
		return models.SentimentNegative
	case positiveCount == 0 && negativeCount == 0:
		return models.SentimentNeutral
	default:
		return models.SentimentMixed
	}
}

// Counts returns the number of tokens matching each polarity list.
func Counts(text string) (positive, negative int) {
	tokens := strings.Fields(strings.ToLower(text))
	for _, token := range tokens {
		for _, w := range positiveWords {
			if strings.Contains(token, w) {
				positive++
				break
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(token, w) {
				negative++
				break
			}
		}
	}
	return positive, negative
}

// Polarized reports whether a label carries a clear direction.
func Polarized(s models.Sentiment) bool {
	return s == models.SentimentPositive || s == models.SentimentNegative
}
