package sentiment

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"newssense/internal/models"
)

// Property: Score is a pure function - same input always produces same output
func TestPropertyScoreDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Score is deterministic", prop.ForAll(
		func(text string) bool {
			first := Score(text)
			for i := 0; i < 5; i++ {
				if Score(text) != first {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("Score always returns a known label", prop.ForAll(
		func(text string) bool {
			switch Score(text) {
			case models.SentimentPositive, models.SentimentNegative,
				models.SentimentNeutral, models.SentimentMixed:
				return true
			}
			return false
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// Property: text built only from words outside both keyword lists is neutral
func TestPropertyNeutralWithoutKeywords(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// None of these contain any polarity keyword as a substring.
	neutralVocab := []string{"the", "board", "met", "quarterly", "filing", "shares", "held", "company"}

	properties.Property("no keywords means neutral", prop.ForAll(
		func(indices []int) bool {
			var words []string
			for _, idx := range indices {
				words = append(words, neutralVocab[idx%len(neutralVocab)])
			}
			return Score(strings.Join(words, " ")) == models.SentimentNeutral
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}

// Property: appending positive tokens never flips a positive text to negative
func TestPropertyMorePositiveNeverNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("adding positive words never yields negative", prop.ForAll(
		func(extra int) bool {
			text := "profit " + strings.Repeat("gain ", extra)
			return Score(text) != models.SentimentNegative
		},
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

func TestScoreRule(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected models.Sentiment
	}{
		{"empty text", "", models.SentimentNeutral},
		{"no signal", "the board met on tuesday", models.SentimentNeutral},
		{"dominant positive", "strong profit growth and record gains", models.SentimentPositive},
		{"dominant negative", "shares plunge on weak results and downgrade", models.SentimentNegative},
		{"balanced is mixed", "profit rise offset by loss warning", models.SentimentMixed},
		// 2 positive vs 1 negative: 2 > 2*1 is false, so mixed
		{"two to one is mixed", "gain surge loss", models.SentimentMixed},
		// 3 positive vs 1 negative: 3 > 2*1 holds
		{"three to one is positive", "gain surge rally loss", models.SentimentPositive},
		// substring containment catches inflections
		{"inflected tokens count", "gains gained gaining dropped", models.SentimentPositive},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.text); got != tc.expected {
				t.Errorf("Score(%q) = %s, want %s", tc.text, got, tc.expected)
			}
		})
	}
}

func TestCounts(t *testing.T) {
	pos, neg := Counts("profit warning after strong rally and sharp drop")
	if pos != 3 {
		t.Errorf("positive count = %d, want 3", pos)
	}
	if neg != 2 {
		t.Errorf("negative count = %d, want 2", neg)
	}
}

func TestPolarized(t *testing.T) {
	if !Polarized(models.SentimentPositive) || !Polarized(models.SentimentNegative) {
		t.Error("positive and negative must be polarized")
	}
	if Polarized(models.SentimentNeutral) || Polarized(models.SentimentMixed) {
		t.Error("neutral and mixed must not be polarized")
	}
}
