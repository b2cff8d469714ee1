package news

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"newssense/internal/models"
)

func TestImpactFor(t *testing.T) {
	testCases := []struct {
		name     string
		bodyLen  int
		s        models.Sentiment
		expected models.Impact
	}{
		{"long and positive is high", 501, models.SentimentPositive, models.ImpactHigh},
		{"long and negative is high", 800, models.SentimentNegative, models.ImpactHigh},
		{"long but neutral is medium", 501, models.SentimentNeutral, models.ImpactMedium},
		{"long but mixed is medium", 501, models.SentimentMixed, models.ImpactMedium},
		{"short but positive is medium", 100, models.SentimentPositive, models.ImpactMedium},
		{"medium length neutral is medium", 301, models.SentimentNeutral, models.ImpactMedium},
		{"short neutral is low", 100, models.SentimentNeutral, models.ImpactLow},
		{"empty neutral is low", 0, models.SentimentNeutral, models.ImpactLow},
		{"boundary 500 positive is medium", 500, models.SentimentPositive, models.ImpactMedium},
		{"boundary 300 neutral is low", 300, models.SentimentNeutral, models.ImpactLow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ImpactFor(tc.bodyLen, tc.s); got != tc.expected {
				t.Errorf("ImpactFor(%d, %s) = %s, want %s", tc.bodyLen, tc.s, got, tc.expected)
			}
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	t.Run("drops stop words and short tokens", func(t *testing.T) {
		keywords := ExtractKeywords("The company said it would expand through the year")
		for _, kw := range keywords {
			if stopWords[kw] {
				t.Errorf("stop word %q leaked into keywords", kw)
			}
			if len(kw) <= 2 {
				t.Errorf("short token %q leaked into keywords", kw)
			}
		}
	})

	t.Run("first occurrence order, deduplicated", func(t *testing.T) {
		keywords := ExtractKeywords("revenue growth revenue margin growth margin")
		want := []string{"revenue", "growth", "margin"}
		if len(keywords) != len(want) {
			t.Fatalf("keywords = %v, want %v", keywords, want)
		}
		for i := range want {
			if keywords[i] != want[i] {
				t.Errorf("keywords[%d] = %s, want %s", i, keywords[i], want[i])
			}
		}
	})

	t.Run("at most ten", func(t *testing.T) {
		text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima mike"
		keywords := ExtractKeywords(text)
		if len(keywords) != 10 {
			t.Errorf("got %d keywords, want 10", len(keywords))
		}
		if keywords[0] != "alpha" || keywords[9] != "juliet" {
			t.Errorf("keywords = %v, want first ten tokens in order", keywords)
		}
	})

	t.Run("punctuation stripped", func(t *testing.T) {
		keywords := ExtractKeywords("Profit-booking, margins: strong!")
		for _, kw := range keywords {
			if strings.ContainsAny(kw, ".,:;!-") {
				t.Errorf("keyword %q contains punctuation", kw)
			}
		}
	})
}

// Property: keyword extraction output is bounded, clean and deterministic
func TestPropertyExtractKeywords(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("at most 10 lowercase keywords without stop words", prop.ForAll(
		func(text string) bool {
			keywords := ExtractKeywords(text)
			if len(keywords) > 10 {
				return false
			}
			seen := make(map[string]bool)
			for _, kw := range keywords {
				if kw != strings.ToLower(kw) || len(kw) <= 2 || stopWords[kw] || seen[kw] {
					return false
				}
				seen[kw] = true
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestExtractEntities(t *testing.T) {
	entities := ExtractEntities("Nifty, Sensex end mixed as RBI decision looms", "Jyothy Labs")

	want := map[string]bool{"nifty": true, "sensex": true, "rbi": true, "Jyothy Labs": true}
	if len(entities) != len(want) {
		t.Fatalf("entities = %v, want %d entries", entities, len(want))
	}
	for _, e := range entities {
		if !want[e] {
			t.Errorf("unexpected entity %q", e)
		}
	}
}

func TestExtractEntitiesDeduplicatesSubject(t *testing.T) {
	entities := ExtractEntities("Nifty ends higher", "nifty")
	if len(entities) != 1 {
		t.Errorf("entities = %v, want the subject deduplicated against the watchlist hit", entities)
	}
}

func TestAnnotatePreservesExistingSentiment(t *testing.T) {
	rec := models.NewsRecord{
		Title:     "Quarterly filing published",
		Content:   strings.Repeat("x ", 300),
		Sentiment: models.SentimentPositive,
	}
	Annotate(&rec, "Jyothy Labs")
	if rec.Sentiment != models.SentimentPositive {
		t.Errorf("Annotate overwrote pre-set sentiment: %s", rec.Sentiment)
	}
	if rec.Impact == "" {
		t.Error("Annotate did not set impact")
	}
}

func TestAnnotateCountsRunesNotBytes(t *testing.T) {
	// 400 runes of multi-byte text is 1200 bytes. Counting bytes would push
	// this over the high-impact threshold; counting runes keeps it medium.
	rec := models.NewsRecord{
		Title:     "Rupee strengthens on inflows",
		Content:   strings.Repeat("₹", 400),
		Sentiment: models.SentimentPositive,
	}
	Annotate(&rec, "Jyothy Labs")
	if rec.Impact != models.ImpactMedium {
		t.Errorf("impact = %s, want medium for a 400-character body", rec.Impact)
	}
}

func TestMockFeedBounds(t *testing.T) {
	feed := NewMockFeed(42, 0)
	for i := 0; i < 10; i++ {
		records, err := feed.FetchNews(context.Background(), "Jyothy Labs")
		if err != nil {
			t.Fatalf("FetchNews failed: %v", err)
		}
		if len(records) < 3 || len(records) > 6 {
			t.Errorf("got %d records, want between 3 and 6", len(records))
		}
		for _, rec := range records {
			if rec.Title == "" || rec.Source == "" {
				t.Errorf("record missing title or source: %+v", rec)
			}
			if rec.Sentiment == "" || rec.Impact == "" {
				t.Errorf("record not annotated: %+v", rec)
			}
			found := false
			for _, e := range rec.Entities {
				if strings.EqualFold(e, "Jyothy Labs") {
					found = true
				}
			}
			if !found {
				t.Errorf("subject missing from entities: %v", rec.Entities)
			}
		}
	}
}

func TestMockFeedGeneralNews(t *testing.T) {
	feed := NewMockFeed(1, 0)
	records, err := feed.FetchGeneralMarketNews(context.Background())
	if err != nil {
		t.Fatalf("FetchGeneralMarketNews failed: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("expected general market news")
	}
	for _, rec := range records {
		if strings.Contains(rec.Title, "%s") || strings.Contains(rec.Content, "%s") {
			t.Errorf("unfilled template in record: %s", rec.Title)
		}
	}
}

func TestMockFeedHonorsContext(t *testing.T) {
	feed := NewMockFeed(1, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := feed.FetchNews(ctx, "x"); err == nil {
		t.Error("expected error from canceled context")
	}
}
