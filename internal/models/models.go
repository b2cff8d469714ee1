// Package models provides domain models for the NewsSense application.
package models

import (
	"time"
)

// Category represents the kind of a tradable security.
type Category string

const (
	CategoryStock      Category = "Stock"
	CategoryETF        Category = "ETF"
	CategoryMutualFund Category = "MutualFund"
)

// Sentiment is a coarse polarity label attached to text via keyword counting.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

// Impact is a coarse editorial weight assigned to a news record, used only for ranking.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Ordinal returns the rank weight of an impact level for sorting.
func (i Impact) Ordinal() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 1
	}
	return 0
}

// Holding is one constituent of a fund, with an illustrative weight.
// Weights are independent floats and are not required to sum to 100.
type Holding struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Instrument represents a tradable security with performance figures.
// Instances are created by the market data loader at session start and are
// immutable for the rest of the session; a refresh re-creates them fully.
type Instrument struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      Category  `json:"category"`
	Symbol        string    `json:"symbol,omitempty"`
	ISIN          string    `json:"isin,omitempty"`
	Sector        string    `json:"sector"`
	Performance   float64   `json:"performance"`    // period return, percent
	ChangePercent float64   `json:"change_percent"` // latest-session delta, percent
	Price         *float64  `json:"price,omitempty"`
	NAV           *float64  `json:"nav,omitempty"`
	Holdings      []Holding `json:"holdings,omitempty"`
}

// NewsRecord represents one news-like article about an instrument or the market.
// Records are created fresh per query and are not deduplicated across queries.
type NewsRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`
	Sentiment   Sentiment `json:"sentiment"`
	Impact      Impact    `json:"impact"`
	Entities    []string  `json:"entities"`
	Keywords    []string  `json:"keywords"`
}

// Mentions reports whether the record references the given name, either in its
// entity set or as a substring of its body text. Matching is case-insensitive
// on the caller's side; callers pass a lower-cased name and this method
// compares against lower-cased fields.
func (n *NewsRecord) Mentions(lowerName string) bool {
	for _, e := range n.Entities {
		if equalsFold(e, lowerName) {
			return true
		}
	}
	return containsFold(n.Content, lowerName)
}

// Intent is the coarse category of what the user is asking.
type Intent string

const (
	IntentPriceMovement  Intent = "price_movement"
	IntentPerformance    Intent = "performance"
	IntentNewsImpact     Intent = "news_impact"
	IntentOutlook        Intent = "outlook"
	IntentRecommendation Intent = "recommendation"
	IntentMacro          Intent = "macro"
	IntentGeneral        Intent = "general_inquiry"
)

// Timeframe is the period a query asks about.
type Timeframe string

const (
	TimeframeToday       Timeframe = "today"
	TimeframeYesterday   Timeframe = "yesterday"
	TimeframeThisWeek    Timeframe = "this_week"
	TimeframeThisMonth   Timeframe = "this_month"
	TimeframeThisQuarter Timeframe = "this_quarter"
	TimeframeThisYear    Timeframe = "this_year"
)

// Query holds a raw user question plus optional declared filters.
type Query struct {
	Raw        string    `json:"raw"`
	TypeFilter Category  `json:"type_filter,omitempty"`
	TimeFilter Timeframe `json:"time_filter,omitempty"`
}

// ParsedQuery is the derived interpretation of a raw query. It is computed per
// request and never stored.
type ParsedQuery struct {
	Raw       string    `json:"raw"`
	Intent    Intent    `json:"intent"`
	Entities  []string  `json:"entities"`
	Timeframe Timeframe `json:"timeframe"`
	Direction string    `json:"direction,omitempty"` // "up", "down" or empty
	Factors   []string  `json:"factors,omitempty"`
}

// Answer is the result of running a query through the full pipeline.
type Answer struct {
	Query              ParsedQuery             `json:"query"`
	MatchedInstruments []Instrument            `json:"matched_instruments"`
	Explanations       map[string]string       `json:"explanations"` // instrument ID -> detailed explanation
	Summaries          map[string]string       `json:"summaries"`    // instrument ID -> short explanation
	RelatedNews        []NewsRecord            `json:"related_news"`
	NewsByInstrument   map[string][]NewsRecord `json:"-"`
	GeneratedAt        time.Time               `json:"generated_at"`
}

// Matched reports whether the answer resolved at least one instrument.
func (a *Answer) Matched() bool {
	return len(a.MatchedInstruments) > 0
}
