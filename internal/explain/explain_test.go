package explain

import (
	"strings"
	"testing"
	"time"

	"newssense/internal/models"
)

func ptr(v float64) *float64 { return &v }

func jyothy() models.Instrument {
	return models.Instrument{
		ID: "JYOTHYLAB", Name: "Jyothy Labs", Category: models.CategoryStock,
		Symbol: "JYOTHYLAB.NS", Sector: "FMCG",
		Performance: 3.45, ChangePercent: 1.62, Price: ptr(486.30),
	}
}

func newsAbout(name string, impact models.Impact, s models.Sentiment, age time.Duration) models.NewsRecord {
	return models.NewsRecord{
		ID:          "n-" + string(impact) + "-" + age.String(),
		Title:       name + " in focus",
		Source:      "Economic Times",
		Summary:     "A development at " + name + ".",
		Content:     "Detailed coverage of " + name + " and its sector.",
		Entities:    []string{name},
		Sentiment:   s,
		Impact:      impact,
		PublishedAt: time.Now().Add(-age),
	}
}

func TestDetailedMovementScenario(t *testing.T) {
	inst := jyothy()
	records := []models.NewsRecord{
		newsAbout("Jyothy Labs", models.ImpactHigh, models.SentimentPositive, time.Hour),
	}

	text := Detailed(inst, records)

	if !strings.Contains(text, "moderate") {
		t.Errorf("expected moderate magnitude band for 3.45%%, got:\n%s", text)
	}
	if !strings.Contains(text, "outperforming the broader market by 1.83%") {
		t.Errorf("expected relative-to-market clause with 1.83%%, got:\n%s", text)
	}
}

func TestMovementBands(t *testing.T) {
	testCases := []struct {
		perf     float64
		expected string
	}{
		{6.2, "significant"},
		{-7.0, "significant"},
		{3.0, "moderate"},
		{-2.5, "moderate"},
		{1.9, "small"},
		{0, "small"},
		{5.0, "moderate"}, // boundary: band requires strictly more than 5
		{2.0, "small"},    // boundary: band requires strictly more than 2
	}

	for _, tc := range testCases {
		inst := jyothy()
		inst.Performance = tc.perf
		inst.ChangePercent = tc.perf // keep the relative clause neutral
		text := Detailed(inst, nil)
		if !strings.Contains(text, tc.expected) {
			t.Errorf("performance %.2f: expected band %q in:\n%s", tc.perf, tc.expected, text)
		}
	}
}

func TestRelativeToMarketInLine(t *testing.T) {
	inst := jyothy()
	inst.Performance = 2.10
	inst.ChangePercent = 1.80 // diff 0.30 < 0.5

	text := Detailed(inst, nil)
	if !strings.Contains(text, "in line with the broader market") {
		t.Errorf("expected in-line clause, got:\n%s", text)
	}
}

func TestRelativeToMarketUnderperforming(t *testing.T) {
	inst := jyothy()
	inst.Performance = -1.00
	inst.ChangePercent = 1.50

	text := Detailed(inst, nil)
	if !strings.Contains(text, "underperforming the broader market by 2.50%") {
		t.Errorf("expected underperforming clause with 2.50%%, got:\n%s", text)
	}
}

func TestRankNewsImpactBeatsRecency(t *testing.T) {
	older := newsAbout("Jyothy Labs", models.ImpactHigh, models.SentimentPositive, 24*time.Hour)
	newer := newsAbout("Jyothy Labs", models.ImpactMedium, models.SentimentPositive, time.Hour)

	ranked := RankNews([]models.NewsRecord{newer, older})
	if ranked[0].Impact != models.ImpactHigh {
		t.Errorf("high impact from yesterday must rank above medium impact from today")
	}
}

func TestRankNewsStableOnTies(t *testing.T) {
	ts := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	a := models.NewsRecord{ID: "a", Impact: models.ImpactMedium, PublishedAt: ts}
	b := models.NewsRecord{ID: "b", Impact: models.ImpactMedium, PublishedAt: ts}
	c := models.NewsRecord{ID: "c", Impact: models.ImpactMedium, PublishedAt: ts}

	ranked := RankNews([]models.NewsRecord{a, b, c})
	if ranked[0].ID != "a" || ranked[1].ID != "b" || ranked[2].ID != "c" {
		t.Errorf("equal records must keep input order, got %s %s %s",
			ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
}

func TestRankNewsDoesNotMutateInput(t *testing.T) {
	older := newsAbout("x", models.ImpactHigh, models.SentimentPositive, 24*time.Hour)
	newer := newsAbout("x", models.ImpactLow, models.SentimentNeutral, time.Hour)
	input := []models.NewsRecord{newer, older}

	RankNews(input)
	if input[0].Impact != models.ImpactLow {
		t.Error("RankNews mutated its input slice")
	}
}

func TestDetailedNoNewsFallback(t *testing.T) {
	text := Detailed(jyothy(), nil)

	if !strings.Contains(text, "No recent news directly related to this instrument was found.") {
		t.Errorf("expected fixed no-news sentence, got:\n%s", text)
	}
	if strings.Contains(text, "sentiment distribution") {
		t.Errorf("sentiment distribution section must be omitted without news, got:\n%s", text)
	}
}

func TestDetailedEndsWithShortSummary(t *testing.T) {
	inst := jyothy()
	records := []models.NewsRecord{
		newsAbout("Jyothy Labs", models.ImpactHigh, models.SentimentPositive, time.Hour),
	}

	detailed := Detailed(inst, records)
	short := Short(inst, records)
	if !strings.Contains(detailed, short) {
		t.Error("detailed explanation must embed the short explanation verbatim")
	}
}

func TestSentimentDistribution(t *testing.T) {
	records := []models.NewsRecord{
		newsAbout("x", models.ImpactLow, models.SentimentPositive, time.Hour),
		newsAbout("x", models.ImpactLow, models.SentimentPositive, time.Hour),
		newsAbout("x", models.ImpactLow, models.SentimentPositive, time.Hour),
		newsAbout("x", models.ImpactLow, models.SentimentNegative, time.Hour),
	}

	shares := SentimentDistribution(records)
	if len(shares) != 2 {
		t.Fatalf("got %d shares, want 2", len(shares))
	}
	if shares[0].Label != models.SentimentPositive || shares[0].Percent != 75 {
		t.Errorf("shares[0] = %+v, want positive 75%%", shares[0])
	}
	if shares[1].Label != models.SentimentNegative || shares[1].Percent != 25 {
		t.Errorf("shares[1] = %+v, want negative 25%%", shares[1])
	}
}

func TestOutlookLabels(t *testing.T) {
	up := jyothy() // performance +3.45
	down := jyothy()
	down.Performance = -3.45

	pos := []models.NewsRecord{newsAbout("Jyothy Labs", models.ImpactLow, models.SentimentPositive, time.Hour)}
	neg := []models.NewsRecord{newsAbout("Jyothy Labs", models.ImpactLow, models.SentimentNegative, time.Hour)}
	neu := []models.NewsRecord{newsAbout("Jyothy Labs", models.ImpactLow, models.SentimentNeutral, time.Hour)}

	testCases := []struct {
		name     string
		inst     models.Instrument
		related  []models.NewsRecord
		expected string
	}{
		{"positive news with gain", up, pos, "bullish"},
		{"negative news with decline", down, neg, "bearish"},
		{"neutral news with gain", up, neu, "cautiously optimistic"},
		{"neutral news with decline", down, neu, "cautiously pessimistic"},
		{"contradiction", up, neg, "mixed, with potential for trend reversal"},
		{"no news with gain", up, nil, "cautiously optimistic"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Outlook(tc.inst, tc.related); got != tc.expected {
				t.Errorf("Outlook = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestRelatedNewsByEntityOrBody(t *testing.T) {
	inst := jyothy()
	byEntity := models.NewsRecord{ID: "e", Entities: []string{"Jyothy Labs"}}
	byBody := models.NewsRecord{ID: "b", Content: "Shares of jyothy labs rallied."}
	unrelated := models.NewsRecord{ID: "u", Title: "Unrelated", Content: "Something else."}

	related := RelatedNews(inst, []models.NewsRecord{byEntity, byBody, unrelated})
	if len(related) != 2 || related[0].ID != "e" || related[1].ID != "b" {
		t.Errorf("RelatedNews returned wrong subset: %+v", related)
	}
}

func TestShortQuotesTopRankedArticle(t *testing.T) {
	inst := jyothy()
	top := newsAbout("Jyothy Labs", models.ImpactHigh, models.SentimentPositive, time.Hour)
	top.Summary = "The summary to quote."
	minor := newsAbout("Jyothy Labs", models.ImpactLow, models.SentimentNeutral, time.Minute)

	text := Short(inst, []models.NewsRecord{minor, top})
	if !strings.Contains(text, "The summary to quote.") {
		t.Errorf("short explanation must quote the top-ranked article, got:\n%s", text)
	}
}

func TestFundInsightsShowHoldings(t *testing.T) {
	fund := models.Instrument{
		ID: "AXISBLUE", Name: "Axis Bluechip Fund", Category: models.CategoryMutualFund,
		Sector: "Large Cap", Performance: 4.21, ChangePercent: 0.52, NAV: ptr(58.42),
		Holdings: []models.Holding{
			{ID: "H1", Name: "HDFC Bank", Weight: 9.8},
			{ID: "H2", Name: "ICICI Bank", Weight: 8.4},
		},
	}

	text := Detailed(fund, nil)
	if !strings.Contains(text, "HDFC Bank (9.80%)") {
		t.Errorf("expected top holdings with two-decimal weights, got:\n%s", text)
	}
	if !strings.Contains(text, "NAV: 58.42") {
		t.Errorf("expected NAV in header, got:\n%s", text)
	}
}

func TestStockTechnicalDecisionTable(t *testing.T) {
	testCases := []struct {
		perf, change float64
		expected     string
	}{
		{3, 1, "continued upward momentum"},
		{3, -1, "potential reversal after recent gains"},
		{-3, 1, "early signs of recovery"},
		{-3, -1, "continued downward pressure"},
	}

	for _, tc := range testCases {
		inst := jyothy()
		inst.Performance = tc.perf
		inst.ChangePercent = tc.change
		text := Detailed(inst, nil)
		if !strings.Contains(text, tc.expected) {
			t.Errorf("perf %.0f change %.0f: expected %q in:\n%s", tc.perf, tc.change, tc.expected, text)
		}
	}
}

func TestNilPriceSkipsClause(t *testing.T) {
	inst := jyothy()
	inst.Price = nil

	text := Detailed(inst, nil)
	if strings.Contains(text, "Price:") {
		t.Errorf("price clause must be skipped when price is absent, got:\n%s", text)
	}
}

func TestRecommendationRefusal(t *testing.T) {
	parsed := models.ParsedQuery{Intent: models.IntentRecommendation}
	text := ForIntent(parsed, jyothy(), nil)
	if !strings.Contains(text, "can't provide buy, sell or hold recommendations") {
		t.Errorf("expected refusal message, got:\n%s", text)
	}
}
