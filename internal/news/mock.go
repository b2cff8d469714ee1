package news

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"newssense/internal/models"
)

// articleTemplate is one canned story shape the demo feed can instantiate for
// a subject. Bodies are sized so the impact rule produces a spread of levels.
type articleTemplate struct {
	title   string
	summary string
	body    string
	source  string
}

var articleTemplates = []articleTemplate{
	{
		title:   "%s reports stronger than expected quarterly results",
		summary: "%s beat street estimates on both revenue and profit, driven by healthy volume growth.",
		body: "%s announced quarterly results that came in ahead of analyst expectations, with revenue showing solid growth over the same period last year. " +
			"Management attributed the performance to sustained demand, better realizations and disciplined cost control. " +
			"The company also indicated that margin expansion should continue into the next quarter as input costs ease. " +
			"Analysts tracking the company said the beat strengthens the investment case and several brokerages are reviewing their price targets. " +
			"Trading volumes in the counter picked up sharply following the announcement.",
		source: "Economic Times",
	},
	{
		title:   "%s shares slide as investors book profits",
		summary: "Profit booking dragged %s lower amid a broader decline in the sector.",
		body: "Shares of %s declined in trade as investors chose to book profits after the recent run-up. " +
			"Dealers said the fall was accompanied by a drop in delivery volumes, suggesting the weakness may be short-lived. " +
			"The decline tracked a broader fall in the sector, with peers also trading lower. " +
			"Some analysts flagged concern around near-term demand, while others saw the dip as a buying opportunity for long-term investors.",
		source: "MoneyControl",
	},
	{
		title:   "Brokerages turn positive on %s after management commentary",
		summary: "Upgrades for %s follow an upbeat management outlook on growth and margins.",
		body: "Several brokerages upgraded their rating on %s after management issued upbeat commentary on demand trends and margin trajectory. " +
			"The company expects growth to improve through the year on the back of new launches and distribution expansion. " +
			"Price targets were raised across the board, with the most bullish note citing a favorable risk-reward at current levels.",
		source: "Business Standard",
	},
	{
		title:   "%s in focus as sector regulation tightens",
		summary: "New compliance norms could raise costs for %s and its peers.",
		body: "%s was in focus after the regulator proposed tighter compliance norms for the sector. " +
			"The draft rules, open for public comment, could raise operating costs in the near term. " +
			"Industry bodies are expected to seek a longer transition window.",
		source: "Reuters",
	},
	{
		title:   "%s announces capacity expansion plan",
		summary: "%s will invest in new capacity to meet rising demand.",
		body: "%s said it will expand capacity over the next two years to meet rising demand, funded largely through internal accruals. " +
			"The expansion is expected to support revenue growth and improve the company's market share position. " +
			"Work on the new facilities is expected to begin this quarter, with commissioning targeted within eighteen months. " +
			"The announcement was received positively, with the stock seeing strong gains in afternoon trade as investors cheered the growth roadmap.",
		source: "Mint",
	},
	{
		title:   "Weak global cues weigh on %s",
		summary: "%s traded lower as global markets fell on rate worries.",
		body: "%s traded lower along with the broader market as weak global cues weighed on sentiment. " +
			"Overnight losses in US markets and concerns around interest rates kept buyers on the sidelines.",
		source: "Financial Express",
	},
}

var generalTemplates = []articleTemplate{
	{
		title:   "Nifty, Sensex end mixed as investors weigh earnings",
		summary: "Benchmarks closed flat in a volatile session dominated by earnings reactions.",
		body: "Indian benchmark indices ended a choppy session little changed as investors weighed a heavy earnings calendar against mixed global cues. " +
			"Gains in financials were offset by declines in IT and energy names. " +
			"Market breadth stayed balanced through the day, with advances roughly matching declines on the exchange.",
		source: "Economic Times",
	},
	{
		title:   "Rate decision looms over markets this week",
		summary: "Investors brace for the central bank's policy decision and commentary on inflation.",
		body: "Markets head into the week with the central bank's rate decision in focus. " +
			"Economists broadly expect rates to stay on hold, but the commentary on inflation will set the tone for bond and equity markets alike. " +
			"A hawkish surprise could trigger a decline in rate-sensitive sectors, while a dovish tilt may extend the ongoing rally in financial stocks.",
		source: "Reuters",
	},
	{
		title:   "Foreign investors turn net buyers after weeks of selling",
		summary: "FII flows turned positive, lifting sentiment across large caps.",
		body: "Foreign institutional investors turned net buyers of Indian equities after several weeks of sustained selling, exchange data showed. " +
			"The reversal in flows lifted sentiment across large-cap names and helped the rupee strengthen against the dollar. " +
			"Analysts said continued buying would support a further rise in the benchmarks.",
		source: "Business Standard",
	},
	{
		title:   "Crude prices ease, offering relief to importers",
		summary: "Softer crude is a positive for paint, aviation and oil marketing companies.",
		body: "Crude oil prices eased in international trade, offering relief to import-heavy sectors. " +
			"Lower crude is seen as a gain for paint makers, airlines and oil marketing companies, and supportive for the broader inflation trajectory.",
		source: "Mint",
	},
}

// MockFeed is a demo stand-in for a real scraping collaborator. It
// materializes a bounded set of template articles parameterized by the
// subject. Randomness and the simulated delay live only here, never in the
// core pipeline, so tests use canned fixtures instead.
type MockFeed struct {
	mu    sync.Mutex // rand.Rand is not safe for concurrent use
	rng   *rand.Rand
	delay time.Duration
	now   func() time.Time
}

// NewMockFeed creates a demo news feed. A non-zero delay simulates network
// latency for manual demos.
func NewMockFeed(seed int64, delay time.Duration) *MockFeed {
	return &MockFeed{
		rng:   rand.New(rand.NewSource(seed)),
		delay: delay,
		now:   time.Now,
	}
}

// FetchNews returns between 3 and 6 template-based articles about the subject.
func (m *MockFeed) FetchNews(ctx context.Context, subject string) ([]models.NewsRecord, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	count := 3 + m.rng.Intn(4)
	order := m.rng.Perm(len(articleTemplates))
	ages := make([]time.Duration, count)
	for i := range ages {
		ages[i] = time.Duration(m.rng.Intn(48)) * time.Hour
	}
	m.mu.Unlock()

	records := make([]models.NewsRecord, 0, count)
	for i := 0; i < count; i++ {
		tmpl := articleTemplates[order[i%len(order)]]
		rec := m.instantiate(tmpl, subject, i, ages[i])
		Annotate(&rec, subject)
		records = append(records, rec)
	}
	return records, nil
}

// FetchGeneralMarketNews returns market-wide template articles.
func (m *MockFeed) FetchGeneralMarketNews(ctx context.Context) ([]models.NewsRecord, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	ages := make([]time.Duration, len(generalTemplates))
	for i := range ages {
		ages[i] = time.Duration(m.rng.Intn(48)) * time.Hour
	}
	m.mu.Unlock()

	records := make([]models.NewsRecord, 0, len(generalTemplates))
	for i, tmpl := range generalTemplates {
		rec := m.instantiate(tmpl, "market", i, ages[i])
		Annotate(&rec, "market")
		records = append(records, rec)
	}
	return records, nil
}

func (m *MockFeed) instantiate(tmpl articleTemplate, subject string, idx int, age time.Duration) models.NewsRecord {
	now := m.now()
	fill := func(s string) string {
		if strings.Contains(s, "%s") {
			return fmt.Sprintf(s, subject)
		}
		return s
	}
	return models.NewsRecord{
		ID:          fmt.Sprintf("mock-%s-%d-%d", sanitizeID(subject), now.Unix(), idx),
		Title:       fill(tmpl.title),
		Summary:     fill(tmpl.summary),
		Content:     fill(tmpl.body),
		Source:      tmpl.source,
		URL:         fmt.Sprintf("https://news.example.com/%s/%d", sanitizeID(subject), idx),
		PublishedAt: now.Add(-age),
	}
}

func sanitizeID(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

func (m *MockFeed) sleep(ctx context.Context) error {
	if m.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
