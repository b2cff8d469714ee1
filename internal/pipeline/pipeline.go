// Package pipeline orchestrates a query end to end: parse, resolve, fetch
// news per matched instrument, and build explanations. The pipeline itself
// never fails a query over a collaborator error: a failed fetch degrades that
// instrument to the no-related-news path.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"newssense/internal/explain"
	"newssense/internal/logging"
	"newssense/internal/models"
	"newssense/internal/news"
	"newssense/internal/nlp"
	"newssense/internal/query"
	"newssense/internal/resolver"
	"newssense/internal/store"
)

// DefaultCacheTTL is how long an answer is served from cache for a repeated
// query before the pipeline runs again.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	answer  *models.Answer
	expires time.Time
}

// Pipeline answers user queries against an immutable instrument pool.
type Pipeline struct {
	pool           []models.Instrument
	parser         *query.Parser
	fetcher        news.Fetcher
	dataStore      store.DataStore
	interpreter    nlp.Interpreter
	logger         zerolog.Logger
	cacheTTL       time.Duration
	persistQueries bool
	persistNews    bool
	now            func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore attaches a persistence collaborator for query logging and news
// archiving. Store failures are logged and never affect the answer.
func WithStore(ds store.DataStore) Option {
	return func(p *Pipeline) { p.dataStore = ds }
}

// WithInterpreter attaches the optional language-model interpreter.
func WithInterpreter(i nlp.Interpreter) Option {
	return func(p *Pipeline) { p.interpreter = i }
}

// WithCacheTTL overrides the answer cache expiry.
func WithCacheTTL(ttl time.Duration) Option {
	return func(p *Pipeline) { p.cacheTTL = ttl }
}

// WithPersistence controls which side effects reach the attached store:
// query logging and news archiving can be disabled independently.
func WithPersistence(logQueries, archiveNews bool) Option {
	return func(p *Pipeline) {
		p.persistQueries = logQueries
		p.persistNews = archiveNews
	}
}

// New creates a pipeline over the given instrument pool and news fetcher.
func New(pool []models.Instrument, fetcher news.Fetcher, logger zerolog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		pool:           pool,
		parser:         query.NewParser(pool),
		fetcher:        fetcher,
		logger:         logger,
		cacheTTL:       DefaultCacheTTL,
		persistQueries: true,
		persistNews:    true,
		now:            time.Now,
		cache:          make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AnswerQuery runs the full pipeline for a raw user question. It returns an
// answer even when nothing matches: a no-match answer carries general market
// news instead of instrument explanations.
func (p *Pipeline) AnswerQuery(ctx context.Context, raw string) (*models.Answer, error) {
	start := p.now()
	key := normalizeQuery(raw)

	if answer, ok := p.cached(key); ok {
		p.logger.Debug().Str("query", raw).Msg("Answer served from cache")
		p.logQuery(ctx, answer, start, true)
		return answer, nil
	}

	parsed := p.parser.Parse(raw)
	matched := resolver.Resolve(raw, p.pool)
	p.refineWithInterpreter(ctx, raw, &parsed)
	logging.LogQuery(p.logger, raw, string(parsed.Intent), len(matched))

	answer := &models.Answer{
		Query:              parsed,
		MatchedInstruments: matched,
		Explanations:       make(map[string]string),
		Summaries:          make(map[string]string),
		NewsByInstrument:   make(map[string][]models.NewsRecord),
		GeneratedAt:        p.now(),
	}

	if len(matched) == 0 {
		p.answerGeneral(ctx, answer)
	} else {
		p.answerInstruments(ctx, parsed, matched, answer)
	}

	p.store(key, answer)
	p.logQuery(ctx, answer, start, false)
	return answer, nil
}

// answerInstruments fans out one goroutine per matched instrument. Results
// land in index-addressed slices so output order always follows the matched
// order regardless of completion order.
func (p *Pipeline) answerInstruments(ctx context.Context, parsed models.ParsedQuery, matched []models.Instrument, answer *models.Answer) {
	fetched := make([][]models.NewsRecord, len(matched))

	var wg sync.WaitGroup
	for i, inst := range matched {
		wg.Add(1)
		go func(i int, inst models.Instrument) {
			defer wg.Done()
			start := p.now()
			records, err := p.fetcher.FetchNews(ctx, inst.Name)
			logging.LogFetch(p.logger, "fetcher", inst.Name, len(records), p.now().Sub(start), err)
			if err != nil {
				// Degrade to the no-related-news path for this instrument.
				return
			}
			fetched[i] = records
		}(i, inst)
	}
	wg.Wait()

	for i, inst := range matched {
		records := fetched[i]
		related := explain.RankNews(explain.RelatedNews(inst, records))

		answer.Explanations[inst.ID] = explain.ForIntent(parsed, inst, records)
		answer.Summaries[inst.ID] = explain.Short(inst, records)
		answer.NewsByInstrument[inst.ID] = related
		answer.RelatedNews = append(answer.RelatedNews, related...)

		logging.LogExplanation(p.logger, inst.ID, len(related), explain.Outlook(inst, related))

		if p.dataStore != nil && p.persistNews && len(records) > 0 {
			if err := p.dataStore.SaveNews(ctx, inst.Name, records); err != nil {
				p.logger.Warn().Err(err).Str("subject", inst.Name).Msg("Failed to archive news")
			}
		}
	}
}

// answerGeneral fills a no-match answer with market-wide news.
func (p *Pipeline) answerGeneral(ctx context.Context, answer *models.Answer) {
	records, err := p.fetcher.FetchGeneralMarketNews(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to fetch general market news")
		return
	}
	answer.RelatedNews = explain.RankNews(records)
}

// refineWithInterpreter merges the optional language-model interpretation
// into the keyword parse. Only fields the model filled in are taken, and only
// when they are recognized values; any error keeps the keyword result.
func (p *Pipeline) refineWithInterpreter(ctx context.Context, raw string, parsed *models.ParsedQuery) {
	if p.interpreter == nil || parsed.Intent != models.IntentGeneral {
		return
	}

	candidates := make([]string, len(p.pool))
	for i, inst := range p.pool {
		candidates[i] = inst.Name
	}

	refined, err := p.interpreter.InterpretQuery(ctx, raw, candidates)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Interpreter unavailable, keeping keyword parse")
		return
	}
	if validIntent(refined.Intent) {
		parsed.Intent = refined.Intent
	}
}

func validIntent(i models.Intent) bool {
	switch i {
	case models.IntentPriceMovement, models.IntentPerformance, models.IntentNewsImpact,
		models.IntentOutlook, models.IntentRecommendation, models.IntentMacro:
		return true
	}
	return false
}

func (p *Pipeline) cached(key string) (*models.Answer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.cache[key]
	if !ok || p.now().After(entry.expires) {
		delete(p.cache, key)
		return nil, false
	}
	return entry.answer, true
}

func (p *Pipeline) store(key string, answer *models.Answer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[key] = cacheEntry{answer: answer, expires: p.now().Add(p.cacheTTL)}
}

func (p *Pipeline) logQuery(ctx context.Context, answer *models.Answer, start time.Time, fromCache bool) {
	if p.dataStore == nil || !p.persistQueries {
		return
	}

	ids := make([]string, len(answer.MatchedInstruments))
	for i, inst := range answer.MatchedInstruments {
		ids[i] = inst.ID
	}

	entry := &store.QueryLogEntry{
		ID:           fmt.Sprintf("q-%d", start.UnixNano()),
		Timestamp:    start,
		Raw:          answer.Query.Raw,
		Intent:       answer.Query.Intent,
		Entities:     answer.Query.Entities,
		MatchedIDs:   ids,
		MatchedCount: len(answer.MatchedInstruments),
		NewsCount:    len(answer.RelatedNews),
		FromCache:    fromCache,
		DurationMS:   p.now().Sub(start).Milliseconds(),
	}
	if err := p.dataStore.LogQuery(ctx, entry); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to log query")
	}
}

func normalizeQuery(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}
