package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"newssense/internal/errors"
	"newssense/internal/models"
	"newssense/pkg/utils"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// ScraperConfig holds scraping collaborator configuration.
type ScraperConfig struct {
	MaxPerSource int
	Timeout      time.Duration
	RateLimit    time.Duration
}

// Scraper fetches news from public financial news sites. It is an external
// collaborator to the core pipeline: the orchestrator treats any failure here
// as "no related news" for the affected instrument.
type Scraper struct {
	client *http.Client
	cfg    ScraperConfig
	logger zerolog.Logger

	mu       sync.Mutex
	lastCall map[string]time.Time
}

// NewScraper creates a scraping news fetcher.
func NewScraper(cfg ScraperConfig, logger zerolog.Logger) *Scraper {
	if cfg.MaxPerSource <= 0 {
		cfg.MaxPerSource = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = time.Second
	}
	return &Scraper{
		client:   &http.Client{Timeout: cfg.Timeout},
		cfg:      cfg,
		logger:   logger,
		lastCall: make(map[string]time.Time),
	}
}

// FetchNews scrapes all configured sources for the subject. Sources fail
// independently: one failing source only shrinks the result.
func (s *Scraper) FetchNews(ctx context.Context, subject string) ([]models.NewsRecord, error) {
	var all []models.NewsRecord

	sources := []struct {
		name  string
		fetch func(context.Context, string) ([]models.NewsRecord, error)
	}{
		{"Yahoo Finance", s.scrapeYahooFinance},
		{"MarketWatch", s.scrapeMarketWatch},
		{"Reuters", s.scrapeReuters},
	}

	for _, src := range sources {
		start := time.Now()
		records, err := src.fetch(ctx, subject)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", src.name).Str("subject", subject).
				Msg("Source scrape failed")
			continue
		}
		s.logger.Debug().Str("source", src.name).Str("subject", subject).
			Int("articles", len(records)).Dur("duration", time.Since(start)).
			Msg("Source scraped")
		all = append(all, records...)
	}

	if len(all) == 0 {
		return nil, errors.NewFetchError("all", subject, errors.ErrNoNewsAvailable)
	}

	for i := range all {
		Annotate(&all[i], subject)
	}
	return all, nil
}

// FetchGeneralMarketNews scrapes market-wide headlines.
func (s *Scraper) FetchGeneralMarketNews(ctx context.Context) ([]models.NewsRecord, error) {
	return s.FetchNews(ctx, "market")
}

func (s *Scraper) scrapeYahooFinance(ctx context.Context, subject string) ([]models.NewsRecord, error) {
	doc, err := s.get(ctx, "yahoo", fmt.Sprintf("https://finance.yahoo.com/quote/%s/news", url.PathEscape(subject)))
	if err != nil {
		return nil, err
	}

	var records []models.NewsRecord
	doc.Find("div.Py\\(14px\\)").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= s.cfg.MaxPerSource {
			return false
		}
		title := strings.TrimSpace(sel.Find("h3").Text())
		link, _ := sel.Find("a").Attr("href")
		if title == "" || link == "" {
			return true
		}
		records = append(records, models.NewsRecord{
			ID:          fmt.Sprintf("yahoo-%s-%d", sanitizeID(subject), i),
			Title:       title,
			Summary:     truncateString(strings.TrimSpace(sel.Find("p").Text()), 300),
			Content:     strings.TrimSpace(sel.Find("p").Text()),
			Source:      "Yahoo Finance",
			URL:         resolveURL("https://finance.yahoo.com", link),
			PublishedAt: time.Now(),
		})
		return true
	})
	return records, nil
}

func (s *Scraper) scrapeMarketWatch(ctx context.Context, subject string) ([]models.NewsRecord, error) {
	doc, err := s.get(ctx, "marketwatch", fmt.Sprintf("https://www.marketwatch.com/investing/stock/%s", url.PathEscape(subject)))
	if err != nil {
		return nil, err
	}

	var records []models.NewsRecord
	doc.Find("div.article__content").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= s.cfg.MaxPerSource {
			return false
		}
		titleSel := sel.Find("a.link")
		title := strings.TrimSpace(titleSel.Text())
		if title == "" {
			return true
		}
		link, _ := titleSel.Attr("href")
		records = append(records, models.NewsRecord{
			ID:          fmt.Sprintf("marketwatch-%s-%d", sanitizeID(subject), i),
			Title:       title,
			Source:      "MarketWatch",
			URL:         link,
			PublishedAt: time.Now(),
		})
		return true
	})
	return records, nil
}

func (s *Scraper) scrapeReuters(ctx context.Context, subject string) ([]models.NewsRecord, error) {
	doc, err := s.get(ctx, "reuters", fmt.Sprintf("https://www.reuters.com/companies/%s.O", url.PathEscape(subject)))
	if err != nil {
		return nil, err
	}

	var records []models.NewsRecord
	doc.Find(`div[data-testid="media-story-card"]`).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= s.cfg.MaxPerSource {
			return false
		}
		titleSel := sel.Find(`a[data-testid="heading-link"]`)
		title := strings.TrimSpace(titleSel.Text())
		if title == "" {
			return true
		}
		link, _ := titleSel.Attr("href")
		publishedAt := time.Now()
		if dt, ok := sel.Find("time").Attr("datetime"); ok {
			if parsed, perr := time.Parse(time.RFC3339, dt); perr == nil {
				publishedAt = parsed
			}
		}
		records = append(records, models.NewsRecord{
			ID:          fmt.Sprintf("reuters-%s-%d", sanitizeID(subject), i),
			Title:       title,
			Source:      "Reuters",
			URL:         resolveURL("https://www.reuters.com", link),
			PublishedAt: publishedAt,
		})
		return true
	})
	return records, nil
}

// get applies per-source rate limiting, then fetches and parses the page.
// Transient HTTP failures are retried with backoff; retries live in this
// collaborator, never in the core pipeline.
func (s *Scraper) get(ctx context.Context, source, pageURL string) (*goquery.Document, error) {
	s.rateLimit(source)

	return utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() (*goquery.Document, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, errors.NewFetchError(source, pageURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, errors.NewFetchError(source, pageURL, fmt.Errorf("status %d", resp.StatusCode))
		}

		return goquery.NewDocumentFromReader(resp.Body)
	})
}

// rateLimit enforces a minimum spacing between requests to the same source.
func (s *Scraper) rateLimit(source string) {
	s.mu.Lock()
	last, ok := s.lastCall[source]
	now := time.Now()
	if ok {
		if wait := s.cfg.RateLimit - now.Sub(last); wait > 0 {
			s.mu.Unlock()
			time.Sleep(wait)
			s.mu.Lock()
		}
	}
	s.lastCall[source] = time.Now()
	s.mu.Unlock()
}

func resolveURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	u, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return u.ResolveReference(ref).String()
}
