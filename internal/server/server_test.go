package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"newssense/internal/models"
	"newssense/internal/pipeline"
)

type cannedFetcher struct{}

func (cannedFetcher) FetchNews(ctx context.Context, subject string) ([]models.NewsRecord, error) {
	return []models.NewsRecord{{
		ID:          "r-1",
		Title:       subject + " results beat estimates",
		Source:      "Economic Times",
		Content:     "Coverage of " + subject + ".",
		Entities:    []string{subject},
		Sentiment:   models.SentimentPositive,
		Impact:      models.ImpactMedium,
		PublishedAt: time.Now(),
	}}, nil
}

func (cannedFetcher) FetchGeneralMarketNews(ctx context.Context) ([]models.NewsRecord, error) {
	return nil, nil
}

func newTestServer() *Server {
	pool := []models.Instrument{
		{ID: "JYOTHYLAB", Name: "Jyothy Labs", Category: models.CategoryStock, Sector: "FMCG", Performance: 3.45, ChangePercent: 1.62},
	}
	p := pipeline.New(pool, cannedFetcher{}, zerolog.Nop())
	return New(p, pool, Config{}, zerolog.Nop())
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}

	// Exactly one of the market schedule fields is present, depending on
	// whether the market is open when the check runs.
	_, hasClose := body["market_closes_at"]
	_, hasNextOpen := body["market_next_open"]
	if hasClose == hasNextOpen {
		t.Errorf("want exactly one of market_closes_at/market_next_open, got close=%v nextOpen=%v",
			hasClose, hasNextOpen)
	}
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	pool := []models.Instrument{
		{ID: "JYOTHYLAB", Name: "Jyothy Labs", Category: models.CategoryStock},
	}
	p := pipeline.New(pool, cannedFetcher{}, zerolog.Nop())
	srv := New(p, pool, Config{Addr: "127.0.0.1:0"}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v after cancel, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after context cancel")
	}
}

func TestQueryEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query",
		strings.NewReader(`{"query": "why is jyothy labs up today"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var answer models.Answer
	if err := json.Unmarshal(w.Body.Bytes(), &answer); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(answer.MatchedInstruments) != 1 || answer.MatchedInstruments[0].ID != "JYOTHYLAB" {
		t.Errorf("matched = %+v, want JYOTHYLAB", answer.MatchedInstruments)
	}
	if answer.Explanations["JYOTHYLAB"] == "" {
		t.Error("missing explanation in response")
	}
}

func TestQueryEndpointRejectsEmptyBody(t *testing.T) {
	srv := newTestServer()

	for _, payload := range []string{`{}`, `{"query": "  "}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("payload %q: status = %d, want 400", payload, w.Code)
		}
	}
}

func TestInstrumentsEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/instruments", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Jyothy Labs") {
		t.Errorf("instrument list missing entries: %s", w.Body.String())
	}
}
