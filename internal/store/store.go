// Package store provides data persistence interfaces and implementations.
// Persistence is an external collaborator: the query pipeline works entirely
// in memory and only the orchestrator talks to the store, on a best-effort
// basis.
package store

import (
	"context"
	"time"

	"newssense/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Query log
	LogQuery(ctx context.Context, entry *QueryLogEntry) error
	GetQueryLog(ctx context.Context, filter QueryLogFilter) ([]QueryLogEntry, error)

	// News archive
	SaveNews(ctx context.Context, subject string, records []models.NewsRecord) error
	GetNews(ctx context.Context, subject string, since time.Time) ([]models.NewsRecord, error)
	GetNewsFreshness(ctx context.Context, subject string) (time.Time, error)

	// Instrument snapshots
	SaveInstruments(ctx context.Context, instruments []models.Instrument) error
	GetInstruments(ctx context.Context) ([]models.Instrument, error)
	GetInstrumentsFreshness(ctx context.Context) (time.Time, error)

	// Lifecycle
	Close() error
}

// QueryLogEntry is one answered query as recorded for later inspection.
type QueryLogEntry struct {
	ID           string
	Timestamp    time.Time
	Raw          string
	Intent       models.Intent
	Entities     []string
	MatchedIDs   []string
	MatchedCount int
	NewsCount    int
	FromCache    bool
	DurationMS   int64
}

// QueryLogFilter narrows query-log reads.
type QueryLogFilter struct {
	Intent    models.Intent
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
