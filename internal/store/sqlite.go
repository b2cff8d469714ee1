// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"newssense/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Answered queries, for history and inspection
	CREATE TABLE IF NOT EXISTS query_log (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		raw TEXT NOT NULL,
		intent TEXT NOT NULL,
		entities TEXT,
		matched_ids TEXT,
		matched_count INTEGER NOT NULL,
		news_count INTEGER NOT NULL,
		from_cache INTEGER DEFAULT 0,
		duration_ms INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Archived news records per fetch subject
	CREATE TABLE IF NOT EXISTS news_archive (
		id TEXT NOT NULL,
		subject TEXT NOT NULL,
		title TEXT NOT NULL,
		published_at DATETIME NOT NULL,
		source TEXT NOT NULL,
		url TEXT,
		content TEXT,
		summary TEXT,
		sentiment TEXT NOT NULL,
		impact TEXT NOT NULL,
		entities TEXT,
		keywords TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(subject, id)
	);

	-- Latest instrument snapshot
	CREATE TABLE IF NOT EXISTS instruments (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		symbol TEXT,
		isin TEXT,
		sector TEXT,
		performance REAL NOT NULL,
		change_percent REAL NOT NULL,
		price REAL,
		nav REAL,
		holdings TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Per-subject freshness tracking
	CREATE TABLE IF NOT EXISTS freshness (
		data_type TEXT NOT NULL,
		subject TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (data_type, subject)
	);

	CREATE INDEX IF NOT EXISTS idx_query_log_timestamp ON query_log(timestamp);
	CREATE INDEX IF NOT EXISTS idx_query_log_intent ON query_log(intent);
	CREATE INDEX IF NOT EXISTS idx_news_subject ON news_archive(subject, published_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// LogQuery records one answered query.
func (s *SQLiteStore) LogQuery(ctx context.Context, entry *QueryLogEntry) error {
	entities, err := json.Marshal(entry.Entities)
	if err != nil {
		return fmt.Errorf("failed to marshal entities: %w", err)
	}
	matched, err := json.Marshal(entry.MatchedIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal matched ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO query_log (id, timestamp, raw, intent, entities, matched_ids,
			matched_count, news_count, from_cache, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Timestamp, entry.Raw, string(entry.Intent),
		string(entities), string(matched),
		entry.MatchedCount, entry.NewsCount, boolToInt(entry.FromCache), entry.DurationMS)
	if err != nil {
		return fmt.Errorf("failed to log query: %w", err)
	}
	return nil
}

// GetQueryLog returns logged queries matching the filter, newest first.
func (s *SQLiteStore) GetQueryLog(ctx context.Context, filter QueryLogFilter) ([]QueryLogEntry, error) {
	query := `SELECT id, timestamp, raw, intent, entities, matched_ids,
		matched_count, news_count, from_cache, duration_ms FROM query_log WHERE 1=1`
	var args []interface{}

	if filter.Intent != "" {
		query += " AND intent = ?"
		args = append(args, string(filter.Intent))
	}
	if !filter.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.EndDate)
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query log: %w", err)
	}
	defer rows.Close()

	var entries []QueryLogEntry
	for rows.Next() {
		var entry QueryLogEntry
		var intent, entities, matched string
		var fromCache int
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Raw, &intent,
			&entities, &matched, &entry.MatchedCount, &entry.NewsCount,
			&fromCache, &entry.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan query log entry: %w", err)
		}
		entry.Intent = models.Intent(intent)
		entry.FromCache = fromCache != 0
		if err := json.Unmarshal([]byte(entities), &entry.Entities); err != nil {
			entry.Entities = nil
		}
		if err := json.Unmarshal([]byte(matched), &entry.MatchedIDs); err != nil {
			entry.MatchedIDs = nil
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveNews archives records fetched for a subject and bumps its freshness.
func (s *SQLiteStore) SaveNews(ctx context.Context, subject string, records []models.NewsRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO news_archive (id, subject, title, published_at,
			source, url, content, summary, sentiment, impact, entities, keywords)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	key := strings.ToLower(subject)
	for _, rec := range records {
		entities, err := json.Marshal(rec.Entities)
		if err != nil {
			return fmt.Errorf("failed to marshal entities: %w", err)
		}
		keywords, err := json.Marshal(rec.Keywords)
		if err != nil {
			return fmt.Errorf("failed to marshal keywords: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, key, rec.Title, rec.PublishedAt,
			rec.Source, rec.URL, rec.Content, rec.Summary,
			string(rec.Sentiment), string(rec.Impact),
			string(entities), string(keywords)); err != nil {
			return fmt.Errorf("failed to insert news record: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO freshness (data_type, subject, updated_at)
		VALUES ('news', ?, ?)`, key, time.Now()); err != nil {
		return fmt.Errorf("failed to update freshness: %w", err)
	}

	return tx.Commit()
}

// GetNews returns archived records for a subject published after since,
// newest first.
func (s *SQLiteStore) GetNews(ctx context.Context, subject string, since time.Time) ([]models.NewsRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, published_at, source, url, content, summary,
			sentiment, impact, entities, keywords
		FROM news_archive
		WHERE subject = ? AND published_at >= ?
		ORDER BY published_at DESC`,
		strings.ToLower(subject), since)
	if err != nil {
		return nil, fmt.Errorf("failed to query news archive: %w", err)
	}
	defer rows.Close()

	var records []models.NewsRecord
	for rows.Next() {
		var rec models.NewsRecord
		var sent, impact, entities, keywords string
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.PublishedAt, &rec.Source,
			&rec.URL, &rec.Content, &rec.Summary, &sent, &impact,
			&entities, &keywords); err != nil {
			return nil, fmt.Errorf("failed to scan news record: %w", err)
		}
		rec.Sentiment = models.Sentiment(sent)
		rec.Impact = models.Impact(impact)
		if err := json.Unmarshal([]byte(entities), &rec.Entities); err != nil {
			rec.Entities = nil
		}
		if err := json.Unmarshal([]byte(keywords), &rec.Keywords); err != nil {
			rec.Keywords = nil
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetNewsFreshness returns when the subject's archive was last written.
func (s *SQLiteStore) GetNewsFreshness(ctx context.Context, subject string) (time.Time, error) {
	return s.freshness(ctx, "news", strings.ToLower(subject))
}

// SaveInstruments replaces the instrument snapshot.
func (s *SQLiteStore) SaveInstruments(ctx context.Context, instruments []models.Instrument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM instruments`); err != nil {
		return fmt.Errorf("failed to clear instruments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO instruments (id, name, category, symbol, isin, sector,
			performance, change_percent, price, nav, holdings, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, inst := range instruments {
		holdings, err := json.Marshal(inst.Holdings)
		if err != nil {
			return fmt.Errorf("failed to marshal holdings: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, inst.ID, inst.Name, string(inst.Category),
			inst.Symbol, inst.ISIN, inst.Sector,
			inst.Performance, inst.ChangePercent,
			nullableFloat(inst.Price), nullableFloat(inst.NAV),
			string(holdings), now); err != nil {
			return fmt.Errorf("failed to insert instrument: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO freshness (data_type, subject, updated_at)
		VALUES ('instruments', 'all', ?)`, now); err != nil {
		return fmt.Errorf("failed to update freshness: %w", err)
	}

	return tx.Commit()
}

// GetInstruments returns the persisted instrument snapshot.
func (s *SQLiteStore) GetInstruments(ctx context.Context) ([]models.Instrument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, symbol, isin, sector,
			performance, change_percent, price, nav, holdings
		FROM instruments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments: %w", err)
	}
	defer rows.Close()

	var instruments []models.Instrument
	for rows.Next() {
		var inst models.Instrument
		var category, holdings string
		var price, nav sql.NullFloat64
		if err := rows.Scan(&inst.ID, &inst.Name, &category, &inst.Symbol,
			&inst.ISIN, &inst.Sector, &inst.Performance, &inst.ChangePercent,
			&price, &nav, &holdings); err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		inst.Category = models.Category(category)
		if price.Valid {
			v := price.Float64
			inst.Price = &v
		}
		if nav.Valid {
			v := nav.Float64
			inst.NAV = &v
		}
		if err := json.Unmarshal([]byte(holdings), &inst.Holdings); err != nil {
			inst.Holdings = nil
		}
		instruments = append(instruments, inst)
	}
	return instruments, rows.Err()
}

// GetInstrumentsFreshness returns when the snapshot was last replaced.
func (s *SQLiteStore) GetInstrumentsFreshness(ctx context.Context) (time.Time, error) {
	return s.freshness(ctx, "instruments", "all")
}

func (s *SQLiteStore) freshness(ctx context.Context, dataType, subject string) (time.Time, error) {
	var t time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT updated_at FROM freshness WHERE data_type = ? AND subject = ?`,
		dataType, subject).Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query freshness: %w", err)
	}
	return t, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
