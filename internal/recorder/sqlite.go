package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder journals requests to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] request journal opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prediction_requests (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id  TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			ticker      TEXT,
			status      TEXT,
			error       TEXT,
			rate_source TEXT,
			points      INTEGER,
			duration_ms INTEGER,
			channel     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_ts ON prediction_requests(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_ticker ON prediction_requests(ticker)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRequest(req *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := req.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.Exec(`INSERT INTO prediction_requests
		(request_id, timestamp, ticker, status, error, rate_source, points, duration_ms, channel)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		req.ID, created.UnixMilli(), req.Ticker, req.Status, req.Error,
		req.RateSource, req.Points, req.Duration.Milliseconds(), req.Channel,
	)
	if err != nil {
		return fmt.Errorf("insert request %s: %w", req.ID, err)
	}
	return nil
}

// Recent returns up to limit requests, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]Request, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`SELECT request_id, timestamp, ticker, status, error, rate_source, points, duration_ms, channel
		FROM prediction_requests ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var (
			req       Request
			ts, durMS int64
		)
		if err := rows.Scan(&req.ID, &ts, &req.Ticker, &req.Status, &req.Error,
			&req.RateSource, &req.Points, &durMS, &req.Channel); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		req.CreatedAt = time.UnixMilli(ts)
		req.Duration = time.Duration(durMS) * time.Millisecond
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing request journal")
	return r.db.Close()
}
