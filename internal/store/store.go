// Package store keeps a sqlite history of finished jobs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT    NOT NULL,
	round       INTEGER NOT NULL DEFAULT 0,
	protocol    TEXT    NOT NULL,
	target      TEXT    NOT NULL,
	port        INTEGER NOT NULL,
	found       INTEGER NOT NULL,
	username    TEXT    NOT NULL DEFAULT '',
	password    TEXT    NOT NULL DEFAULT '',
	attempted   INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	started_at  TEXT    NOT NULL,
	finished_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started ON runs(started_at);`

// Row is one stored job outcome.
type Row struct {
	ID         int64
	RunID      string
	Round      int
	Protocol   string
	Target     string
	Port       int
	Found      bool
	Username   string
	Password   string
	Attempted  int
	Total      int
	Duration   time.Duration
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store writes rows tagged with the run ID of the current invocation.
type Store struct {
	db    *sql.DB
	runID string
}

// Open opens (creating if needed) the history database at path. Use
// ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	// one connection, so :memory: is shared and writes serialize
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db, runID: uuid.NewString()}, nil
}

// RunID identifies all rows written through this Store.
func (s *Store) RunID() string { return s.runID }

// Insert records one finished job. RunID on r is ignored.
func (s *Store) Insert(ctx context.Context, r Row) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO runs
		(run_id, round, protocol, target, port, found, username, password, attempted, total, duration_ms, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, r.Round, r.Protocol, r.Target, r.Port, r.Found, r.Username, r.Password,
		r.Attempted, r.Total, r.Duration.Milliseconds(),
		r.StartedAt.UTC().Format(time.RFC3339Nano), r.FinishedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// ListRecent returns up to limit rows, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, run_id, round, protocol, target, port, found,
		username, password, attempted, total, duration_ms, started_at, finished_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var list []Row
	for rows.Next() {
		var r Row
		var ms int64
		var started, finished string
		if err := rows.Scan(&r.ID, &r.RunID, &r.Round, &r.Protocol, &r.Target, &r.Port, &r.Found,
			&r.Username, &r.Password, &r.Attempted, &r.Total, &ms, &started, &finished); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		list = append(list, r)
	}
	return list, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
