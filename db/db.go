package db

import (
	"context"
	"database/sql"

	"quotes-scraper/export"
	"quotes-scraper/models"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// NewDB opens a PostgreSQL connection and makes sure the schema exists
func NewDB(ctx context.Context, connStr string) (*DB, error) {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	db, err := New(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// New wraps an existing connection and initializes the schema
func New(ctx context.Context, conn *sql.DB) (*DB, error) {
	db := &DB{conn: conn}
	if err := db.initSchema(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to initialize schema")
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables if they don't exist
func (db *DB) initSchema(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS scrape_runs (
			id SERIAL PRIMARY KEY,
			base_url TEXT NOT NULL,
			pages INTEGER NOT NULL DEFAULT 0,
			quote_count INTEGER NOT NULL DEFAULT 0,
			started_at TIMESTAMP,
			finished_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to create scrape_runs table")
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS quotes (
			id SERIAL PRIMARY KEY,
			run_id INTEGER NOT NULL REFERENCES scrape_runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			author TEXT NOT NULL,
			tags TEXT[] NOT NULL DEFAULT '{}'
		)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to create quotes table")
	}

	return nil
}

// SaveRun stores a run and its quotes in one transaction and returns the run ID
func (db *DB) SaveRun(ctx context.Context, run *models.Run, quotes []models.Quote) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO scrape_runs (base_url, pages, quote_count, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, run.BaseURL, run.Pages, len(quotes), run.StartedAt, run.FinishedAt).Scan(&runID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to insert run")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quotes (run_id, position, text, author, tags)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prepare quote insert")
	}
	defer stmt.Close()

	for i, q := range quotes {
		tags := q.Tags
		if tags == nil {
			tags = []string{}
		}
		if _, err := stmt.ExecContext(ctx, runID, i+1, q.Text, q.Author, pq.Array(tags)); err != nil {
			return 0, errors.Wrapf(err, "failed to insert quote %d", i+1)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit run")
	}
	return runID, nil
}

// Exporter returns an export.Exporter that saves quotes under the given run
func (db *DB) Exporter(run *models.Run) export.Exporter {
	return export.Func(func(ctx context.Context, quotes []models.Quote) error {
		_, err := db.SaveRun(ctx, run, quotes)
		return err
	})
}
