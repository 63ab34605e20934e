// Package db provides PostgreSQL access for the job posting corpus.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// InitSchema creates the posting tables if they do not exist yet.
func (db *DB) InitSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS job_postings (
			id UUID PRIMARY KEY,
			role_name TEXT NOT NULL,
			skills TEXT[] NOT NULL DEFAULT '{}',
			salary DOUBLE PRECISION NOT NULL DEFAULT 0,
			location TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			posted_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_job_postings_posted_at ON job_postings (posted_at);
		CREATE INDEX IF NOT EXISTS idx_job_postings_role_name ON job_postings (role_name);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// InsertPostings stores a batch of postings. Postings whose IDs already
// exist are skipped, so collectors can re-submit overlapping pages.
func (db *DB) InsertPostings(ctx context.Context, postings []corpus.Posting) (int, error) {
	if len(postings) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range postings {
		batch.Queue(
			`INSERT INTO job_postings (id, role_name, skills, salary, location, source, posted_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, p.RoleName, p.Skills, p.Salary, p.Location, p.Source, p.PostedAt,
		)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range postings {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert posting: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// LoadPostings retrieves postings newer than since. A zero since loads the
// whole corpus.
func (db *DB) LoadPostings(ctx context.Context, since time.Time) ([]corpus.Posting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, role_name, skills, salary, location, source, posted_at
		 FROM job_postings
		 WHERE posted_at >= $1
		 ORDER BY posted_at ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load postings: %w", err)
	}
	defer rows.Close()

	var postings []corpus.Posting
	for rows.Next() {
		var p corpus.Posting
		if err := rows.Scan(&p.ID, &p.RoleName, &p.Skills, &p.Salary, &p.Location, &p.Source, &p.PostedAt); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read postings: %w", err)
	}
	return postings, nil
}

// CountPostings returns the total number of stored postings.
func (db *DB) CountPostings(ctx context.Context) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM job_postings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count postings: %w", err)
	}
	return count, nil
}

// DeletePostingsBySource removes every posting from one source. Used to
// replace a seeded corpus before re-seeding.
func (db *DB) DeletePostingsBySource(ctx context.Context, source string) (int, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_postings WHERE source = $1`, source)
	if err != nil {
		return 0, fmt.Errorf("failed to delete postings from %s: %w", source, err)
	}
	return int(tag.RowsAffected()), nil
}

// Loader adapts the database into the corpus reload hook.
func (db *DB) Loader(since time.Time) corpus.LoadFunc {
	return func(ctx context.Context) ([]corpus.Posting, error) {
		return db.LoadPostings(ctx, since)
	}
}
