// ABOUTME: SQLite-backed persistence for processed results and duplicate relationships
// ABOUTME: Stores one batch per query; rereads return the most recent batch

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"search-results-api/core/domain"
	coreerrors "search-results-api/core/errors"
)

// ErrNotFound is returned when no batch exists for a query
var ErrNotFound error = &coreerrors.NotFoundError{Resource: "stored results"}

// Store implements the ResultStore interface using SQLite
type Store struct {
	db       *sql.DB
	filePath string
}

// NewStore opens (or creates) the database file and initializes the schema
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		filePath = "results.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	store := &Store{
		db:       db,
		filePath: filePath,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the result tables if they don't exist
func (s *Store) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS result_batches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			stored_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_batches_query ON result_batches(query, stored_at);

		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id INTEGER NOT NULL REFERENCES result_batches(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			provider TEXT NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_results_batch ON results(batch_id, position);

		CREATE TABLE IF NOT EXISTS duplicate_groups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id INTEGER NOT NULL REFERENCES result_batches(id) ON DELETE CASCADE,
			original_url TEXT NOT NULL,
			duplicate_url TEXT NOT NULL,
			reason TEXT NOT NULL,
			similarity REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_groups_batch ON duplicate_groups(batch_id);
	`

	_, err := s.db.Exec(query)
	return err
}

// SaveResults persists the final result list for a query as a new batch
func (s *Store) SaveResults(ctx context.Context, query string, results []domain.SearchResult) error {
	if query == "" {
		return errors.New("query cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	batchID, err := s.insertBatch(ctx, tx, query)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO results (batch_id, position, title, url, provider, payload) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, batchID, i, r.Title, r.URL, r.Provider, payload); err != nil {
			return fmt.Errorf("failed to insert result: %w", err)
		}
	}

	return tx.Commit()
}

// SaveDuplicateGroups persists original/duplicate relationships against
// the query's most recent batch
func (s *Store) SaveDuplicateGroups(ctx context.Context, query string, groups []domain.DuplicateGroup) error {
	if query == "" {
		return errors.New("query cannot be empty")
	}
	if len(groups) == 0 {
		return nil
	}

	batchID, err := s.latestBatchID(ctx, query)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO duplicate_groups (batch_id, original_url, duplicate_url, reason, similarity) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range groups {
		for _, d := range g.Duplicates {
			if _, err := stmt.ExecContext(ctx, batchID, g.Original.URL, d.Result.URL, string(d.Reason), d.Similarity); err != nil {
				return fmt.Errorf("failed to insert duplicate relation: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetResults retrieves the most recently stored results for a query
func (s *Store) GetResults(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if query == "" {
		return nil, errors.New("query cannot be empty")
	}

	batchID, err := s.latestBatchID(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT payload FROM results WHERE batch_id = ? ORDER BY position", batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		var r domain.SearchResult
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// insertBatch records a new batch and returns its ID
func (s *Store) insertBatch(ctx context.Context, tx *sql.Tx, query string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO result_batches (query, stored_at) VALUES (?, ?)", query, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert batch: %w", err)
	}
	return res.LastInsertId()
}

// latestBatchID resolves the most recent batch for a query
func (s *Store) latestBatchID(ctx context.Context, query string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM result_batches WHERE query = ? ORDER BY stored_at DESC, id DESC LIMIT 1", query).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve batch: %w", err)
	}
	return id, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
