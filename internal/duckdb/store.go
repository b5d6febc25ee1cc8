// Package duckdb exports loaded feature graphs to DuckDB for ad hoc SQL.
// Each export is tagged with a run id so several inputs can share a database.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding exported graphs.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR PRIMARY KEY,
		input VARCHAR,
		input_size BIGINT,
		input_mtime TIMESTAMP,
		created_at TIMESTAMP,
		feature_count BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS features (
		run_id VARCHAR,
		seq BIGINT,
		id VARCHAR,
		chrom VARCHAR,
		source VARCHAR,
		category VARCHAR,
		start_pos BIGINT,
		end_pos BIGINT,
		score VARCHAR,
		strand VARCHAR,
		frame VARCHAR,
		name VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS parent_refs (
		run_id VARCHAR,
		seq BIGINT,
		parent_id VARCHAR
	)`,
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
