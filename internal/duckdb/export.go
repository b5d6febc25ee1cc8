package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/gffanno/internal/gff"
	"github.com/inodb/gffanno/internal/graph"
)

// Run describes one export.
type Run struct {
	ID       string
	Input    FileFingerprint
	Created  time.Time
	Features int
}

// WriteGraph appends every feature of g and its parent references, then
// records the run. Synthetic identities are written as NULL.
func (s *Store) WriteGraph(ctx context.Context, g *graph.Graph, input FileFingerprint) (Run, error) {
	run := Run{
		ID:       uuid.NewString(),
		Input:    input,
		Created:  time.Now().UTC(),
		Features: g.Len(),
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return Run{}, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var features, parents *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		if features, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "features"); err != nil {
			return err
		}
		parents, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "parent_refs")
		return err
	}); err != nil {
		if features != nil {
			features.Close()
		}
		return Run{}, fmt.Errorf("create appender: %w", err)
	}
	defer features.Close()
	defer parents.Close()

	var seq int64
	var appendErr error
	g.Features(func(f *gff.Feature) bool {
		if appendErr = features.AppendRow(
			run.ID, seq, nullString(f.ID.Declared()),
			f.Chrom, f.Source, f.Category, f.Start, f.End,
			f.Score, f.Strand, f.Frame, nullString(f.Name()),
		); appendErr != nil {
			appendErr = fmt.Errorf("append feature: %w", appendErr)
			return false
		}
		ids, _ := f.Parents()
		for _, p := range ids {
			if appendErr = parents.AppendRow(run.ID, seq, p); appendErr != nil {
				appendErr = fmt.Errorf("append parent: %w", appendErr)
				return false
			}
		}
		seq++
		return true
	})
	if appendErr != nil {
		return Run{}, appendErr
	}

	if err := features.Flush(); err != nil {
		return Run{}, fmt.Errorf("flush features: %w", err)
	}
	if err := parents.Flush(); err != nil {
		return Run{}, fmt.Errorf("flush parents: %w", err)
	}

	size, mtime := input.nullable()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, input, input_size, input_mtime, created_at, feature_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, input.Path, size, mtime, run.Created, int64(run.Features)); err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// nullString maps a missing value to SQL NULL.
func nullString(s string, ok bool) any {
	if !ok {
		return nil
	}
	return s
}

// OrphanRef is a parent reference with no matching feature in the same run.
type OrphanRef struct {
	ChildID  *string // nil for features without a declared ID
	Category string
	ParentID string
}

// Orphans returns the dangling parent references of a run in file order.
func (s *Store) Orphans(ctx context.Context, runID string) ([]OrphanRef, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT f.id, f.category, p.parent_id
		FROM parent_refs p
		JOIN features f ON f.run_id = p.run_id AND f.seq = p.seq
		LEFT JOIN features par ON par.run_id = p.run_id AND par.id = p.parent_id
		WHERE p.run_id = ? AND par.id IS NULL
		ORDER BY p.seq, p.parent_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query orphans: %w", err)
	}
	defer rows.Close()

	var out []OrphanRef
	for rows.Next() {
		var o OrphanRef
		if err := rows.Scan(&o.ChildID, &o.Category, &o.ParentID); err != nil {
			return nil, fmt.Errorf("scan orphan: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orphans: %w", err)
	}
	return out, nil
}

// CategoryCounts returns the number of features per category in a run.
func (s *Store) CategoryCounts(ctx context.Context, runID string) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, count(*) FROM features WHERE run_id = ? GROUP BY category`, runID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var cat string
		var n int64
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		counts[cat] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return counts, nil
}

// LookupRun returns the recorded metadata of a run.
func (s *Store) LookupRun(ctx context.Context, runID string) (Run, bool, error) {
	var (
		r     Run
		size  *int64
		mtime *time.Time
		count int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT run_id, input, input_size, input_mtime, created_at, feature_count
		FROM runs WHERE run_id = ?`, runID).
		Scan(&r.ID, &r.Input.Path, &size, &mtime, &r.Created, &count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, fmt.Errorf("query run: %w", err)
	}
	if size != nil {
		r.Input.Size = *size
	}
	if mtime != nil {
		r.Input.ModTime = *mtime
	}
	r.Features = int(count)
	return r, true, nil
}
