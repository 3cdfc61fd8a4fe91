package storage

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// ResultReader queries persisted batch runs.
type ResultReader struct {
	db *sql.DB
}

// NewResultReader creates a ResultReader instance.
// DB should have schema already created.
func NewResultReader(db *sql.DB) *ResultReader {
	return &ResultReader{db: db}
}

// ListRuns returns all runs, newest first.
func (r *ResultReader) ListRuns() ([]*Run, error) {
	rows, err := sq.Select("run_id", "input_path", "output_path", "link_mode", "row_count", "duration_ms", "created_at").
		From("runs").
		OrderBy("created_at DESC", "run_id").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun retrieves a single run.
// Returns (nil, nil) if the run is not found.
func (r *ResultReader) GetRun(runID string) (*Run, error) {
	row := sq.Select("run_id", "input_path", "output_path", "link_mode", "row_count", "duration_ms", "created_at").
		From("runs").
		Where(sq.Eq{"run_id": runID}).
		RunWith(r.db).
		QueryRow()

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	return run, nil
}

// ListResults returns a run's rows in input order.
func (r *ResultReader) ListResults(runID string) ([]*ResultRow, error) {
	rows, err := sq.Select(
		"run_id", "row_index", "project", "bug_file", "target_line",
		"function_name", "start_line", "end_line", "method", "function_body", "error",
	).
		From("results").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("row_index").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query results for run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []*ResultRow
	for rows.Next() {
		res := &ResultRow{}
		if err := rows.Scan(
			&res.RunID,
			&res.Index,
			&res.Project,
			&res.BugFile,
			&res.TargetLine,
			&res.FunctionName,
			&res.StartLine,
			&res.EndLine,
			&res.Method,
			&res.FunctionBody,
			&res.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// MethodCounts returns how many of a run's rows each method produced.
func (r *ResultReader) MethodCounts(runID string) (map[string]int, error) {
	rows, err := sq.Select("method", "COUNT(*)").
		From("results").
		Where(sq.Eq{"run_id": runID}).
		GroupBy("method").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to count methods for run %s: %w", runID, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var method string
		var n int
		if err := rows.Scan(&method, &n); err != nil {
			return nil, fmt.Errorf("failed to scan method count: %w", err)
		}
		counts[method] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*Run, error) {
	run := &Run{}
	var durationMS int64
	var createdAt string
	if err := s.Scan(
		&run.ID,
		&run.InputPath,
		&run.OutputPath,
		&run.LinkMode,
		&run.Rows,
		&durationMS,
		&createdAt,
	); err != nil {
		return nil, err
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return run, nil
}
