package storage

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// ResultWriter persists batch runs.
type ResultWriter struct {
	db *sql.DB
}

// NewResultWriter creates a ResultWriter instance.
// DB must have schema already created via CreateSchema().
func NewResultWriter(db *sql.DB) *ResultWriter {
	return &ResultWriter{db: db}
}

// WriteRun stores run and its rows atomically. An empty run.ID is filled
// with a new id, and a zero CreatedAt with the current time.
func (w *ResultWriter) WriteRun(run *Run, rows []ResultRow) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	_, err = sq.Insert("runs").
		Columns("run_id", "input_path", "output_path", "link_mode", "row_count", "duration_ms", "created_at").
		Values(
			run.ID,
			run.InputPath,
			run.OutputPath,
			run.LinkMode,
			run.Rows,
			run.Duration.Milliseconds(),
			run.CreatedAt.Format(time.RFC3339),
		).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	if len(rows) > 0 {
		// Build the query once with Squirrel, then get SQL for preparation
		sqlStr, _, err := sq.Insert("results").
			Columns(
				"run_id", "row_index", "project", "bug_file", "target_line",
				"function_name", "start_line", "end_line", "method", "function_body", "error",
			).
			Values("", 0, "", "", "", "", 0, 0, "", "", "").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build SQL: %w", err)
		}

		stmt, err := tx.Prepare(sqlStr)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			_, err := stmt.Exec(
				run.ID,
				r.Index,
				r.Project,
				r.BugFile,
				r.TargetLine,
				r.FunctionName,
				r.StartLine,
				r.EndLine,
				r.Method,
				r.FunctionBody,
				r.Error,
			)
			if err != nil {
				return fmt.Errorf("failed to insert row %d: %w", r.Index, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// DeleteRun removes a run and, through the foreign key, its rows.
func (w *ResultWriter) DeleteRun(runID string) error {
	_, err := sq.Delete("runs").
		Where(sq.Eq{"run_id": runID}).
		RunWith(w.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	return nil
}
