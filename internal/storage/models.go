package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/funcloc/internal/dataset"
	"github.com/mvp-joe/funcloc/internal/locator"
)

// Run describes one persisted batch execution.
type Run struct {
	ID         string
	InputPath  string
	OutputPath string
	LinkMode   bool
	Rows       int
	Duration   time.Duration
	CreatedAt  time.Time
}

// ResultRow is one resolved dataset row.
type ResultRow struct {
	RunID        string
	Index        int
	Project      string
	BugFile      string
	TargetLine   string
	FunctionName string
	StartLine    int
	EndLine      int
	Method       string
	FunctionBody string
	Error        string
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// NewResultRows pairs queries with their results. results[i] belongs to queries[i].
func NewResultRows(runID string, queries []dataset.Query, results []locator.Result) []ResultRow {
	rows := make([]ResultRow, 0, len(results))
	for i, r := range results {
		var q dataset.Query
		if i < len(queries) {
			q = queries[i]
		}
		row := ResultRow{
			RunID:        runID,
			Index:        i,
			Project:      q.Project,
			BugFile:      q.File,
			TargetLine:   q.RawLine,
			FunctionName: r.Name,
			StartLine:    r.StartLine,
			EndLine:      r.EndLine,
			Method:       string(r.Method),
			FunctionBody: r.Text,
		}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}
