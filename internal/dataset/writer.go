package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mvp-joe/funcloc/internal/locator"
)

// ResultHeader is the column layout written by Writer.
var ResultHeader = []string{
	"Project",
	"BugFile",
	"TargetLine",
	"FunctionName",
	"StartLine",
	"EndLine",
	"Method",
	"FunctionBody",
}

// Writer emits one CSV row per resolved query.
type Writer struct {
	w *csv.Writer
}

// NewWriter wraps w. Call WriteHeader before the first row and Flush at the end.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// WriteHeader writes ResultHeader.
func (w *Writer) WriteHeader() error {
	return w.w.Write(ResultHeader)
}

// Write writes the result row for q.
func (w *Writer) Write(q Query, r locator.Result) error {
	return w.w.Write([]string{
		q.Project,
		q.File,
		strings.TrimSpace(q.RawLine),
		r.Name,
		lineCell(r.StartLine),
		lineCell(r.EndLine),
		string(r.Method),
		r.Text,
	})
}

// Flush writes buffered rows and reports any write error.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// WriteResults writes a result CSV to path. results[i] belongs to queries[i].
func WriteResults(path string, queries []Query, results []locator.Result) error {
	if len(queries) != len(results) {
		return fmt.Errorf("have %d results for %d queries", len(results), len(queries))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	w := NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, q := range queries {
		if err := w.Write(q, results[i]); err != nil {
			f.Close()
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return f.Close()
}

// LinkRecord returns q's original cells updated with r. The function cell is
// filled only when it is blank or "-" and a name was found. The code cell is
// replaced only when a syntactic strategy produced text.
func LinkRecord(t *Table, cols Columns, q Query, r locator.Result) []string {
	record := make([]string, len(q.Record))
	copy(record, q.Record)

	if i, ok := t.Column(cols.Function); ok && r.HasName() {
		cell := strings.TrimSpace(record[i])
		if cell == "" || cell == "-" {
			record[i] = r.Name
		}
	}
	if i, ok := t.Column(cols.Code); ok && r.Method.Syntactic() && r.Text != "" {
		record[i] = r.Text
	}
	return record
}

// WriteLinked writes t back to path with every column preserved and the
// function and code columns updated from results.
func WriteLinked(path string, t *Table, cols Columns, results []locator.Result) error {
	if len(t.Queries) != len(results) {
		return fmt.Errorf("have %d results for %d queries", len(results), len(t.Queries))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, q := range t.Queries {
		if err := w.Write(LinkRecord(t, cols, q, results[i])); err != nil {
			f.Close()
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return f.Close()
}

func lineCell(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
