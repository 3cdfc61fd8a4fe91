// Package dataset reads bug-location queries from CSV and writes resolved
// function rows back out.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrBatchSchema indicates the input is missing a required column. It is
	// fatal for the whole batch and detected before any row is processed.
	ErrBatchSchema = errors.New("batch schema error")

	// ErrInvalidLine indicates a row whose target line is not an integer.
	ErrInvalidLine = errors.New("invalid target line")
)

// SchemaError lists the required columns absent from the input header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing columns %s", ErrBatchSchema, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrBatchSchema
}

// Columns names the input columns a query is built from.
type Columns struct {
	Project string
	File    string
	Line    string
	// Function and Code are only required in link mode.
	Function string
	Code     string
}

// DefaultColumns returns the historical column names.
func DefaultColumns() Columns {
	return Columns{
		Project:  "Project",
		File:     "Bug File",
		Line:     "Location",
		Function: "Function",
		Code:     "Code_function",
	}
}

// Query is one input row.
type Query struct {
	Project string
	File    string
	// Line is the 1-indexed target line. It may fall outside the file; the
	// resolver clamps it. Zero when Err is set.
	Line int
	// RawLine is the line cell as it appeared in the input.
	RawLine string
	// Err is set when the row's line cell could not be parsed.
	Err error
	// Record holds the row's original cells in header order.
	Record []string
}

// Table is a parsed dataset.
type Table struct {
	Header  []string
	Queries []Query
	index   map[string]int
}

// Column returns the position of a header column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// parseLine accepts integer cells and spreadsheet exports like "12.0".
// Lines outside the file, including zero and negatives, are left for the
// resolver to clamp.
func parseLine(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if n, err := strconv.Atoi(cell); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLine, cell)
	}
	return int(f), nil
}
