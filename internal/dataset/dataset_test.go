package dataset

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/funcloc/internal/locator"
)

// Test Plan for dataset I/O:
// - Read parses project, file and line from the configured columns
// - Read keeps every original cell and pads short rows
// - a missing required column is a *SchemaError wrapping ErrBatchSchema
// - link mode additionally requires the function and code columns
// - an empty input is a schema error
// - malformed line cells are recorded per row, not returned
// - "12.0" style cells from spreadsheet exports are accepted
// - zero and negative lines parse; clamping is the resolver's job
// - WriteResults emits the fixed header and leaves spans blank for FileError rows
// - LinkRecord fills blank/"-" function cells and keeps existing names
// - LinkRecord only replaces code for syntactic results
// - WriteLinked preserves every column and row order

const sample = `Project,Bug File,Location,Function,Code_function,Severity
trueprint,src/a.c,22,-,old body,high
trueprint,src/b.c,7.0,main,,low
other,x.c,oops,,,
`

func TestRead(t *testing.T) {
	t.Parallel()

	table, err := Read(strings.NewReader(sample), DefaultColumns(), false)
	require.NoError(t, err)
	require.Len(t, table.Queries, 3)

	q := table.Queries[0]
	assert.Equal(t, "trueprint", q.Project)
	assert.Equal(t, "src/a.c", q.File)
	assert.Equal(t, 22, q.Line)
	assert.NoError(t, q.Err)
	assert.Equal(t, []string{"trueprint", "src/a.c", "22", "-", "old body", "high"}, q.Record)

	assert.Equal(t, 7, table.Queries[1].Line)

	bad := table.Queries[2]
	assert.ErrorIs(t, bad.Err, ErrInvalidLine)
	assert.Equal(t, 0, bad.Line)
	assert.Equal(t, "oops", bad.RawLine)
}

func TestRead_PadsShortRows(t *testing.T) {
	t.Parallel()

	input := "Project,Bug File,Location,Extra\np,f.c,3\n"
	table, err := Read(strings.NewReader(input), DefaultColumns(), false)
	require.NoError(t, err)
	require.Len(t, table.Queries, 1)
	assert.Equal(t, []string{"p", "f.c", "3", ""}, table.Queries[0].Record)
}

func TestRead_SchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		link    bool
		missing []string
	}{
		{"missing line", "Project,Bug File\np,f.c\n", false, []string{"Location"}},
		{"missing two", "Bug File\nf.c\n", false, []string{"Project", "Location"}},
		{"link needs function and code", "Project,Bug File,Location\np,f.c,1\n", true, []string{"Function", "Code_function"}},
		{"empty input", "", false, []string{"Project", "Bug File", "Location"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), DefaultColumns(), tt.link)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBatchSchema))

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tt.missing, schemaErr.Missing)
		})
	}
}

func TestRead_CustomColumnsAndBOM(t *testing.T) {
	t.Parallel()

	cols := Columns{Project: "repo", File: "path", Line: "line"}
	input := "\ufeffrepo,path,line\nr,p.c,4\n"

	table, err := Read(strings.NewReader(input), cols, false)
	require.NoError(t, err)
	require.Len(t, table.Queries, 1)
	assert.Equal(t, "r", table.Queries[0].Project)
	assert.Equal(t, 4, table.Queries[0].Line)
}

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cell string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{" 5 ", 5, true},
		{"12.0", 12, true},
		{"12.5", 0, false},
		{"0", 0, true},
		{"-3", -3, true},
		{"-2.0", -2, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, err := parseLine(tt.cell)
		if tt.ok {
			assert.NoError(t, err, tt.cell)
			assert.Equal(t, tt.want, got, tt.cell)
		} else {
			assert.ErrorIs(t, err, ErrInvalidLine, tt.cell)
		}
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteResults(t *testing.T) {
	t.Parallel()

	table, err := Read(strings.NewReader(sample), DefaultColumns(), false)
	require.NoError(t, err)

	results := []locator.Result{
		{Name: "add", StartLine: 20, EndLine: 25, Text: "int add()\n{\n}\n", Method: locator.MethodExactDefinition},
		{StartLine: 1, EndLine: 13, Text: "...", Method: locator.MethodWindowFallback},
		locator.FileError(ErrInvalidLine),
	}

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteResults(out, table.Queries, results))

	records := readCSV(t, out)
	require.Len(t, records, 4)
	assert.Equal(t, ResultHeader, records[0])
	assert.Equal(t, []string{"trueprint", "src/a.c", "22", "add", "20", "25", "ExactDefinition", "int add()\n{\n}\n"}, records[1])
	assert.Equal(t, []string{"trueprint", "src/b.c", "7.0", "", "1", "13", "WindowFallback", "..."}, records[2])
	assert.Equal(t, []string{"other", "x.c", "oops", "", "", "", "FileError", ""}, records[3])
}

func TestWriteResults_LengthMismatch(t *testing.T) {
	t.Parallel()

	err := WriteResults(filepath.Join(t.TempDir(), "out.csv"), []Query{{}}, nil)
	assert.Error(t, err)
}

func TestLinkRecord(t *testing.T) {
	t.Parallel()

	table, err := Read(strings.NewReader(sample), DefaultColumns(), true)
	require.NoError(t, err)
	cols := DefaultColumns()

	exact := locator.Result{Name: "parse", Text: "int parse() {}\n", Method: locator.MethodExactDefinition}
	window := locator.Result{Text: "window text", Method: locator.MethodWindowFallback}

	// "-" is replaced with the found name, code replaced by syntactic text.
	got := LinkRecord(table, cols, table.Queries[0], exact)
	assert.Equal(t, []string{"trueprint", "src/a.c", "22", "parse", "int parse() {}\n", "high"}, got)

	// an existing name is kept
	got = LinkRecord(table, cols, table.Queries[1], exact)
	assert.Equal(t, "main", got[3])

	// window text never overwrites the code cell
	got = LinkRecord(table, cols, table.Queries[0], window)
	assert.Equal(t, []string{"trueprint", "src/a.c", "22", "-", "old body", "high"}, got)

	// the input record is not modified
	assert.Equal(t, "-", table.Queries[0].Record[3])
}

func TestWriteLinked(t *testing.T) {
	t.Parallel()

	table, err := Read(strings.NewReader(sample), DefaultColumns(), true)
	require.NoError(t, err)

	results := []locator.Result{
		{Name: "f", Text: "body f\n", Method: locator.MethodDeclaratorHeuristic},
		{Name: "g", Text: "body g\n", Method: locator.MethodExactDefinition},
		locator.FileError(ErrInvalidLine),
	}

	out := filepath.Join(t.TempDir(), "linked.csv")
	require.NoError(t, WriteLinked(out, table, DefaultColumns(), results))

	records := readCSV(t, out)
	require.Len(t, records, 4)
	assert.Equal(t, table.Header, records[0])
	assert.Equal(t, []string{"trueprint", "src/a.c", "22", "f", "body f\n", "high"}, records[1])
	assert.Equal(t, []string{"trueprint", "src/b.c", "7.0", "main", "body g\n", "low"}, records[2])
	assert.Equal(t, []string{"other", "x.c", "oops", "", "", ""}, records[3])
}
