package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read parses a CSV dataset. The header must contain the project, file and
// line columns; when link is true the function and code columns are required
// too. A missing column returns a *SchemaError before any row is parsed. A
// malformed line cell is recorded on its Query and does not fail the read.
func Read(r io.Reader, cols Columns, link bool) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Missing: required(cols, link)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &Table{Header: header, index: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := table.index[name]; !dup {
			table.index[name] = i
		}
	}

	var missing []string
	for _, name := range required(cols, link) {
		if _, ok := table.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	projectIdx := table.index[cols.Project]
	fileIdx := table.index[cols.File]
	lineIdx := table.index[cols.Line]

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(table.Queries)+1, err)
		}
		// Short rows are padded so every Record lines up with Header.
		for len(record) < len(header) {
			record = append(record, "")
		}

		q := Query{
			Project: strings.TrimSpace(record[projectIdx]),
			File:    strings.TrimSpace(record[fileIdx]),
			RawLine: record[lineIdx],
			Record:  record,
		}
		q.Line, q.Err = parseLine(record[lineIdx])
		table.Queries = append(table.Queries, q)
	}

	return table, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string, cols Columns, link bool) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Read(f, cols, link)
}

func required(cols Columns, link bool) []string {
	names := []string{cols.Project, cols.File, cols.Line}
	if link {
		names = append(names, cols.Function, cols.Code)
	}
	return names
}
