// Package batch resolves every row of a dataset against the project sources,
// in parallel, preserving input order.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/funcloc/internal/cache"
	"github.com/mvp-joe/funcloc/internal/dataset"
	"github.com/mvp-joe/funcloc/internal/locator"
)

// Documents supplies parsed source files. *cache.Cache implements it.
type Documents interface {
	Get(ctx context.Context, path string) (*cache.Document, error)
}

// Config configures a Driver.
type Config struct {
	// Workers is the number of rows resolved concurrently. Zero means NumCPU.
	Workers int
	// ProjectsDir is the root holding one directory per project. A row's
	// file is read from ProjectsDir/Project/File.
	ProjectsDir string
}

// Stats summarizes a run.
type Stats struct {
	Rows int
	// Named counts rows whose result carries a function name.
	Named    int
	Methods  map[locator.Method]int
	Duration time.Duration
}

// Report is the outcome of Process.
type Report struct {
	Table   *dataset.Table
	Results []locator.Result
	Stats   *Stats
}

// Driver runs the resolver over dataset rows.
type Driver struct {
	docs     Documents
	resolver *locator.Resolver
	config   Config
	progress ProgressReporter
	logger   *slog.Logger
}

// Option customizes a Driver.
type Option func(*Driver)

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(d *Driver) {
		if p != nil {
			d.progress = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDriver creates a driver.
func NewDriver(docs Documents, resolver *locator.Resolver, config Config, opts ...Option) *Driver {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	d := &Driver{
		docs:     docs,
		resolver: resolver,
		config:   config,
		progress: &NoOpProgressReporter{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SourcePath returns the file a query refers to.
func (d *Driver) SourcePath(q dataset.Query) string {
	return filepath.Join(d.config.ProjectsDir, q.Project, q.File)
}

// Run resolves queries with a bounded worker pool. results[i] always belongs
// to queries[i]. Unreadable files and malformed rows become FileError results.
// If ctx is cancelled no further rows are dispatched and ctx.Err() is returned.
func (d *Driver) Run(ctx context.Context, queries []dataset.Query) ([]locator.Result, *Stats, error) {
	start := time.Now()
	results := make([]locator.Result, len(queries))

	d.progress.OnBatchStart(len(queries))

	g := new(errgroup.Group)
	g.SetLimit(d.config.Workers)
	for i, q := range queries {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = d.resolve(ctx, q)
			d.progress.OnRowResolved(i, q, results[i])
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("batch cancelled: %w", err)
	}

	stats := &Stats{
		Rows:     len(results),
		Methods:  make(map[locator.Method]int),
		Duration: time.Since(start),
	}
	for _, r := range results {
		stats.Methods[r.Method]++
		if r.HasName() {
			stats.Named++
		}
	}

	d.progress.OnBatchComplete(stats)
	d.logger.Info("batch complete",
		"rows", stats.Rows,
		"named", stats.Named,
		"exact", stats.Methods[locator.MethodExactDefinition],
		"declarator", stats.Methods[locator.MethodDeclaratorHeuristic],
		"window", stats.Methods[locator.MethodWindowFallback],
		"file_errors", stats.Methods[locator.MethodFileError],
		"duration", stats.Duration)

	return results, stats, nil
}

// Process reads the dataset at input, resolves every row and writes output.
// In link mode every input column is preserved and the function and code
// columns are updated in place; otherwise the fixed result layout is written.
// A missing required column fails before any row is resolved.
func (d *Driver) Process(ctx context.Context, input, output string, cols dataset.Columns, link bool) (*Report, error) {
	table, err := dataset.ReadFile(input, cols, link)
	if err != nil {
		return nil, err
	}

	results, stats, err := d.Run(ctx, table.Queries)
	if err != nil {
		return nil, err
	}

	if link {
		err = dataset.WriteLinked(output, table, cols, results)
	} else {
		err = dataset.WriteResults(output, table.Queries, results)
	}
	if err != nil {
		return nil, err
	}

	return &Report{Table: table, Results: results, Stats: stats}, nil
}

func (d *Driver) resolve(ctx context.Context, q dataset.Query) locator.Result {
	if q.Err != nil {
		d.logFileError(q, q.Err)
		return locator.FileError(q.Err)
	}

	doc, err := d.docs.Get(ctx, d.SourcePath(q))
	if err != nil {
		d.logFileError(q, err)
		return locator.FileError(err)
	}
	return d.resolver.Resolve(doc.File, doc.Tree, q.Line)
}

func (d *Driver) logFileError(q dataset.Query, err error) {
	d.logger.Warn("row failed",
		"project", q.Project,
		"file", q.File,
		"line", q.RawLine,
		"error", err)
}
