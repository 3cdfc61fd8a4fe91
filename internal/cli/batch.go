package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/funcloc/internal/batch"
	"github.com/mvp-joe/funcloc/internal/config"
	"github.com/mvp-joe/funcloc/internal/locator"
	"github.com/mvp-joe/funcloc/internal/storage"
)

var (
	batchLinkFlag        bool
	batchWorkersFlag     int
	batchProjectsDirFlag string
	batchDBFlag          string
	batchQuietFlag       bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <input.csv> <output.csv>",
	Short: "Resolve every row of a bug-location dataset",
	Long: `Batch reads a CSV dataset of bug locations, resolves each row to its
enclosing function and writes the results to a new CSV file.

Each row names a project, a file inside that project and a target line
(columns "Project", "Bug File" and "Location" by default). Source files are
read from <projects-dir>/<project>/<file>.

By default the output has one row per input row with the columns
Project, BugFile, TargetLine, FunctionName, StartLine, EndLine, Method and
FunctionBody.

With --link every input column is kept. The "Function" column is filled
when it is empty or "-", and "Code_function" is replaced whenever a real
function boundary was found.

Rows whose file cannot be read are reported with method FileError; the
batch continues. A dataset missing a required column is rejected before
any row is processed.

Examples:
  # Resolve a dataset
  funcloc batch bugs.csv functions.csv

  # Update an existing dataset in place of a copy
  funcloc batch --link bugs.csv bugs_linked.csv

  # Persist the run for later inspection
  funcloc batch bugs.csv functions.csv --db results.db
`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().BoolVar(&batchLinkFlag, "link", false, "Preserve input columns and update Function/Code_function")
	batchCmd.Flags().IntVarP(&batchWorkersFlag, "workers", "w", 0, "Rows resolved concurrently (default from config)")
	batchCmd.Flags().StringVar(&batchProjectsDirFlag, "projects-dir", "", "Directory holding one subdirectory per project (default from config)")
	batchCmd.Flags().StringVar(&batchDBFlag, "db", "", "SQLite database to record the run in (default from config)")
	batchCmd.Flags().BoolVarP(&batchQuietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
}

func runBatch(cmd *cobra.Command, args []string) error {
	// Cancel on Ctrl+C
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBatchFlags(cfg)

	return processBatch(ctx, cmd.OutOrStdout(), cfg, args[0], args[1])
}

func applyBatchFlags(cfg *config.Config) {
	if batchWorkersFlag > 0 {
		cfg.Batch.Workers = batchWorkersFlag
	}
	if batchProjectsDirFlag != "" {
		cfg.Batch.ProjectsDir = batchProjectsDirFlag
	}
	if batchDBFlag != "" {
		cfg.Storage.Database = batchDBFlag
	}
}

func processBatch(ctx context.Context, out io.Writer, cfg *config.Config, input, output string) error {
	logger := slog.Default()

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	var progress batch.ProgressReporter = &batch.NoOpProgressReporter{}
	if !batchQuietFlag {
		progress = NewCLIProgressReporter(out)
	}

	driver := batch.NewDriver(eng.docs, eng.resolver,
		batch.Config{Workers: cfg.Batch.Workers, ProjectsDir: cfg.Batch.ProjectsDir},
		batch.WithProgress(progress),
		batch.WithLogger(logger))

	report, err := driver.Process(ctx, input, output, cfg.Columns(), batchLinkFlag)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	cacheStats := eng.docs.Stats()
	logger.Debug("document cache",
		"hits", cacheStats.Hits,
		"misses", cacheStats.Misses,
		"size", cacheStats.Size)

	if cfg.Storage.Database != "" {
		runID, err := persistRun(cfg.Storage.Database, input, output, report)
		if err != nil {
			return err
		}
		if !batchQuietFlag {
			fmt.Fprintf(out, "  Run ID: %s\n", runID)
		}
	}

	if !batchQuietFlag {
		fmt.Fprintf(out, "✓ Results written to %s\n", output)
	}
	return nil
}

func persistRun(dbPath, input, output string, report *batch.Report) (string, error) {
	db, err := storage.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	run := &storage.Run{
		ID:         storage.NewRunID(),
		InputPath:  input,
		OutputPath: output,
		LinkMode:   batchLinkFlag,
		Rows:       report.Stats.Rows,
		Duration:   report.Stats.Duration,
	}
	rows := storage.NewResultRows(run.ID, report.Table.Queries, report.Results)
	if err := storage.NewResultWriter(db).WriteRun(run, rows); err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return run.ID, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// methodOrder is the display order of resolution methods.
var methodOrder = []locator.Method{
	locator.MethodExactDefinition,
	locator.MethodDeclaratorHeuristic,
	locator.MethodWindowFallback,
	locator.MethodFileError,
}
