package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/funcloc/internal/storage"
)

// resultsCmd represents the results command
var resultsCmd = &cobra.Command{
	Use:   "results <db> [run-id]",
	Short: "Inspect batch runs recorded in a results database",
	Long: `Results lists the batch runs stored by 'funcloc batch --db' together
with how many rows each resolution method produced. Given a run id, it
prints that run's rows instead, or removes the run with --delete.

Examples:
  # List recorded runs
  funcloc results results.db

  # Show one run's rows
  funcloc results results.db 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed

  # Remove a run and its rows
  funcloc results results.db 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed --delete
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runResults,
}

var resultsDeleteFlag bool

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.Flags().BoolVar(&resultsDeleteFlag, "delete", false, "Delete the given run instead of printing it")
}

func runResults(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("results database not found: %w", err)
	}

	db, err := storage.Open(args[0])
	if err != nil {
		return err
	}
	defer db.Close()

	reader := storage.NewResultReader(db)
	out := cmd.OutOrStdout()
	if resultsDeleteFlag {
		if len(args) != 2 {
			return fmt.Errorf("--delete requires a run id")
		}
		return deleteRun(out, reader, storage.NewResultWriter(db), args[1])
	}
	if len(args) == 2 {
		return printRun(out, reader, args[1])
	}
	return printRuns(out, reader)
}

func deleteRun(w io.Writer, reader *storage.ResultReader, writer *storage.ResultWriter, runID string) error {
	run, err := reader.GetRun(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}
	if err := writer.DeleteRun(runID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted run %s (%s rows)\n", runID, formatNumber(run.Rows))
	return nil
}

func printRuns(w io.Writer, reader *storage.ResultReader) error {
	runs, err := reader.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}

	for _, run := range runs {
		counts, err := reader.MethodCounts(run.ID)
		if err != nil {
			return err
		}

		mode := "results"
		if run.LinkMode {
			mode = "link"
		}
		fmt.Fprintf(w, "%s  %s  %s -> %s (%s, %s rows, %.1fs)\n",
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.InputPath, run.OutputPath,
			mode, formatNumber(run.Rows), run.Duration.Seconds())
		for _, m := range methodOrder {
			fmt.Fprintf(w, "  %-20s %s\n", m+":", formatNumber(counts[string(m)]))
		}
	}
	return nil
}

func printRun(w io.Writer, reader *storage.ResultReader, runID string) error {
	run, err := reader.GetRun(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}

	rows, err := reader.ListResults(runID)
	if err != nil {
		return err
	}

	for _, r := range rows {
		name := r.FunctionName
		if name == "" {
			name = "-"
		}
		line := fmt.Sprintf("%d\t%s/%s:%s\t%s\t%s",
			r.Index+1, r.Project, r.BugFile, strings.TrimSpace(r.TargetLine), r.Method, name)
		if r.StartLine > 0 {
			line += fmt.Sprintf("\t%d-%d", r.StartLine, r.EndLine)
		}
		if r.Error != "" {
			line += "\t" + r.Error
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
