package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/funcloc/internal/batch"
	"github.com/mvp-joe/funcloc/internal/dataset"
	"github.com/mvp-joe/funcloc/internal/locator"
)

// CLIProgressReporter implements batch progress reporting with a progress bar.
type CLIProgressReporter struct {
	out     io.Writer
	rowBar  *progressbar.ProgressBar
	started time.Time
}

// NewCLIProgressReporter creates a new CLI progress reporter writing to out.
func NewCLIProgressReporter(out io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{out: out}
}

func (c *CLIProgressReporter) OnBatchStart(totalRows int) {
	c.started = time.Now()
	fmt.Fprintf(c.out, "Resolving %s rows\n", formatNumber(totalRows))

	c.rowBar = progressbar.NewOptions(totalRows,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Resolving rows"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("rows/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

// OnRowResolved advances the bar. The bar serializes concurrent Adds.
func (c *CLIProgressReporter) OnRowResolved(int, dataset.Query, locator.Result) {
	if c.rowBar != nil {
		c.rowBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnBatchComplete(stats *batch.Stats) {
	if c.rowBar != nil {
		c.rowBar.Finish()
		c.rowBar = nil
	}

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "✓ Batch complete: %s rows in %.1fs (%s named)\n",
		formatNumber(stats.Rows), stats.Duration.Seconds(), formatNumber(stats.Named))
	for _, m := range methodOrder {
		fmt.Fprintf(c.out, "  %-20s %s\n", m+":", formatNumber(stats.Methods[m]))
	}
}

// formatNumber adds thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
