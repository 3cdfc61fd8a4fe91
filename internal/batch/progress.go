package batch

import (
	"github.com/mvp-joe/funcloc/internal/dataset"
	"github.com/mvp-joe/funcloc/internal/locator"
)

// ProgressReporter receives batch progress events. OnRowResolved is called
// from worker goroutines and must be safe for concurrent use.
type ProgressReporter interface {
	// OnBatchStart is called once before any row is dispatched.
	OnBatchStart(totalRows int)

	// OnRowResolved is called after each row, in completion order.
	OnRowResolved(index int, query dataset.Query, result locator.Result)

	// OnBatchComplete is called once after every dispatched row finished.
	OnBatchComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnBatchStart(totalRows int)                       {}
func (n *NoOpProgressReporter) OnRowResolved(int, dataset.Query, locator.Result) {}
func (n *NoOpProgressReporter) OnBatchComplete(stats *Stats)                     {}
