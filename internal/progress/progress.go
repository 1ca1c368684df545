// Package progress renders per-file analysis progress on stderr.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for file analysis. A nil Tracker is
// valid and does nothing, so callers can thread it unconditionally.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewTracker creates a progress bar with the given label and total
// file count. Quiet mode returns nil.
func NewTracker(label string, total int, quiet bool) *Tracker {
	if quiet {
		return nil
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label}
}

// NewSpinner creates a spinner for operations with unknown total
// count, like repository scanning.
func NewSpinner(label string, quiet bool) *Tracker {
	if quiet {
		return nil
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, label: label}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	if t != nil {
		t.bar.Add(1)
	}
}

// Func adapts the tracker to a plain callback for worker pools.
func (t *Tracker) Func() func() {
	if t == nil {
		return nil
	}
	return t.Tick
}

// Finish clears the bar completely.
func (t *Tracker) Finish() {
	if t != nil {
		t.bar.Finish()
		t.bar.Clear()
	}
}

// FinishError clears the bar and prints an error message to stderr.
func (t *Tracker) FinishError(err error) {
	if t != nil {
		t.bar.Finish()
		t.bar.Clear()
		fmt.Fprintf(os.Stderr, "  %s error: %v\n", t.label, err)
	}
}
