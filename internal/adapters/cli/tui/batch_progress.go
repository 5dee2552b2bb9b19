package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// BatchResult represents the result of one item in a batch
type BatchResult struct {
	Label    string
	Success  bool
	ErrMsg   string
	Duration time.Duration
	Detail   string
}

// BatchProgress manages batch processing progress display
type BatchProgress struct {
	out       io.Writer
	total     int
	completed int
	results   []BatchResult
	failures  []BatchResult
	quiet     bool
	mu        sync.Mutex
	rendered  bool
}

// NewBatchProgress creates a new batch progress display
func NewBatchProgress(out io.Writer, total int, quiet bool) *BatchProgress {
	if total < 0 {
		total = 0
	}
	return &BatchProgress{
		out:      out,
		total:    total,
		results:  make([]BatchResult, 0),
		failures: make([]BatchResult, 0),
		quiet:    quiet,
	}
}

// AddResult adds a result and updates the display
func (bp *BatchProgress) AddResult(label string, success bool, errMsg string, duration time.Duration, detail string) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	result := BatchResult{
		Label:    label,
		Success:  success,
		ErrMsg:   errMsg,
		Duration: duration,
		Detail:   detail,
	}

	bp.results = append(bp.results, result)
	bp.completed++

	if !success {
		bp.failures = append(bp.failures, result)
	}

	bp.render()
}

func (bp *BatchProgress) render() {
	if bp.quiet {
		return
	}

	// Progress line plus up to 10 results
	if bp.rendered {
		linesToClear := 1 + min(len(bp.results)-1, 10)
		fmt.Fprintf(bp.out, "\033[%dA", linesToClear)
		fmt.Fprint(bp.out, "\033[J")
	}

	percent := 0
	if bp.total > 0 {
		percent = (bp.completed * 100) / bp.total
	}
	bar := renderProgressBar(int64(bp.completed), int64(bp.total), 20)
	fmt.Fprintf(bp.out, "Submitted %d/%d product pages %s %d%%\n", bp.completed, bp.total, bar, percent)

	startIdx := max(len(bp.results)-10, 0)
	for _, result := range bp.results[startIdx:] {
		if result.Success {
			detail := ""
			if result.Detail != "" {
				detail = " → " + result.Detail
			}
			fmt.Fprintf(bp.out, "✓ %s (%.1fs)%s\n", result.Label, result.Duration.Seconds(), detail)
		} else {
			fmt.Fprintf(bp.out, "✗ %s: %s\n", result.Label, result.ErrMsg)
		}
	}

	bp.rendered = true
}

// Complete prints the final summary
func (bp *BatchProgress) Complete() {
	if bp.quiet {
		return
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	succeeded := bp.completed - len(bp.failures)

	fmt.Fprintln(bp.out)
	fmt.Fprintf(bp.out, "Batch complete: %d/%d succeeded\n", succeeded, bp.total)

	if len(bp.failures) > 0 {
		fmt.Fprintln(bp.out, "\nFailures:")
		for _, f := range bp.failures {
			fmt.Fprintf(bp.out, "  ✗ %s: %s\n", f.Label, f.ErrMsg)
		}
	}
}

// GetSuccessCount returns the number of successful results
func (bp *BatchProgress) GetSuccessCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.completed - len(bp.failures)
}

// GetFailureCount returns the number of failed results
func (bp *BatchProgress) GetFailureCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.failures)
}
