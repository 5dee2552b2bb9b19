package cli

import "time"

// BatchResult represents the outcome of one submission in a batch
type BatchResult struct {
	URL      string
	Success  bool
	Error    string
	Filename string // video file the backend will produce
	Duration time.Duration
}

// BatchSummary aggregates results from a batch run
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []BatchResult
}

// NewBatchSummary counts successes and failures in results
func NewBatchSummary(results []BatchResult) *BatchSummary {
	s := &BatchSummary{Total: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// FailedResults returns only the failed results
func (s *BatchSummary) FailedResults() []BatchResult {
	var failed []BatchResult
	for _, r := range s.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}
