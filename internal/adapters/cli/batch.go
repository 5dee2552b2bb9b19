package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/devbush/ad2video/internal/adapters/cli/tui"
)

var (
	batchFileFlag    string
	batchConcurrency int
)

// NewBatchCmd creates the batch command
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [product-urls...]",
		Short: "Generate videos for several product pages",
		Long: `Submit several product pages for video generation.

Provide product URLs as arguments and/or via a file with --file.
Each URL is submitted once; generation itself continues on the
backend and the videos show up in 'ad2video videos'.

Example:
  ad2video batch https://shop.example.com/lamp https://shop.example.com/mug
  ad2video batch --file products.txt --concurrency 3`,
		RunE: runBatch,
	}

	cmd.Flags().StringVarP(&batchFileFlag, "file", "f", "", "File with product URLs (one per line)")
	cmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 2, "Max concurrent submissions (max 10)")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	// Validate concurrency
	batchConcurrency = min(max(batchConcurrency, 1), 10)

	urls, invalid, err := CollectInputs(args, batchFileFlag)
	if err != nil {
		return fmt.Errorf("failed to collect inputs: %w", err)
	}
	for _, arg := range invalid {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipping invalid URL: %s\n", arg)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no valid product URLs provided")
	}

	app, err := GetApp()
	if err != nil {
		return err
	}

	progress := tui.NewBatchProgress(cmd.OutOrStdout(), len(urls), quietFlag)
	summary := processBatch(cmd.Context(), app, urls, progress)
	progress.Complete()

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d submissions failed", summary.Failed, summary.Total)
	}
	return nil
}

func processBatch(ctx context.Context, app *App, urls []string, progress *tui.BatchProgress) *BatchSummary {
	var results []BatchResult
	var resultsMu sync.Mutex

	// Worker pool using semaphore pattern
	sem := make(chan struct{}, batchConcurrency)
	var wg sync.WaitGroup

	for _, u := range urls {
		wg.Add(1)
		sem <- struct{}{}

		go func(productURL string) {
			defer wg.Done()
			defer func() { <-sem }()

			result := submitOne(ctx, app, productURL)

			resultsMu.Lock()
			results = append(results, result)
			resultsMu.Unlock()

			progress.AddResult(productURL, result.Success, result.Error, result.Duration, result.Filename)
		}(u)
	}

	wg.Wait()
	return NewBatchSummary(results)
}

// submitOne runs one generation request through its own controller
func submitOne(ctx context.Context, app *App, productURL string) BatchResult {
	start := time.Now()

	// Batch never deletes, so the confirmer is never asked
	ctrl := app.NewController(newPromptConfirmer(nil, nil, false))
	defer ctrl.Close()

	ctrl.SubmitGeneration(ctx, productURL)
	s := ctrl.State()

	result := BatchResult{
		URL:      productURL,
		Success:  s.Error == nil,
		Filename: s.CurrentVideoFilename,
		Duration: time.Since(start),
	}
	if s.Error != nil {
		result.Error = s.Error.Display()
	}
	return result
}
