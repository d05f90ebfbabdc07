package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 4

// BulkResult is the outcome of one operation in a bulk run.
type BulkResult struct {
	ID      int    `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// runBulkOperation runs operation for every id with bounded parallelism.
// Results keep the order of ids; one failure does not stop the others.
func runBulkOperation[T any](
	ctx context.Context,
	ids []int,
	concurrency int,
	progress io.Writer,
	operation func(ctx context.Context, id int) (T, error),
) []BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]BulkResult, len(ids))
	var mu sync.Mutex
	done := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range ids {
		g.Go(func() error {
			result := BulkResult{ID: id}
			if err := ctx.Err(); err != nil {
				result.Error = err.Error()
			} else if data, err := operation(ctx, id); err != nil {
				result.Error = err.Error()
			} else {
				result.Success = true
				result.Data = data
			}
			results[i] = result

			if progress != nil {
				mu.Lock()
				done++
				_, _ = fmt.Fprintf(progress, "\rProcessed %d/%d", done, len(ids))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if progress != nil && len(ids) > 0 {
		_, _ = fmt.Fprintln(progress)
	}
	return results
}

// countResults returns success and failure counts from bulk results
func countResults(results []BulkResult) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}

// bulkError summarizes failures as one error, or nil when everything succeeded.
func bulkError(action string, results []BulkResult) error {
	_, failed := countResults(results)
	if failed == 0 {
		return nil
	}
	for _, r := range results {
		if !r.Success {
			return fmt.Errorf("%s failed for %d of %d items (first: id %d: %s)", action, failed, len(results), r.ID, r.Error)
		}
	}
	return nil
}
