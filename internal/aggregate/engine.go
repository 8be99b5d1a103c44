// Package aggregate fans out independent downstream calls concurrently and
// joins them into a single keyed result, or a single failure.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aled/logistics-sandbox/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Call is one named downstream invocation. Calls must be independent: no
// ordering between them, no shared mutable state.
type Call func(ctx context.Context) (any, error)

// Engine runs sets of calls with a shared timeout. It holds no state
// between runs.
type Engine struct {
	Timeout time.Duration
}

func New(timeout time.Duration) *Engine {
	return &Engine{Timeout: timeout}
}

// Run executes every call concurrently and returns a result keyed exactly
// like the input. The first failure cancels the remaining calls' context,
// Wait joins every in-flight call before returning, and only that first
// cause propagates; partial results are never returned. A deadline hit
// surfaces as ErrAggregationTimeout, anything else as an *APIError
// wrapping the cause.
func (e *Engine) Run(ctx context.Context, calls map[string]Call) (map[string]any, error) {
	if len(calls) == 0 {
		return map[string]any{}, nil
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(calls))

	var mu sync.Mutex
	results := make(map[string]any, len(calls))

	for name, call := range calls {
		g.Go(func() error {
			value, err := call(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			mu.Lock()
			results[name] = value
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrAggregationTimeout
		}
		return nil, &domain.APIError{Message: "aggregation failed", Cause: err}
	}

	return results, nil
}
