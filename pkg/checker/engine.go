// pkg/checker/engine.go
package checker

import (
	"context"
	"fmt"
	"time"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// DefaultTimeout bounds a single checker call when no override is given.
const DefaultTimeout = 30 * time.Second

// Engine invokes exactly one checker against exactly one secret under a
// hard deadline and always produces a well-formed Record: a hang becomes
// error("timeout"), a panic or returned error becomes an error Outcome.
// The engine is stateless and performs no retries or caching.
type Engine struct {
	timeout time.Duration
}

// NewEngine creates an engine with the given per-call timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewEngine(timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{timeout: timeout}
}

// Timeout returns the engine's per-call deadline.
func (e *Engine) Timeout() time.Duration {
	return e.timeout
}

type callResult struct {
	outcome types.Outcome
	err     error
}

// Run validates one secret with one checker. The checker call runs on its
// own goroutine with a buffered result channel: if the deadline elapses
// first, the call is abandoned (it may still complete in the background,
// its result discarded) and error("timeout") is recorded. Checkers that
// honor ctx cancel promptly; the select bounds the rest.
func (e *Engine) Run(ctx context.Context, c Checker, secret string) *types.Record {
	record := &types.Record{
		Secret:  secret,
		Kind:    c.Kind(),
		Checker: c.Name(),
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	results := make(chan callResult, 1)
	start := time.Now()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- callResult{err: fmt.Errorf("internal fault: %v", r)}
			}
		}()
		outcome, err := c.Check(cctx, secret)
		results <- callResult{outcome: outcome, err: err}
	}()

	select {
	case res := <-results:
		record.Elapsed = time.Since(start)
		if res.err != nil {
			record.Outcome = types.Errorf("%v", res.err)
		} else {
			record.Outcome = res.outcome
		}
	case <-cctx.Done():
		record.Elapsed = time.Since(start)
		if ctx.Err() != nil {
			record.Outcome = types.Errorf("canceled: %v", ctx.Err())
		} else {
			record.Outcome = types.Errorf("timeout")
		}
	}

	return record
}
