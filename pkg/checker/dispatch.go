// pkg/checker/dispatch.go
package checker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/praetorian-inc/vouch/pkg/source"
	"github.com/praetorian-inc/vouch/pkg/types"
)

// DefaultWorkers bounds dispatcher concurrency when no override is given.
const DefaultWorkers = 4

// DispatcherOptions configures batch processing.
type DispatcherOptions struct {
	// Workers is the maximum number of concurrent checker calls.
	Workers int

	// Notify enables the optional owner-notification capability for
	// checkers that implement Notifier.
	Notify bool

	// RatePerSecond caps outbound validation calls across all workers.
	// Zero means unlimited.
	RatePerSecond float64
}

// Dispatcher drives the engine across a batch of inputs, isolating
// per-item failures. One unresolvable or failing item never aborts the
// batch, and results come back in input order regardless of concurrency.
type Dispatcher struct {
	registry *Registry
	engine   *Engine
	workers  int
	notify   bool
	limiter  *rate.Limiter
}

// NewDispatcher creates a dispatcher over the given registry and engine.
func NewDispatcher(registry *Registry, engine *Engine, opts DispatcherOptions) *Dispatcher {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}

	return &Dispatcher{
		registry: registry,
		engine:   engine,
		workers:  workers,
		notify:   opts.Notify,
		limiter:  limiter,
	}
}

// Run validates every input and returns exactly one record per input,
// in input order. Checker calls run on a semaphore-bounded worker pool;
// the shared registry is the only state concurrent workers touch.
func (d *Dispatcher) Run(ctx context.Context, inputs []source.Secret) []*types.Record {
	records := make([]*types.Record, len(inputs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, d.workers)

	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input source.Secret) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			records[i] = d.runOne(ctx, input)
		}(i, input)
	}

	wg.Wait()
	return records
}

// runOne resolves and validates a single input. Resolution failures and
// malformed inputs become error records, not batch failures.
func (d *Dispatcher) runOne(ctx context.Context, input source.Secret) *types.Record {
	if input.Value == "" {
		return &types.Record{
			Kind:     input.Kind,
			Outcome:  types.Errorf("malformed input: missing secret"),
			Metadata: input.Metadata,
		}
	}

	c, err := d.registry.ResolveKind(input.Kind)
	if err != nil {
		log.Debug().Str("kind", input.Kind).Msg("no checker for input")
		return &types.Record{
			Secret:   input.Value,
			Kind:     input.Kind,
			Outcome:  types.Errorf("%v", err),
			Metadata: input.Metadata,
		}
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return &types.Record{
				Secret:   input.Value,
				Kind:     input.Kind,
				Checker:  c.Name(),
				Outcome:  types.Errorf("canceled: %v", err),
				Metadata: input.Metadata,
			}
		}
	}

	record := d.engine.Run(ctx, c, input.Value)
	record.Kind = input.Kind
	record.Metadata = input.Metadata

	if d.notify && record.Outcome.IsValid() {
		d.notifyOwner(ctx, c, record)
	}

	return record
}

// notifyOwner invokes the checker's Notifier capability, if present.
// A notification failure is attached to the record as a diagnostic and
// never downgrades the already-determined Outcome.
func (d *Dispatcher) notifyOwner(ctx context.Context, c Checker, record *types.Record) {
	notifier, ok := c.(Notifier)
	if !ok {
		return
	}

	nctx, cancel := context.WithTimeout(ctx, d.engine.Timeout())
	defer cancel()

	if err := notifier.Notify(nctx, record.Secret); err != nil {
		log.Warn().Str("checker", c.Name()).Err(err).Msg("owner notification failed")
		record.NotifyError = err.Error()
	}
}
