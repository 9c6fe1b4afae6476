// pkg/checker/engine_test.go
package checker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// stubChecker is a configurable checker for engine and dispatcher tests.
type stubChecker struct {
	name    string
	kind    string
	outcome types.Outcome
	err     error
	delay   time.Duration
	panics  bool

	// ignoreCtx makes delay a plain sleep, simulating a checker whose
	// I/O library doesn't support cancellation.
	ignoreCtx bool
}

func (s *stubChecker) Name() string        { return s.name }
func (s *stubChecker) Description() string { return "stub checker " + s.name }

func (s *stubChecker) Kind() string {
	if s.kind != "" {
		return s.kind
	}
	return s.name
}

func (s *stubChecker) Check(ctx context.Context, secret string) (types.Outcome, error) {
	if s.panics {
		panic("stub checker exploded")
	}
	if s.delay > 0 {
		if s.ignoreCtx {
			time.Sleep(s.delay)
		} else {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return types.Outcome{}, ctx.Err()
			}
		}
	}
	return s.outcome, s.err
}

func TestEngine_ForwardsOutcomeVerbatim(t *testing.T) {
	engine := NewEngine(time.Second)
	stub := &stubChecker{name: "echo_valid", outcome: types.Valid("always")}

	record := engine.Run(context.Background(), stub, "s1")

	assert.Equal(t, "s1", record.Secret)
	assert.Equal(t, "echo_valid", record.Checker)
	assert.Equal(t, types.StatusValid, record.Outcome.Status)
	assert.Equal(t, "always", record.Outcome.Message)
}

func TestEngine_ConvertsErrorToErrorOutcome(t *testing.T) {
	engine := NewEngine(time.Second)
	stub := &stubChecker{name: "broken", err: assert.AnError}

	record := engine.Run(context.Background(), stub, "s1")

	assert.Equal(t, types.StatusError, record.Outcome.Status)
	assert.Contains(t, record.Outcome.Message, assert.AnError.Error())
}

func TestEngine_RecoversPanic(t *testing.T) {
	engine := NewEngine(time.Second)
	stub := &stubChecker{name: "panicky", panics: true}

	var record *types.Record
	assert.NotPanics(t, func() {
		record = engine.Run(context.Background(), stub, "s1")
	})

	assert.Equal(t, types.StatusError, record.Outcome.Status)
	assert.Contains(t, record.Outcome.Message, "internal fault")
}

func TestEngine_TimeoutOnHangingChecker(t *testing.T) {
	engine := NewEngine(100 * time.Millisecond)
	stub := &stubChecker{
		name:      "slow",
		outcome:   types.Valid(""),
		delay:     5 * time.Second,
		ignoreCtx: true,
	}

	start := time.Now()
	record := engine.Run(context.Background(), stub, "s1")
	elapsed := time.Since(start)

	assert.Equal(t, types.StatusError, record.Outcome.Status)
	assert.Equal(t, "timeout", record.Outcome.Message)
	assert.Less(t, elapsed, time.Second, "engine must return near the deadline, not the checker's duration")
}

func TestEngine_TimeoutOnCooperativeChecker(t *testing.T) {
	engine := NewEngine(100 * time.Millisecond)
	stub := &stubChecker{name: "slow", outcome: types.Valid(""), delay: 5 * time.Second}

	record := engine.Run(context.Background(), stub, "s1")

	assert.Equal(t, types.StatusError, record.Outcome.Status)
}

func TestEngine_ParentCancellation(t *testing.T) {
	engine := NewEngine(time.Minute)
	stub := &stubChecker{name: "slow", outcome: types.Valid(""), delay: 5 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	record := engine.Run(ctx, stub, "s1")

	assert.Equal(t, types.StatusError, record.Outcome.Status)
	assert.Contains(t, record.Outcome.Message, "canceled")
	assert.Less(t, time.Since(start), time.Second)
}

func TestEngine_Idempotence(t *testing.T) {
	engine := NewEngine(time.Second)
	stub := &stubChecker{name: "det", outcome: types.Invalid("nope")}

	first := engine.Run(context.Background(), stub, "same-secret")
	second := engine.Run(context.Background(), stub, "same-secret")

	assert.Equal(t, first.Outcome.Status, second.Outcome.Status)
	assert.Equal(t, first.Outcome.Message, second.Outcome.Message)
}

func TestEngine_DefaultTimeout(t *testing.T) {
	engine := NewEngine(0)
	assert.Equal(t, DefaultTimeout, engine.Timeout())
}

func TestEngine_RecordsElapsed(t *testing.T) {
	engine := NewEngine(time.Second)
	stub := &stubChecker{name: "timed", outcome: types.Valid(""), delay: 20 * time.Millisecond}

	record := engine.Run(context.Background(), stub, "s1")

	assert.GreaterOrEqual(t, record.Elapsed, 20*time.Millisecond)
}
