package workflow

import (
	"context"
	"fmt"

	"github.com/quillhq/quill/pkg/blackboard"
)

// Status is the terminal state of a retry loop.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusExhausted Status = "exhausted"
)

// Outcome reports how a retry loop ended.
type Outcome struct {
	Status     Status
	Iterations int   // unit invocations performed
	LastErr    error // failure from the final attempt when exhausted
}

// RetryLoop composes one unit with one gate, re-invoking the unit until the
// gate passes or MaxIterations attempts are spent. The bound guarantees
// termination despite the non-deterministic generation capability. Exhaustion
// is a recoverable outcome for the caller, not a fatal error.
type RetryLoop struct {
	Unit          *Unit
	Gate          Gate
	MaxIterations int
	Observer      Observer
}

// Run drives the loop to a terminal status. Each failed attempt feeds a note
// into the next invocation so the unit can adapt its prompt.
func (l *RetryLoop) Run(ctx context.Context, store blackboard.Store, topic string) Outcome {
	obs := l.Observer
	if obs == nil {
		obs = NopObserver{}
	}

	var lastErr error
	note := ""

	for i := 1; i <= l.MaxIterations; i++ {
		if ctx.Err() != nil {
			lastErr = fmt.Errorf("%w: %v", ErrGenerationFailed, ctx.Err())
			return Outcome{Status: StatusExhausted, Iterations: i - 1, LastErr: lastErr}
		}

		err := l.Unit.Execute(ctx, store, Invocation{Topic: topic, Attempt: i, Note: note})
		if err != nil {
			lastErr = err
			note = err.Error()
			obs.Event("attempt_failed", map[string]any{
				"unit":    l.Unit.Name,
				"attempt": i,
				"kind":    string(KindOf(err)),
				"error":   err.Error(),
			})
			continue
		}

		if l.Gate.Check(ctx, store) {
			obs.Event("loop_succeeded", map[string]any{
				"unit":       l.Unit.Name,
				"iterations": i,
			})
			return Outcome{Status: StatusSucceeded, Iterations: i}
		}

		lastErr = fmt.Errorf("unit %s: %w: failed %s", l.Unit.Name, ErrMalformedOutput, l.Gate.Name)
		note = fmt.Sprintf("The previous attempt did not pass the %s validation. Fix the structure and try again.", l.Gate.Name)
		obs.Event("attempt_failed", map[string]any{
			"unit":    l.Unit.Name,
			"attempt": i,
			"kind":    string(KindMalformedOutput),
			"gate":    l.Gate.Name,
		})
	}

	obs.Event("loop_exhausted", map[string]any{
		"unit":       l.Unit.Name,
		"iterations": l.MaxIterations,
	})
	return Outcome{
		Status:     StatusExhausted,
		Iterations: l.MaxIterations,
		LastErr:    fmt.Errorf("%w: unit %s after %d attempts: %v", ErrLoopExhausted, l.Unit.Name, l.MaxIterations, lastErr),
	}
}
