package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/pkg/blackboard"
)

func newOutlineLoop(gen *scriptedGenerator, maxIterations int) *RetryLoop {
	return &RetryLoop{
		Unit:          NewOutlineUnit(gen, nil),
		Gate:          OutlineGate(),
		MaxIterations: maxIterations,
	}
}

func TestRetryLoopSucceedsOnFinalAttempt(t *testing.T) {
	// Attempts 1 and 2 produce nothing usable; attempt 3 passes the gate.
	gen := newScriptedGenerator(
		genResult{text: ""},
		genResult{err: fmt.Errorf("rate limited")},
		genResult{text: validOutline},
	)
	store := blackboard.NewMemoryStore()
	ctx := context.Background()

	outcome := newOutlineLoop(gen, 3).Run(ctx, store, "topic")

	assert.Equal(t, StatusSucceeded, outcome.Status)
	assert.Equal(t, 3, outcome.Iterations)
	assert.Equal(t, 3, gen.callCount())

	// Exactly one write landed in the outline slot.
	history, err := store.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, blackboard.SlotOutline, history[0].Slot)
	assert.Equal(t, validOutline, history[0].Value)
}

func TestRetryLoopExhausts(t *testing.T) {
	gen := newScriptedGenerator(
		genResult{text: ""},
		genResult{text: ""},
		genResult{text: ""},
	)
	store := blackboard.NewMemoryStore()
	ctx := context.Background()

	outcome := newOutlineLoop(gen, 3).Run(ctx, store, "topic")

	assert.Equal(t, StatusExhausted, outcome.Status)
	assert.Equal(t, 3, outcome.Iterations)
	assert.Equal(t, 3, gen.callCount(), "iteration count must not exceed the bound")
	require.Error(t, outcome.LastErr)
	assert.Equal(t, KindLoopExhausted, KindOf(outcome.LastErr))

	// The slot was never written.
	_, err := store.Read(ctx, blackboard.SlotOutline)
	assert.True(t, blackboard.IsNotFound(err))
}

func TestRetryLoopStopsAtFirstSuccess(t *testing.T) {
	gen := newScriptedGenerator(genResult{text: validOutline})
	store := blackboard.NewMemoryStore()

	outcome := newOutlineLoop(gen, 3).Run(context.Background(), store, "topic")

	assert.Equal(t, StatusSucceeded, outcome.Status)
	assert.Equal(t, 1, outcome.Iterations)
	assert.Equal(t, 1, gen.callCount())
}

func TestRetryLoopGateFailureFeedsNextPrompt(t *testing.T) {
	// First output is written but malformed; second passes.
	gen := newScriptedGenerator(
		genResult{text: "outline without any heading"},
		genResult{text: validOutline},
	)
	store := blackboard.NewMemoryStore()

	outcome := newOutlineLoop(gen, 3).Run(context.Background(), store, "topic")

	assert.Equal(t, StatusSucceeded, outcome.Status)
	assert.Equal(t, 2, outcome.Iterations)

	reqs := gen.requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[1].Prompt, "did not pass the outline-check validation")
}

func TestRetryLoopWriteBound(t *testing.T) {
	// Every attempt writes malformed output: mutations of the loop's own
	// slot never exceed MaxIterations.
	gen := newScriptedGenerator(
		genResult{text: "no heading 1"},
		genResult{text: "no heading 2"},
		genResult{text: "no heading 3"},
	)
	store := blackboard.NewMemoryStore()
	ctx := context.Background()

	outcome := newOutlineLoop(gen, 3).Run(ctx, store, "topic")
	assert.Equal(t, StatusExhausted, outcome.Status)

	history, err := store.History(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(history), 3)
}

func TestRetryLoopCancelledContext(t *testing.T) {
	gen := newScriptedGenerator(genResult{text: validOutline})
	store := blackboard.NewMemoryStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := newOutlineLoop(gen, 3).Run(ctx, store, "topic")

	assert.Equal(t, StatusExhausted, outcome.Status)
	assert.Equal(t, 0, gen.callCount(), "no generation after cancellation")
}
