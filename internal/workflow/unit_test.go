package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/generate"
	"github.com/quillhq/quill/internal/search"
	"github.com/quillhq/quill/pkg/blackboard"
)

func TestUnitExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("writes output on success", func(t *testing.T) {
		store := blackboard.NewMemoryStore()
		gen := newScriptedGenerator(genResult{text: validOutline})
		unit := NewOutlineUnit(gen, nil)

		require.NoError(t, unit.Execute(ctx, store, Invocation{Topic: "testing in Go", Attempt: 1}))

		value, err := store.Read(ctx, blackboard.SlotOutline)
		require.NoError(t, err)
		assert.Equal(t, validOutline, value)
	})

	t.Run("generation failure leaves slot untouched", func(t *testing.T) {
		store := blackboard.NewMemoryStore()
		require.NoError(t, store.Write(ctx, blackboard.SlotOutline, "previous value", "test"))

		gen := newScriptedGenerator(genResult{err: fmt.Errorf("rate limited")})
		unit := NewOutlineUnit(gen, nil)

		err := unit.Execute(ctx, store, Invocation{Topic: "t", Attempt: 1})
		require.Error(t, err)
		assert.Equal(t, KindGenerationFailed, KindOf(err))

		value, rerr := store.Read(ctx, blackboard.SlotOutline)
		require.NoError(t, rerr)
		assert.Equal(t, "previous value", value, "failed invocation must not mutate the slot")
	})

	t.Run("blank generation is EmptyOutput and non-mutating", func(t *testing.T) {
		store := blackboard.NewMemoryStore()
		gen := newScriptedGenerator(genResult{text: "   \n"})
		unit := NewOutlineUnit(gen, nil)

		err := unit.Execute(ctx, store, Invocation{Topic: "t", Attempt: 1})
		require.Error(t, err)
		assert.Equal(t, KindEmptyOutput, KindOf(err))

		_, rerr := store.Read(ctx, blackboard.SlotOutline)
		assert.True(t, blackboard.IsNotFound(rerr))
	})

	t.Run("required input missing fails fast without a generation call", func(t *testing.T) {
		store := blackboard.NewMemoryStore()
		gen := newScriptedGenerator()
		unit := NewDraftUnit(gen)

		err := unit.Execute(ctx, store, Invocation{Topic: "t", Attempt: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required input")
		assert.Equal(t, 0, gen.callCount())
	})

	t.Run("optional input degrades instead of failing", func(t *testing.T) {
		store := blackboard.NewMemoryStore()
		gen := newScriptedGenerator(genResult{text: validOutline})
		unit := NewOutlineUnit(gen, nil)

		// No codebase_context, no user_feedback: still proceeds.
		require.NoError(t, unit.Execute(ctx, store, Invocation{Topic: "t", Attempt: 1}))
	})

	t.Run("search failure degrades instead of failing", func(t *testing.T) {
		store := blackboard.NewMemoryStore()
		gen := newScriptedGenerator(genResult{text: validOutline})
		unit := NewOutlineUnit(gen, failingSearcher{})

		require.NoError(t, unit.Execute(ctx, store, Invocation{Topic: "t", Attempt: 1}))
	})

	t.Run("search results reach the prompt", func(t *testing.T) {
		store := blackboard.NewMemoryStore()
		gen := newScriptedGenerator(genResult{text: validOutline})
		unit := NewOutlineUnit(gen, staticSearcher{results: []search.Result{
			{Title: "Go", URL: "https://example.com", Snippet: "research nugget"},
		}})

		require.NoError(t, unit.Execute(ctx, store, Invocation{Topic: "t", Attempt: 1}))

		reqs := gen.requests()
		require.Len(t, reqs, 1)
		assert.Contains(t, reqs[0].Prompt, "research nugget")
	})

	t.Run("units run on their declared tier", func(t *testing.T) {
		store := blackboard.NewMemoryStore()
		require.NoError(t, store.Write(ctx, blackboard.SlotOutline, validOutline, "test"))

		gen := newScriptedGenerator(genResult{text: validOutline}, genResult{text: validDraft})
		require.NoError(t, NewOutlineUnit(gen, nil).Execute(ctx, store, Invocation{Topic: "t", Attempt: 1}))
		require.NoError(t, NewDraftUnit(gen).Execute(ctx, store, Invocation{Topic: "t", Attempt: 1}))

		reqs := gen.requests()
		require.Len(t, reqs, 2)
		assert.Equal(t, generate.TierFast, reqs[0].Tier)
		assert.Equal(t, generate.TierQuality, reqs[1].Tier)
	})

	t.Run("failure note from prior attempt reaches the prompt", func(t *testing.T) {
		store := blackboard.NewMemoryStore()
		gen := newScriptedGenerator(genResult{text: validOutline})
		unit := NewOutlineUnit(gen, nil)

		require.NoError(t, unit.Execute(ctx, store, Invocation{
			Topic:   "t",
			Attempt: 2,
			Note:    "previous attempt had no headings",
		}))

		reqs := gen.requests()
		require.Len(t, reqs, 1)
		assert.Contains(t, reqs[0].Prompt, "previous attempt had no headings")
		assert.Contains(t, reqs[0].Prompt, "attempt 2")
	})
}
