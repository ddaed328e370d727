package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/quillhq/quill/internal/generate"
	"github.com/quillhq/quill/internal/search"
	"github.com/quillhq/quill/pkg/blackboard"
)

// InputSlot declares one blackboard slot a unit reads. A required input that
// is absent fails the invocation fast; an optional one degrades the context.
type InputSlot struct {
	Slot     blackboard.Slot
	Required bool
}

// Invocation carries the per-call arguments a unit cannot read off the
// blackboard: the run topic, which attempt this is, and a note describing why
// the previous attempt failed so the unit can adapt its next prompt.
type Invocation struct {
	Topic   string
	Attempt int    // 1-based
	Note    string // empty on the first attempt
}

// PromptContext is everything a prompt builder gets to work with.
type PromptContext struct {
	Topic   string
	Inputs  map[blackboard.Slot]string
	Results []search.Result
	Attempt int
	Note    string
}

// PromptFunc renders the system and user prompts for one generation call.
type PromptFunc func(PromptContext) (system, user string)

// Unit is the atomic step of the pipeline: it assembles context from its
// declared input slots, makes exactly one generation attempt, and on success
// writes the result to its single output slot. On any failure it writes
// nothing, so the slot keeps its pre-invocation value.
type Unit struct {
	Name      string
	Inputs    []InputSlot
	Output    blackboard.Slot
	Tier      generate.Tier
	MaxTokens int64

	Generator generate.Generator
	Searcher  search.Searcher // nil disables search augmentation
	Prompt    PromptFunc
}

// Execute runs one invocation of the unit against the blackboard.
func (u *Unit) Execute(ctx context.Context, store blackboard.Store, inv Invocation) error {
	snap, err := store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("unit %s: failed to snapshot blackboard: %w", u.Name, err)
	}

	inputs := make(map[blackboard.Slot]string, len(u.Inputs))
	for _, in := range u.Inputs {
		value, ok := snap[in.Slot]
		if !ok {
			if in.Required {
				return fmt.Errorf("unit %s: required input %q is not set", u.Name, in.Slot)
			}
			continue
		}
		inputs[in.Slot] = value
	}

	var results []search.Result
	if u.Searcher != nil {
		// Research augmentation is best-effort: a failed search degrades
		// the context rather than failing the invocation.
		results, _ = u.Searcher.Search(ctx, inv.Topic)
	}

	system, prompt := u.Prompt(PromptContext{
		Topic:   inv.Topic,
		Inputs:  inputs,
		Results: results,
		Attempt: inv.Attempt,
		Note:    inv.Note,
	})

	text, err := u.Generator.Generate(ctx, generate.Request{
		Tier:      u.Tier,
		System:    system,
		Prompt:    prompt,
		MaxTokens: u.MaxTokens,
	})
	if err != nil {
		return fmt.Errorf("unit %s: %w: %v", u.Name, ErrGenerationFailed, err)
	}

	// A result arriving after the phase was cancelled is discarded.
	if ctx.Err() != nil {
		return fmt.Errorf("unit %s: %w: %v", u.Name, ErrGenerationFailed, ctx.Err())
	}

	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("unit %s: %w", u.Name, ErrEmptyOutput)
	}

	if err := store.Write(ctx, u.Output, text, u.Name); err != nil {
		return fmt.Errorf("unit %s: failed to write output: %w", u.Name, err)
	}
	return nil
}
