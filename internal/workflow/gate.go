package workflow

import (
	"context"
	"strings"

	"github.com/quillhq/quill/pkg/blackboard"
)

// Predicate judges whether a slot value is well-formed.
type Predicate func(value string) bool

// NonEmpty passes when the value contains any non-whitespace content.
func NonEmpty() Predicate {
	return func(value string) bool {
		return strings.TrimSpace(value) != ""
	}
}

// HasHeading passes when at least one line is a markdown heading.
func HasHeading() Predicate {
	return func(value string) bool {
		for _, line := range strings.Split(value, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "#") {
				return true
			}
		}
		return false
	}
}

// MinLength passes when the trimmed value has at least n characters.
func MinLength(n int) Predicate {
	return func(value string) bool {
		return len(strings.TrimSpace(value)) >= n
	}
}

// All combines predicates; every one must pass.
func All(predicates ...Predicate) Predicate {
	return func(value string) bool {
		for _, p := range predicates {
			if !p(value) {
				return false
			}
		}
		return true
	}
}

// Gate is a pure pass/fail check over the blackboard: it inspects one slot
// through a snapshot and never mutates anything. A missing slot is simply a
// fail, never an error.
type Gate struct {
	Name      string
	Slot      blackboard.Slot
	Predicate Predicate
}

// Check reports whether the gate's slot is present and well-formed.
// Deterministic given the same blackboard state.
func (g Gate) Check(ctx context.Context, store blackboard.Store) bool {
	snap, err := store.Snapshot(ctx)
	if err != nil {
		return false
	}
	value, ok := snap[g.Slot]
	if !ok {
		return false
	}
	return g.Predicate(value)
}

// OutlineGate validates the outline slot: non-empty with at least one
// markdown heading.
func OutlineGate() Gate {
	return Gate{
		Name:      "outline-check",
		Slot:      blackboard.SlotOutline,
		Predicate: All(NonEmpty(), HasHeading()),
	}
}

// DraftGate validates the draft slot: non-empty, a minimum of substance,
// and at least one heading.
func DraftGate() Gate {
	return Gate{
		Name:      "draft-check",
		Slot:      blackboard.SlotPost,
		Predicate: All(NonEmpty(), MinLength(200), HasHeading()),
	}
}
