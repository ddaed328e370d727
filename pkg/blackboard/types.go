package blackboard

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Slot identifies a named location on the blackboard. Slots are pre-declared:
// every artifact the pipeline produces lands in exactly one of these.
type Slot string

const (
	// SlotCodebaseContext holds the codebase summary produced during Init.
	// Optional: the pipeline degrades gracefully when it is absent.
	SlotCodebaseContext Slot = "codebase_context"

	// SlotOutline holds the validated article outline.
	SlotOutline Slot = "blog_outline"

	// SlotPost holds the article draft, rewritten in place by each revision.
	SlotPost Slot = "blog_post"

	// SlotSocialPosts holds the derived promotional content.
	SlotSocialPosts Slot = "social_media_posts"

	// SlotUserFeedback holds the most recent human revision request.
	SlotUserFeedback Slot = "user_feedback"
)

// Slots lists every declared slot, in pipeline order.
func Slots() []Slot {
	return []Slot{SlotCodebaseContext, SlotOutline, SlotPost, SlotSocialPosts, SlotUserFeedback}
}

// Validate checks that the slot is one of the declared keys.
func (s Slot) Validate() error {
	switch s {
	case SlotCodebaseContext, SlotOutline, SlotPost, SlotSocialPosts, SlotUserFeedback:
		return nil
	default:
		return fmt.Errorf("unknown slot: %q", s)
	}
}

// Entry is one record in the blackboard's append-only write history.
type Entry struct {
	ID        string    `json:"id"`         // UUID - unique identifier for this write
	Slot      Slot      `json:"slot"`       // Slot that was written
	Value     string    `json:"value"`      // Full value as written
	Writer    string    `json:"writer"`     // Component that performed the write (unit name or tool)
	Timestamp time.Time `json:"timestamp"`  // When the write happened
}

// ErrNotFound is returned by Read for a slot that has never been written.
// Callers must branch on it with IsNotFound; absence is not exceptional.
var ErrNotFound = errors.New("blackboard: slot not set")

// Store is the blackboard contract. A Write is an atomic replacement of the
// slot's current value (last write wins); a Read never fails for absence but
// returns ErrNotFound; Snapshot returns an independent copy of the current
// slots so validation can observe a consistent state.
type Store interface {
	Write(ctx context.Context, slot Slot, value, writer string) error
	Read(ctx context.Context, slot Slot) (string, error)
	Snapshot(ctx context.Context) (map[Slot]string, error)
	History(ctx context.Context) ([]Entry, error)
	Close() error
}

// IsNotFound reports whether err signals an unwritten slot.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
