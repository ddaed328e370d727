// Package generate wraps the external text-generation capability behind a
// small interface so the orchestration core never touches an SDK directly.
package generate

import (
	"context"
	"fmt"
)

// Tier selects which underlying model handles a request. Planning work runs
// on the fast tier; drafting, editing and promotional writing on quality.
type Tier string

const (
	TierFast    Tier = "fast"
	TierQuality Tier = "quality"
)

// Validate checks that the tier is a recognized value.
func (t Tier) Validate() error {
	switch t {
	case TierFast, TierQuality:
		return nil
	default:
		return fmt.Errorf("unknown model tier: %q", t)
	}
}

// Request describes a single generation call.
type Request struct {
	Tier      Tier
	System    string // system prompt, may be empty
	Prompt    string // user prompt, required
	MaxTokens int64  // 0 means the adapter's default
}

// Generator is the opaque generation capability: given a prompt and context,
// it returns text or fails. Implementations make exactly one logical attempt
// per call (transport-level retries for rate limits are an adapter concern
// and invisible to callers).
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
