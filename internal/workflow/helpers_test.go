package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/quillhq/quill/internal/generate"
	"github.com/quillhq/quill/internal/search"
)

// genResult is one scripted generation outcome.
type genResult struct {
	text string
	err  error
}

// scriptedGenerator replays generation outcomes in order and records every
// request it receives.
type scriptedGenerator struct {
	mu      sync.Mutex
	results []genResult
	calls   []generate.Request
}

func newScriptedGenerator(results ...genResult) *scriptedGenerator {
	return &scriptedGenerator{results: results}
}

func (g *scriptedGenerator) Generate(ctx context.Context, req generate.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, req)
	if len(g.results) == 0 {
		return "", fmt.Errorf("scripted generator exhausted after %d calls", len(g.calls))
	}
	r := g.results[0]
	g.results = g.results[1:]
	return r.text, r.err
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *scriptedGenerator) requests() []generate.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]generate.Request, len(g.calls))
	copy(out, g.calls)
	return out
}

// staticSearcher returns a fixed result set.
type staticSearcher struct {
	results []search.Result
}

func (s staticSearcher) Search(ctx context.Context, query string) ([]search.Result, error) {
	return s.results, nil
}

// failingSearcher always errors, to exercise degraded planning.
type failingSearcher struct{}

func (failingSearcher) Search(ctx context.Context, query string) ([]search.Result, error) {
	return nil, fmt.Errorf("search unavailable")
}

const validOutline = "# The Post\n## Why it matters\n## How it works\n## Conclusion"

// validDraft passes the draft gate: heading plus enough substance.
var validDraft = "# The Post\n\n" + strings.Repeat("A paragraph of real article content. ", 10)

const validSocial = "Professional post.\n\nCasual post.\n\nQuestion post?"
