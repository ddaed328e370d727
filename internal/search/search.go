// Package search provides the optional web-search capability used to augment
// outline planning with background research.
package search

import "context"

// Result is one ranked search result.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Searcher is the search capability contract. A failed search is reported as
// an error; callers degrade gracefully rather than aborting.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Disabled is a Searcher that always returns no results. Used when search
// augmentation is switched off.
type Disabled struct{}

// Search returns an empty result set.
func (Disabled) Search(ctx context.Context, query string) ([]Result, error) {
	return nil, nil
}
