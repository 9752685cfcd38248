package repositories

import "context"

// LanguageModel abstracts the generative model used when no menu rule
// answers a query directly.
type LanguageModel interface {
	// Ask sends the user question together with a menu-derived context
	// block and returns the model's trimmed text response.
	Ask(ctx context.Context, query string, menuContext string) (string, error)
}
