package llm

import (
	"context"
	"fmt"

	"github.com/savoria/tavola/domain/repositories"
)

// MockLanguageModel is a placeholder implementation for keyless
// development and tests.
type MockLanguageModel struct{}

// NewMockLanguageModel creates a new mock language model
func NewMockLanguageModel() repositories.LanguageModel {
	return &MockLanguageModel{}
}

// Ask implements repositories.LanguageModel
func (m *MockLanguageModel) Ask(ctx context.Context, query string, menuContext string) (string, error) {
	if menuContext != "" {
		return fmt.Sprintf("Based on our menu, here is what I can tell you about %q: please ask our staff for details.", query), nil
	}
	return "I'm happy to help with anything on our menu. What would you like to know?", nil
}
