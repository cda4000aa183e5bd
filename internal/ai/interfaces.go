package ai

import (
	"context"

	"readmeforge/internal/models"
)

// ReadmeGenerator is the interface for services that turn a compiled prompt
// into README markdown.
type ReadmeGenerator interface {
	// GenerateReadme sends one prompt in a single turn and returns the raw
	// markdown plus whatever usage accounting the provider reported.
	GenerateReadme(ctx context.Context, prompt string) (string, *models.TokenUsage, error)
}
