package services

import (
	"context"

	"readmeforge/internal/logger"
	"readmeforge/internal/markdown"
	"readmeforge/internal/models"
	"readmeforge/internal/prompt"
)

// snapshotAggregator abstracts the aggregation pipeline for the README flow.
type snapshotAggregator interface {
	Aggregate(ctx context.Context, progress func(models.StageEvent)) (*models.RepositorySnapshot, error)
}

// readmeAIProvider defines what the README flow needs from an AI provider.
type readmeAIProvider interface {
	GenerateReadme(ctx context.Context, prompt string) (string, *models.TokenUsage, error)
}

// ReadmeService runs the whole generation flow: snapshot, prompt
// compilation, model call, anchor repair.
type ReadmeService struct {
	aggregator snapshotAggregator
	aiService  readmeAIProvider
	slugPolicy markdown.SlugPolicy
}

type ReadmeOption func(*ReadmeService)

func WithReadmeAggregator(aggregator snapshotAggregator) ReadmeOption {
	return func(s *ReadmeService) {
		s.aggregator = aggregator
	}
}

func WithReadmeAIProvider(provider readmeAIProvider) ReadmeOption {
	return func(s *ReadmeService) {
		s.aiService = provider
	}
}

func WithSlugPolicy(policy markdown.SlugPolicy) ReadmeOption {
	return func(s *ReadmeService) {
		s.slugPolicy = policy
	}
}

func NewReadmeService(opts ...ReadmeOption) *ReadmeService {
	s := &ReadmeService{
		slugPolicy: markdown.DefaultPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateReadme produces a README for the configured repository. Style
// options the compiler does not know fall back to defaults rather than
// failing the run.
func (s *ReadmeService) GenerateReadme(ctx context.Context, opts models.GenerationOptions, progress func(models.StageEvent)) (*models.ReadmeResult, error) {
	log := logger.FromContext(ctx)

	normalized, valid := opts.Normalize()
	if !valid {
		log.Warn("unknown style options, compiler will use defaults",
			"tone", string(opts.Tone),
			"badge_style", string(opts.BadgeStyle))
	}

	snapshot, err := s.aggregator.Aggregate(ctx, progress)
	if err != nil {
		return nil, err
	}

	compiled, err := prompt.Compile(snapshot, normalized)
	if err != nil {
		return nil, err
	}

	if progress != nil {
		progress(models.StageEvent{
			Type:    models.StageGenerate,
			Message: "generating readme",
		})
	}

	readme, usage, err := s.aiService.GenerateReadme(ctx, compiled)
	if err != nil {
		return nil, err
	}

	rewritten := 0
	if normalized.TOC {
		readme, rewritten = markdown.Repair(readme, s.slugPolicy)
		if rewritten > 0 {
			log.Debug("rewrote toc anchors", "count", rewritten)
		}
	}

	log.Info("readme generated",
		"full_name", snapshot.FullName,
		"anchors_rewritten", rewritten)

	return &models.ReadmeResult{
		Content:          readme,
		Snapshot:         snapshot,
		Usage:            usage,
		AnchorsRewritten: rewritten,
	}, nil
}
