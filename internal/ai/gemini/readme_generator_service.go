package gemini

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"google.golang.org/genai"

	"readmeforge/internal/ai"
	"readmeforge/internal/config"
	domainErrors "readmeforge/internal/errors"
	"readmeforge/internal/logger"
	"readmeforge/internal/models"
	"readmeforge/internal/regex"
)

var _ ai.ReadmeGenerator = (*ReadmeGeneratorService)(nil)

const (
	// maxPromptChars bounds the compiled prompt before anything is sent to
	// the provider. Snapshots are capped upstream, so hitting this means a
	// caller bypassed the aggregator.
	maxPromptChars = 100_000

	maxOutputTokens       = 8192
	generationTemperature = 0.3
)

type generateFunc func(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error)

// ReadmeGeneratorService sends one compiled prompt to Gemini in a single
// turn and hands back the markdown it produced.
type ReadmeGeneratorService struct {
	client     *genai.Client
	model      string
	generateFn generateFunc
}

func NewReadmeGeneratorService(ctx context.Context, cfg *config.Config) (*ReadmeGeneratorService, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, classifyError(err)
	}

	service := &ReadmeGeneratorService{
		client: client,
		model:  cfg.Gemini.Model,
	}
	service.generateFn = service.defaultGenerate
	return service, nil
}

func (s *ReadmeGeneratorService) defaultGenerate(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error) {
	return s.client.Models.GenerateContent(ctx, model, genai.Text(prompt), generateConfig())
}

func generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     float32Ptr(generationTemperature),
		MaxOutputTokens: int32(maxOutputTokens),
	}
}

func (s *ReadmeGeneratorService) GenerateReadme(ctx context.Context, prompt string) (string, *models.TokenUsage, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(prompt) == "" {
		return "", nil, domainErrors.ErrEmptyPrompt
	}
	if chars := utf8.RuneCountInString(prompt); chars >= maxPromptChars {
		return "", nil, domainErrors.ErrPromptTooLarge.
			WithContext("prompt_chars", chars).
			WithContext("max_chars", maxPromptChars)
	}

	log.Debug("calling gemini",
		"model", s.model,
		"prompt_chars", utf8.RuneCountInString(prompt))

	start := time.Now()
	resp, err := s.generateFn(ctx, s.model, prompt)
	if err != nil {
		log.Error("gemini call failed", "error", err.Error(), "model", s.model)
		return "", nil, classifyError(err)
	}

	usage := extractUsage(resp)
	if usage != nil {
		usage.Model = s.model
		usage.DurationMs = time.Since(start).Milliseconds()
	}

	readme := stripOuterFence(extractText(resp))
	if strings.TrimSpace(readme) == "" {
		log.Warn("gemini returned no text", "model", s.model)
		return "", usage, domainErrors.ErrEmptyGeneration.WithContext("model", s.model)
	}

	log.Info("readme generated",
		"model", s.model,
		"readme_chars", utf8.RuneCountInString(readme))
	return readme, usage, nil
}

// classifyError maps a provider error onto the domain taxonomy. The raw
// message can embed the request URL including the API key, so it is
// redacted before it travels any further.
func classifyError(err error) error {
	redacted := errors.New(regex.Redact(err.Error()))
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "quota"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "resource exhausted"),
		strings.Contains(msg, "429"):
		return domainErrors.ErrGeminiQuotaExceeded.WithError(redacted)
	case strings.Contains(msg, "api key"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "unauthenticated"),
		strings.Contains(msg, "permission"),
		strings.Contains(msg, "401"),
		strings.Contains(msg, "403"):
		return domainErrors.ErrGeminiAPIKeyInvalid.WithError(redacted)
	case strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "overloaded"),
		strings.Contains(msg, "deadline"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "internal"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "500"):
		return domainErrors.ErrAIUnavailable.WithError(redacted)
	}
	return domainErrors.ErrAIGeneration.WithError(redacted)
}
