package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"readmeforge/internal/config"
	apperrors "readmeforge/internal/errors"
	"readmeforge/internal/i18n"
	"readmeforge/internal/models"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) GenerateReadme(ctx context.Context, opts models.GenerationOptions, progress func(models.StageEvent)) (*models.ReadmeResult, error) {
	args := m.Called(ctx, opts, progress)
	if result, ok := args.Get(0).(*models.ReadmeResult); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		GitHub: config.GitHubConfig{Token: "app-token"},
		Gemini: config.GeminiConfig{APIKey: "test-key", Model: "gemini-2.5-flash"},
	}
}

func testTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	translations, err := i18n.NewTranslations("en")
	require.NoError(t, err)
	return translations
}

// newTestCommand wires the command to a mock runner and records the
// owner/repo pair the builder was asked for.
func newTestCommand(t *testing.T, runner *MockRunner) (*cli.Command, *[]string) {
	t.Helper()

	var builds []string
	factory := NewGenerateCommandFactory(WithRunnerBuilder(
		func(ctx context.Context, cfg *config.Config, owner, repo string) (ReadmeRunner, error) {
			builds = append(builds, owner, repo)
			return runner, nil
		},
	))

	return factory.CreateCommand(testTranslations(t), testConfig()), &builds
}

func widgetResult() *models.ReadmeResult {
	return &models.ReadmeResult{
		Content: "# Widget\n\nA widget factory.\n",
		Usage: &models.TokenUsage{
			InputTokens:  120,
			OutputTokens: 80,
			TotalTokens:  200,
			Model:        "gemini-2.5-flash",
		},
	}
}

func TestGenerateCommand(t *testing.T) {
	t.Run("should generate a readme for the flagged repository", func(t *testing.T) {
		runner := new(MockRunner)
		runner.On("GenerateReadme", mock.Anything, mock.Anything, mock.Anything).
			Return(widgetResult(), nil)
		cmd, builds := newTestCommand(t, runner)

		err := cmd.Run(context.Background(), []string{"generate", "--owner", "acme", "--repo", "widget"})

		assert.NoError(t, err)
		assert.Equal(t, []string{"acme", "widget"}, *builds)
		runner.AssertExpectations(t)
	})

	t.Run("should pass the style flags through as generation options", func(t *testing.T) {
		runner := new(MockRunner)
		var gotOpts models.GenerationOptions
		runner.On("GenerateReadme", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				gotOpts = args.Get(1).(models.GenerationOptions)
			}).
			Return(widgetResult(), nil)
		cmd, _ := newTestCommand(t, runner)

		err := cmd.Run(context.Background(), []string{
			"generate",
			"-o", "acme",
			"-r", "widget",
			"--sections", "usage, license",
			"--tone", "minimal",
			"--badge-style", "flat-square",
			"--emoji",
			"--toc",
		})

		require.NoError(t, err)
		assert.Equal(t, []models.SectionChoice{
			{ID: "usage", Enabled: true},
			{ID: "license", Enabled: true},
		}, gotOpts.Sections)
		assert.Equal(t, models.ToneMinimal, gotOpts.Tone)
		assert.Equal(t, models.BadgeFlatSquare, gotOpts.BadgeStyle)
		assert.True(t, gotOpts.Emoji)
		assert.True(t, gotOpts.TOC)
	})

	t.Run("should reject an unknown tone before building anything", func(t *testing.T) {
		runner := new(MockRunner)
		cmd, builds := newTestCommand(t, runner)

		err := cmd.Run(context.Background(), []string{
			"generate", "-o", "acme", "-r", "widget", "--tone", "sarcastic",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidOptions)
		assert.Empty(t, *builds)
		assert.Empty(t, runner.Calls)
	})

	t.Run("should reject an unknown badge style", func(t *testing.T) {
		runner := new(MockRunner)
		cmd, builds := newTestCommand(t, runner)

		err := cmd.Run(context.Background(), []string{
			"generate", "-o", "acme", "-r", "widget", "--badge-style", "neon",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidOptions)
		assert.Empty(t, *builds)
	})

	t.Run("should fail when the owner flag is missing", func(t *testing.T) {
		runner := new(MockRunner)
		cmd, builds := newTestCommand(t, runner)

		err := cmd.Run(context.Background(), []string{"generate", "--repo", "widget"})

		assert.Error(t, err)
		assert.Empty(t, *builds)
	})

	t.Run("should fail without a gemini api key", func(t *testing.T) {
		runner := new(MockRunner)
		var builds []string
		factory := NewGenerateCommandFactory(WithRunnerBuilder(
			func(ctx context.Context, cfg *config.Config, owner, repo string) (ReadmeRunner, error) {
				builds = append(builds, owner, repo)
				return runner, nil
			},
		))
		cfg := testConfig()
		cfg.Gemini.APIKey = ""
		cmd := factory.CreateCommand(testTranslations(t), cfg)

		err := cmd.Run(context.Background(), []string{"generate", "-o", "acme", "-r", "widget"})

		assert.ErrorIs(t, err, apperrors.ErrAPIKeyMissing)
		assert.Empty(t, builds)
	})

	t.Run("should write the readme to the output file", func(t *testing.T) {
		runner := new(MockRunner)
		runner.On("GenerateReadme", mock.Anything, mock.Anything, mock.Anything).
			Return(widgetResult(), nil)
		cmd, _ := newTestCommand(t, runner)
		path := filepath.Join(t.TempDir(), "README.md")

		err := cmd.Run(context.Background(), []string{
			"generate", "-o", "acme", "-r", "widget", "--output", path,
		})

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "# Widget\n\nA widget factory.\n", string(content))
	})

	t.Run("should surface generation failures", func(t *testing.T) {
		runner := new(MockRunner)
		runner.On("GenerateReadme", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrRateLimited.WithContext("retry_in", "12m0s"))
		cmd, _ := newTestCommand(t, runner)

		err := cmd.Run(context.Background(), []string{"generate", "-o", "acme", "-r", "widget"})

		assert.ErrorIs(t, err, apperrors.ErrRateLimited)
	})

	t.Run("should keep going when the language is not supported", func(t *testing.T) {
		runner := new(MockRunner)
		runner.On("GenerateReadme", mock.Anything, mock.Anything, mock.Anything).
			Return(widgetResult(), nil)
		cmd, _ := newTestCommand(t, runner)

		err := cmd.Run(context.Background(), []string{
			"generate", "-o", "acme", "-r", "widget", "--lang", "fr",
		})

		assert.NoError(t, err)
		runner.AssertExpectations(t)
	})

	t.Run("should feed stage events to the spinner without panicking", func(t *testing.T) {
		runner := new(MockRunner)
		runner.On("GenerateReadme", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				progress := args.Get(2).(func(models.StageEvent))
				progress(models.StageEvent{Type: models.StageRepoMetadata})
				progress(models.StageEvent{
					Type: models.StageConfigFiles,
					Data: map[string]interface{}{"count": 3},
				})
				progress(models.StageEvent{Type: models.StageGenerate})
			}).
			Return(widgetResult(), nil)
		cmd, _ := newTestCommand(t, runner)

		err := cmd.Run(context.Background(), []string{"generate", "-o", "acme", "-r", "widget"})

		assert.NoError(t, err)
	})
}

func TestStageMessage(t *testing.T) {
	translations := testTranslations(t)

	t.Run("should pluralize the config file count", func(t *testing.T) {
		one := stageMessage(translations, models.StageEvent{
			Type: models.StageConfigFiles,
			Data: map[string]interface{}{"count": 1},
		})
		many := stageMessage(translations, models.StageEvent{
			Type: models.StageConfigFiles,
			Data: map[string]interface{}{"count": 4},
		})

		assert.Equal(t, "Reading 1 config file...", one)
		assert.Equal(t, "Reading 4 config files...", many)
	})

	t.Run("should fall back to the event message for unknown stages", func(t *testing.T) {
		msg := stageMessage(translations, models.StageEvent{
			Type:    models.StageEventType("mystery"),
			Message: "doing something",
		})

		assert.Equal(t, "doing something", msg)
	})
}
