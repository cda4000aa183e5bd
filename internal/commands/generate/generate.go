// Package generate implements the CLI command that inspects a GitHub
// repository and writes a generated README to stdout or a file.
package generate

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"readmeforge/internal/ai/gemini"
	"readmeforge/internal/config"
	apperrors "readmeforge/internal/errors"
	"readmeforge/internal/i18n"
	"readmeforge/internal/logger"
	"readmeforge/internal/models"
	"readmeforge/internal/services"
	"readmeforge/internal/ui"
	githubvcs "readmeforge/internal/vcs/github"
)

// ReadmeRunner is the slice of the readme service the command needs.
type ReadmeRunner interface {
	GenerateReadme(ctx context.Context, opts models.GenerationOptions, progress func(models.StageEvent)) (*models.ReadmeResult, error)
}

// RunnerBuilder assembles the VCS client, aggregator and model provider for
// one repository. The command builds it late because owner and repo only
// exist once flags are parsed.
type RunnerBuilder func(ctx context.Context, cfg *config.Config, owner, repo string) (ReadmeRunner, error)

type GenerateCommandFactory struct {
	buildRunner RunnerBuilder
}

type Option func(*GenerateCommandFactory)

func WithRunnerBuilder(build RunnerBuilder) Option {
	return func(f *GenerateCommandFactory) {
		f.buildRunner = build
	}
}

func NewGenerateCommandFactory(opts ...Option) *GenerateCommandFactory {
	f := &GenerateCommandFactory{
		buildRunner: defaultRunnerBuilder,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func defaultRunnerBuilder(ctx context.Context, cfg *config.Config, owner, repo string) (ReadmeRunner, error) {
	generator, err := gemini.NewReadmeGeneratorService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := githubvcs.NewClient(owner, repo, cfg.GitHub.Token)
	aggregator := services.NewAggregatorService(services.WithAggregatorVCSClient(client))

	return services.NewReadmeService(
		services.WithReadmeAggregator(aggregator),
		services.WithReadmeAIProvider(generator),
	), nil
}

func (f *GenerateCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   t.GetMessage("generate_command_description", 0, nil),
		Flags:   f.createFlags(t),
		Action:  f.createAction(cfg, t),
	}
}

func (f *GenerateCommandFactory) createFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "owner",
			Aliases:  []string{"o"},
			Required: true,
			Usage:    t.GetMessage("flag_owner", 0, nil),
		},
		&cli.StringFlag{
			Name:     "repo",
			Aliases:  []string{"r"},
			Required: true,
			Usage:    t.GetMessage("flag_repo", 0, nil),
		},
		&cli.StringFlag{
			Name:    "sections",
			Aliases: []string{"s"},
			Usage:   t.GetMessage("flag_sections", 0, nil),
		},
		&cli.StringFlag{
			Name:  "tone",
			Usage: t.GetMessage("flag_tone", 0, nil),
		},
		&cli.StringFlag{
			Name:  "badge-style",
			Usage: t.GetMessage("flag_badge_style", 0, nil),
		},
		&cli.BoolFlag{
			Name:    "emoji",
			Aliases: []string{"e"},
			Usage:   t.GetMessage("flag_emoji", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "toc",
			Usage: t.GetMessage("flag_toc", 0, nil),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"f"},
			Usage:   t.GetMessage("flag_output", 0, nil),
		},
		&cli.StringFlag{
			Name:    "lang",
			Aliases: []string{"l"},
			Usage:   t.GetMessage("flag_lang", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: t.GetMessage("flag_debug", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: t.GetMessage("flag_verbose", 0, nil),
		},
	}
}

func (f *GenerateCommandFactory) createAction(cfg *config.Config, t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		logger.Initialize(command.Bool("debug"), command.Bool("verbose"))

		if lang := command.String("lang"); lang != "" {
			if err := t.SetLanguage(lang); err != nil {
				ui.PrintWarning(err.Error())
			}
		}

		if err := cfg.ValidateGenerate(); err != nil {
			return err
		}

		opts, err := parseOptions(command)
		if err != nil {
			return err
		}

		runner, err := f.buildRunner(ctx, cfg, command.String("owner"), command.String("repo"))
		if err != nil {
			return err
		}

		spin := ui.NewSmartSpinner(t.GetMessage("stage_repo_metadata", 0, nil))
		spin.Start()
		defer ui.StopActiveSpinner()

		start := time.Now()
		result, err := runner.GenerateReadme(ctx, opts, func(event models.StageEvent) {
			spin.UpdateMessage(stageMessage(t, event))
		})
		spin.Stop()
		if err != nil {
			return err
		}

		ui.PrintDuration(t.GetMessage("readme_generated", 0, nil), time.Since(start))
		ui.PrintTokenUsage(result.Usage, t)

		if path := command.String("output"); path != "" {
			if err := os.WriteFile(path, []byte(result.Content), 0o644); err != nil {
				return fmt.Errorf("writing readme to %s: %w", path, err)
			}
			ui.PrintSuccess(os.Stdout, t.GetMessage("readme_saved", 0, map[string]interface{}{
				"Path": path,
			}))
			return nil
		}

		fmt.Println(result.Content)
		return nil
	}
}

// parseOptions turns the style flags into generation options. Unknown tones
// and badge styles are rejected here so the user sees the mistake instead of
// silently getting defaults.
func parseOptions(command *cli.Command) (models.GenerationOptions, error) {
	opts := models.GenerationOptions{
		Tone:       models.Tone(command.String("tone")),
		BadgeStyle: models.BadgeStyle(command.String("badge-style")),
		Emoji:      command.Bool("emoji"),
		TOC:        command.Bool("toc"),
	}

	if opts.Tone != "" && !opts.Tone.Valid() {
		return models.GenerationOptions{}, apperrors.ErrInvalidOptions.
			WithContext("tone", string(opts.Tone))
	}
	if opts.BadgeStyle != "" && !opts.BadgeStyle.Valid() {
		return models.GenerationOptions{}, apperrors.ErrInvalidOptions.
			WithContext("badge_style", string(opts.BadgeStyle))
	}

	for _, id := range strings.Split(command.String("sections"), ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		opts.Sections = append(opts.Sections, models.SectionChoice{ID: id, Enabled: true})
	}

	return opts, nil
}

func stageMessage(t *i18n.Translations, event models.StageEvent) string {
	switch event.Type {
	case models.StageRepoMetadata:
		return t.GetMessage("stage_repo_metadata", 0, nil)
	case models.StageLanguages:
		return t.GetMessage("stage_languages", 0, nil)
	case models.StageFileTree:
		return t.GetMessage("stage_file_tree", 0, nil)
	case models.StageConfigFiles:
		count, _ := event.Data["count"].(int)
		return t.GetMessage("stage_config_files", count, map[string]interface{}{
			"Count": count,
		})
	case models.StageAssemble:
		return t.GetMessage("stage_assemble", 0, nil)
	case models.StageGenerate:
		return t.GetMessage("generating_readme", 0, nil)
	}
	return event.Message
}
