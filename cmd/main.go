package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"readmeforge/internal/commands/generate"
	"readmeforge/internal/commands/registry"
	"readmeforge/internal/commands/serve"
	cfg "readmeforge/internal/config"
	"readmeforge/internal/i18n"
	"readmeforge/internal/services"
	"readmeforge/internal/ui"
	"readmeforge/internal/version"
)

func main() {
	app, translations, err := initializeApp()
	if err != nil {
		log.Fatalf("failed to start readmeforge: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.StopActiveSpinner()
		ui.HandleAppError(err, translations)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	cfgApp, err := cfg.Load(".env")
	if err != nil {
		return nil, nil, err
	}

	translations, err := i18n.NewTranslations("en")
	if err != nil {
		return nil, nil, fmt.Errorf("loading translations: %w", err)
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)

	if err := registerCommand.Register("generate", generate.NewGenerateCommandFactory()); err != nil {
		return nil, nil, err
	}

	if err := registerCommand.Register("serve", serve.NewServeCommandFactory()); err != nil {
		return nil, nil, err
	}

	commands := registerCommand.CreateCommands()

	helpCommand := &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   translations.GetMessage("help_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	}
	commands = append(commands, helpCommand)

	go func() {
		checker := services.NewUpdateChecker(version.FullVersion(), translations)
		checker.CheckForUpdates(context.Background())
	}()

	return &cli.Command{
		Name:                  "readmeforge",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.Version,
		Description:           translations.GetMessage("app_description", 0, nil),
		Commands:              commands,
		EnableShellCompletion: true,
	}, translations, nil
}
