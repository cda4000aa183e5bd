// Package serve implements the CLI command that runs the readmeforge HTTP
// API with GitHub OAuth sign-in.
package serve

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v3"

	"readmeforge/internal/ai/gemini"
	"readmeforge/internal/config"
	apperrors "readmeforge/internal/errors"
	"readmeforge/internal/i18n"
	"readmeforge/internal/logger"
	"readmeforge/internal/server"
	"readmeforge/internal/session"
	"readmeforge/internal/ui"
)

// RunFunc boots the server with a validated config and blocks until it
// shuts down.
type RunFunc func(ctx context.Context, cfg *config.Config, t *i18n.Translations) error

type ServeCommandFactory struct {
	run RunFunc
}

type Option func(*ServeCommandFactory)

func WithRunFunc(run RunFunc) Option {
	return func(f *ServeCommandFactory) {
		f.run = run
	}
}

func NewServeCommandFactory(opts ...Option) *ServeCommandFactory {
	f := &ServeCommandFactory{
		run: runServer,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *ServeCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  t.GetMessage("serve_command_description", 0, nil),
		Flags:  f.createFlags(t),
		Action: f.createAction(cfg, t),
	}
}

func (f *ServeCommandFactory) createFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   t.GetMessage("flag_addr", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: t.GetMessage("flag_debug", 0, nil),
		},
	}
}

func (f *ServeCommandFactory) createAction(cfg *config.Config, t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		if addr := command.String("addr"); addr != "" {
			host, port, err := splitAddr(addr)
			if err != nil {
				return err
			}
			cfg.Server.Host = host
			cfg.Server.Port = port
		}
		if command.Bool("debug") {
			cfg.Log.Level = "debug"
		}

		if err := cfg.ValidateServe(); err != nil {
			return err
		}

		return f.run(ctx, cfg, t)
	}
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, apperrors.NewAppError(apperrors.TypeConfiguration, "invalid listen address", err).
			WithContext("addr", addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, apperrors.NewAppError(apperrors.TypeConfiguration, "invalid listen address", err).
			WithContext("addr", addr)
	}
	return host, port, nil
}

func runServer(ctx context.Context, cfg *config.Config, t *i18n.Translations) error {
	logger.InitializeServer(cfg.Log.Level)

	secret, err := cfg.SessionSecret()
	if err != nil {
		return err
	}

	store, err := session.NewStore(cfg.Session.DBPath, secret, cfg.Session.TTL)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(ctx, "failed to close session store", err)
		}
	}()

	generator, err := gemini.NewReadmeGeneratorService(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New(cfg, store, generator)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.PrintInfo(t.GetMessage("server_listening", 0, map[string]interface{}{
		"Addr": cfg.ServerAddr(),
	}))

	return srv.Run(ctx)
}
