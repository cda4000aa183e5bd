// Package server exposes the README generation flow over HTTP. Browsers
// authenticate through the GitHub OAuth dance, anonymous callers fall back
// to the shared app token for read-only generation.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"

	"readmeforge/internal/ai"
	"readmeforge/internal/config"
	"readmeforge/internal/logger"
	"readmeforge/internal/models"
	"readmeforge/internal/services"
	"readmeforge/internal/session"
	githubvcs "readmeforge/internal/vcs/github"
)

const (
	readTimeout          = 15 * time.Second
	idleTimeout          = time.Minute
	sessionSweepInterval = time.Hour
)

// sessionStore is the slice of session.Store the server depends on.
type sessionStore interface {
	Create(ctx context.Context, login, token string) (*session.Session, error)
	Lookup(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// readmeGenerator runs one full generation for a repository.
type readmeGenerator interface {
	GenerateReadme(ctx context.Context, opts models.GenerationOptions, progress func(models.StageEvent)) (*models.ReadmeResult, error)
}

// pullRequestOpener proposes a generated README as a pull request.
type pullRequestOpener interface {
	OpenPullRequest(ctx context.Context, readme, base string) (*models.PullRequestResult, error)
}

// Server owns the fiber app and the per-request service wiring.
type Server struct {
	cfg       *config.Config
	app       *fiber.App
	sessions  sessionStore
	ai        ai.ReadmeGenerator
	oauth     *oauth2.Config
	appLimits *githubvcs.RateLimitState

	newGenerator func(owner, repo, token string) readmeGenerator
	newPROpener  func(owner, repo, token string) pullRequestOpener
	exchangeCode func(ctx context.Context, code string) (string, error)
	fetchLogin   func(ctx context.Context, token string) (string, error)
}

// Option customizes a Server, mainly so tests can swap the service wiring.
type Option func(*Server)

func WithGeneratorFactory(fn func(owner, repo, token string) readmeGenerator) Option {
	return func(s *Server) {
		s.newGenerator = fn
	}
}

func WithPullRequestFactory(fn func(owner, repo, token string) pullRequestOpener) Option {
	return func(s *Server) {
		s.newPROpener = fn
	}
}

func WithCodeExchanger(fn func(ctx context.Context, code string) (string, error)) Option {
	return func(s *Server) {
		s.exchangeCode = fn
	}
}

func WithLoginFetcher(fn func(ctx context.Context, token string) (string, error)) Option {
	return func(s *Server) {
		s.fetchLogin = fn
	}
}

// New wires the HTTP server. The generator is shared across requests, VCS
// clients are built per request because every request may carry a
// different token.
func New(cfg *config.Config, sessions sessionStore, generator ai.ReadmeGenerator, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		sessions:  sessions,
		ai:        generator,
		appLimits: githubvcs.NewRateLimitState(),
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scopes:       []string{"public_repo"},
			Endpoint:     oauthgithub.Endpoint,
		},
	}

	s.newGenerator = s.buildGenerator
	s.newPROpener = s.buildPROpener
	s.exchangeCode = s.defaultExchange
	s.fetchLogin = s.defaultFetchLogin

	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		ReadTimeout:           readTimeout,
		IdleTimeout:           idleTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(requestContext())
	s.app.Use(requestLogger())

	s.app.Get("/healthz", s.handleHealthz)

	auth := s.app.Group("/auth")
	auth.Get("/login", s.handleLogin)
	auth.Get("/callback", s.handleCallback)
	auth.Post("/logout", s.handleLogout)

	api := s.app.Group("/api")
	api.Post("/generate", s.optionalSession, s.handleGenerate)
	api.Post("/pr", s.requireSession, s.handleOpenPullRequest)
	api.Get("/session", s.requireSession, s.handleSession)
}

// errorHandler turns errors that escape handlers, including fiber's own
// routing errors, into the JSON envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(errorBody{Error: errorDetail{
			Code:    "http_error",
			Message: fiberErr.Message,
		}})
	}
	return writeError(c, err)
}

// Run serves until ctx is cancelled, then drains connections within the
// configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	go s.sweepSessions(ctx)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- s.app.Listen(s.cfg.ServerAddr())
	}()

	logger.Info(ctx, "server listening", "addr", s.cfg.ServerAddr())

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = s.app.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn(ctx, "server shutdown timed out", "timeout", s.cfg.Server.ShutdownTimeout)
	}

	return nil
}

func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.sessions.DeleteExpired(ctx); err != nil {
				logger.Error(ctx, "session sweep failed", err)
			}
		}
	}
}

// buildGenerator assembles the generation pipeline for one request.
// Anonymous requests use the app token and share one quota state, logged-in
// requests spend the user's own quota.
func (s *Server) buildGenerator(owner, repo, token string) readmeGenerator {
	var clientOpts []githubvcs.Option
	if token == "" {
		token = s.cfg.GitHub.Token
		clientOpts = append(clientOpts, githubvcs.WithRateLimitState(s.appLimits))
	}

	client := githubvcs.NewClient(owner, repo, token, clientOpts...)
	aggregator := services.NewAggregatorService(services.WithAggregatorVCSClient(client))

	return services.NewReadmeService(
		services.WithReadmeAggregator(aggregator),
		services.WithReadmeAIProvider(s.ai),
	)
}

func (s *Server) buildPROpener(owner, repo, token string) pullRequestOpener {
	client := githubvcs.NewClient(owner, repo, token)
	return services.NewPRWorkflowService(services.WithWorkflowVCSClient(client))
}

func (s *Server) defaultExchange(ctx context.Context, code string) (string, error) {
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func (s *Server) defaultFetchLogin(ctx context.Context, token string) (string, error) {
	return githubvcs.NewClient("", "", token).GetAuthenticatedUser(ctx)
}
