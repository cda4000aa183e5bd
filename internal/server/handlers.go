package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	domainErrors "readmeforge/internal/errors"
	"readmeforge/internal/logger"
	"readmeforge/internal/models"
	"readmeforge/internal/session"
)

const (
	sessionCookie = "readmeforge_session"
	localSession  = "session"
)

type generateRequest struct {
	Owner   string                   `json:"owner"`
	Repo    string                   `json:"repo"`
	Options models.GenerationOptions `json:"options"`
}

type prRequest struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Readme string `json:"readme"`
	Base   string `json:"base"`
}

func sessionFromLocals(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(localSession).(*session.Session)
	return sess
}

// optionalSession attaches the session when the cookie resolves. Anonymous
// callers continue, they just read GitHub through the shared app token.
func (s *Server) optionalSession(c *fiber.Ctx) error {
	id := c.Cookies(sessionCookie)
	if id == "" {
		return c.Next()
	}

	sess, err := s.sessions.Lookup(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrSessionExpired) {
			s.clearSessionCookie(c)
		}
		logger.Debug(c.UserContext(), "session cookie did not resolve, continuing anonymously")
		return c.Next()
	}

	c.Locals(localSession, sess)
	return c.Next()
}

// requireSession rejects the request unless the cookie resolves to a live
// session.
func (s *Server) requireSession(c *fiber.Ctx) error {
	sess, err := s.sessions.Lookup(c.UserContext(), c.Cookies(sessionCookie))
	if err != nil {
		if errors.Is(err, domainErrors.ErrSessionExpired) {
			s.clearSessionCookie(c)
		}
		return writeError(c, err)
	}

	c.Locals(localSession, sess)
	return c.Next()
}

func (s *Server) handleGenerate(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, domainErrors.ErrInvalidRequest.WithContext("reason", "body is not valid JSON"))
	}
	if req.Owner == "" || req.Repo == "" {
		return writeError(c, domainErrors.ErrInvalidRequest.WithContext("reason", "owner and repo are required"))
	}

	var token string
	if sess := sessionFromLocals(c); sess != nil {
		token = sess.Token
	}

	ctx := c.UserContext()
	generator := s.newGenerator(req.Owner, req.Repo, token)

	result, err := generator.GenerateReadme(ctx, req.Options, func(event models.StageEvent) {
		logger.Debug(ctx, "aggregation stage", "stage", string(event.Type), "message", event.Message)
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(result)
}

func (s *Server) handleOpenPullRequest(c *fiber.Ctx) error {
	var req prRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, domainErrors.ErrInvalidRequest.WithContext("reason", "body is not valid JSON"))
	}
	if req.Owner == "" || req.Repo == "" || req.Base == "" {
		return writeError(c, domainErrors.ErrInvalidRequest.WithContext("reason", "owner, repo and base are required"))
	}
	if strings.TrimSpace(req.Readme) == "" {
		return writeError(c, domainErrors.ErrInvalidRequest.WithContext("reason", "readme must not be empty"))
	}

	sess := sessionFromLocals(c)
	opener := s.newPROpener(req.Owner, req.Repo, sess.Token)

	result, err := opener.OpenPullRequest(c.UserContext(), req.Readme, req.Base)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (s *Server) handleSession(c *fiber.Ctx) error {
	sess := sessionFromLocals(c)

	return c.JSON(fiber.Map{
		"login":      sess.Login,
		"expires_at": sess.ExpiresAt,
	})
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	rate := s.appLimits.Snapshot()

	return c.JSON(fiber.Map{
		"status": "ok",
		"github_quota": fiber.Map{
			"limit":     rate.Limit,
			"remaining": rate.Remaining,
			"reset":     rate.Reset.Time.UTC(),
		},
	})
}

func (s *Server) setSessionCookie(c *fiber.Ctx, sess *session.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Expires:  sess.ExpiresAt,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0).UTC(),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
