package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	domainErrors "readmeforge/internal/errors"
	"readmeforge/internal/logger"
)

const stateCookie = "readmeforge_oauth_state"

// handleLogin starts the GitHub OAuth dance. The state lands in a short
// lived cookie and must come back unchanged on the callback.
func (s *Server) handleLogin(c *fiber.Ctx) error {
	state := uuid.NewString()

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		MaxAge:   600,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(s.oauth.AuthCodeURL(state), fiber.StatusFound)
}

func (s *Server) handleCallback(c *fiber.Ctx) error {
	want := c.Cookies(stateCookie)
	s.clearStateCookie(c)

	if want == "" || c.Query("state") != want {
		return writeError(c, domainErrors.ErrAuthRequired.WithContext("reason", "oauth state mismatch"))
	}

	code := c.Query("code")
	if code == "" {
		return writeError(c, domainErrors.ErrAuthRequired.WithContext("reason", "missing authorization code"))
	}

	ctx := c.UserContext()

	token, err := s.exchangeCode(ctx, code)
	if err != nil {
		logger.Error(ctx, "oauth code exchange failed", err)
		return writeError(c, domainErrors.ErrAuthRequired.WithContext("reason", "code exchange failed"))
	}

	login, err := s.fetchLogin(ctx, token)
	if err != nil {
		return writeError(c, err)
	}

	sess, err := s.sessions.Create(ctx, login, token)
	if err != nil {
		return writeError(c, err)
	}

	logger.Info(ctx, "session created", "login", login)
	s.setSessionCookie(c, sess)

	return c.Redirect("/", fiber.StatusFound)
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	if id := c.Cookies(sessionCookie); id != "" {
		if err := s.sessions.Delete(c.UserContext(), id); err != nil {
			return writeError(c, err)
		}
	}

	s.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) clearStateCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    "",
		Expires:  time.Unix(0, 0).UTC(),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
