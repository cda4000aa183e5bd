package serve

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"readmeforge/internal/config"
	apperrors "readmeforge/internal/errors"
	"readmeforge/internal/i18n"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "0.0.0.0", Port: 8080},
		Log:    config.LogConfig{Level: "info"},
		Gemini: config.GeminiConfig{APIKey: "test-key"},
		OAuth: config.OAuthConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost:8080/auth/callback",
		},
		Session: config.SessionConfig{
			Secret: strings.Repeat("k", 32),
			DBPath: "readmeforge.db",
		},
	}
}

func testTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	translations, err := i18n.NewTranslations("en")
	require.NoError(t, err)
	return translations
}

// newTestCommand swaps the real server boot for a capture so the command
// wiring can be exercised without listening on anything.
func newTestCommand(t *testing.T, cfg *config.Config, runErr error) (*cli.Command, *[]*config.Config) {
	t.Helper()

	var runs []*config.Config
	factory := NewServeCommandFactory(WithRunFunc(
		func(ctx context.Context, cfg *config.Config, translations *i18n.Translations) error {
			runs = append(runs, cfg)
			return runErr
		},
	))

	return factory.CreateCommand(testTranslations(t), cfg), &runs
}

func TestServeCommand(t *testing.T) {
	t.Run("should boot the server with the configured address", func(t *testing.T) {
		cfg := testConfig()
		cmd, runs := newTestCommand(t, cfg, nil)

		err := cmd.Run(context.Background(), []string{"serve"})

		assert.NoError(t, err)
		require.Len(t, *runs, 1)
		assert.Equal(t, "0.0.0.0:8080", (*runs)[0].ServerAddr())
	})

	t.Run("should let the addr flag override host and port", func(t *testing.T) {
		cfg := testConfig()
		cmd, runs := newTestCommand(t, cfg, nil)

		err := cmd.Run(context.Background(), []string{"serve", "--addr", "127.0.0.1:9999"})

		assert.NoError(t, err)
		require.Len(t, *runs, 1)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 9999, cfg.Server.Port)
	})

	t.Run("should accept a bare port address", func(t *testing.T) {
		cfg := testConfig()
		cmd, _ := newTestCommand(t, cfg, nil)

		err := cmd.Run(context.Background(), []string{"serve", "-a", ":3000"})

		assert.NoError(t, err)
		assert.Equal(t, "", cfg.Server.Host)
		assert.Equal(t, 3000, cfg.Server.Port)
	})

	t.Run("should reject a malformed address without booting", func(t *testing.T) {
		cfg := testConfig()
		cmd, runs := newTestCommand(t, cfg, nil)

		err := cmd.Run(context.Background(), []string{"serve", "--addr", "no-port"})

		assert.Error(t, err)
		assert.Empty(t, *runs)
	})

	t.Run("should refuse to start without oauth credentials", func(t *testing.T) {
		cfg := testConfig()
		cfg.OAuth.ClientID = ""
		cmd, runs := newTestCommand(t, cfg, nil)

		err := cmd.Run(context.Background(), []string{"serve"})

		assert.ErrorIs(t, err, apperrors.ErrOAuthConfigMissing)
		assert.Empty(t, *runs)
	})

	t.Run("should refuse a session secret of the wrong length", func(t *testing.T) {
		cfg := testConfig()
		cfg.Session.Secret = "too-short"
		cmd, runs := newTestCommand(t, cfg, nil)

		err := cmd.Run(context.Background(), []string{"serve"})

		assert.ErrorIs(t, err, apperrors.ErrSessionSecretInvalid)
		assert.Empty(t, *runs)
	})

	t.Run("should raise the log level with the debug flag", func(t *testing.T) {
		cfg := testConfig()
		cmd, _ := newTestCommand(t, cfg, nil)

		err := cmd.Run(context.Background(), []string{"serve", "--debug"})

		assert.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("should surface boot failures", func(t *testing.T) {
		cfg := testConfig()
		bootErr := errors.New("listen tcp: address already in use")
		cmd, _ := newTestCommand(t, cfg, bootErr)

		err := cmd.Run(context.Background(), []string{"serve"})

		assert.ErrorIs(t, err, bootErr)
	})
}

func TestSplitAddr(t *testing.T) {
	t.Run("should split host and port", func(t *testing.T) {
		host, port, err := splitAddr("10.0.0.1:8443")

		require.NoError(t, err)
		assert.Equal(t, "10.0.0.1", host)
		assert.Equal(t, 8443, port)
	})

	t.Run("should reject a missing port", func(t *testing.T) {
		_, _, err := splitAddr("localhost")

		assert.Error(t, err)
	})

	t.Run("should reject a non numeric port", func(t *testing.T) {
		_, _, err := splitAddr("localhost:http")

		assert.Error(t, err)
	})
}
