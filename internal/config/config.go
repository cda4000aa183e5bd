package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "readmeforge/internal/errors"
)

type (
	Config struct {
		Server  ServerConfig  `mapstructure:"server"`
		Log     LogConfig     `mapstructure:"log"`
		GitHub  GitHubConfig  `mapstructure:"github"`
		Gemini  GeminiConfig  `mapstructure:"gemini"`
		OAuth   OAuthConfig   `mapstructure:"oauth"`
		Session SessionConfig `mapstructure:"session"`
	}

	ServerConfig struct {
		Host            string        `mapstructure:"host"`
		Port            int           `mapstructure:"port"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	}

	LogConfig struct {
		Level string `mapstructure:"level"`
	}

	GitHubConfig struct {
		// Token is the optional app token used for unauthenticated reads.
		// Without it GitHub allows 60 requests per hour.
		Token string `mapstructure:"token"`
	}

	GeminiConfig struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	}

	OAuthConfig struct {
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		RedirectURL  string `mapstructure:"redirect_url"`
	}

	SessionConfig struct {
		// Secret encrypts stored access tokens. Either 32 raw bytes or
		// 64 hex characters.
		Secret string        `mapstructure:"secret"`
		DBPath string        `mapstructure:"db_path"`
		TTL    time.Duration `mapstructure:"ttl"`
	}
)

// Load reads configuration from the environment, optionally seeded from a
// .env file. Values already present in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if vals, err := godotenv.Read(envFile); err == nil {
			for k, v := range vals {
				if _, ok := os.LookupEnv(k); !ok {
					_ = os.Setenv(k, v)
				}
			}
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewAppError(apperrors.TypeConfiguration, "failed to parse configuration", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("oauth.redirect_url", "http://localhost:8080/auth/callback")
	v.SetDefault("session.db_path", "readmeforge.db")
	v.SetDefault("session.ttl", 24*time.Hour)
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"server.host",
		"server.port",
		"server.shutdown_timeout",
		"log.level",
		"github.token",
		"gemini.api_key",
		"gemini.model",
		"oauth.client_id",
		"oauth.client_secret",
		"oauth.redirect_url",
		"session.secret",
		"session.db_path",
		"session.ttl",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// ServerAddr returns the listen address in host:port form.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SessionSecret decodes the configured secret into the 32 bytes the session
// store needs. Accepts raw bytes or their hex encoding.
func (c *Config) SessionSecret() ([]byte, error) {
	s := c.Session.Secret
	if len(s) == 64 {
		if b, err := hex.DecodeString(s); err == nil {
			return b, nil
		}
	}
	if len(s) != 32 {
		return nil, apperrors.ErrSessionSecretInvalid.WithContext("length", len(s))
	}
	return []byte(s), nil
}

// ValidateGenerate checks the settings the generate command depends on.
func (c *Config) ValidateGenerate() error {
	if c.Gemini.APIKey == "" {
		return apperrors.ErrAPIKeyMissing
	}
	return nil
}

// ValidateServe checks the settings the HTTP server depends on.
func (c *Config) ValidateServe() error {
	if c.Gemini.APIKey == "" {
		return apperrors.ErrAPIKeyMissing
	}
	if c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "" {
		return apperrors.ErrOAuthConfigMissing
	}
	if _, err := c.SessionSecret(); err != nil {
		return err
	}
	if c.Session.DBPath == "" {
		return apperrors.ErrSessionStoreUnavailable.WithContext("reason", "empty db path")
	}
	return nil
}
