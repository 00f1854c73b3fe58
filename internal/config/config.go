package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/auth"
)

// Backend values.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Config is the merged runtime configuration.
type Config struct {
	Client ClientConfig `toml:"client"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`

	// DB overrides the sqlite path. Empty means store.DefaultDBPath.
	DB string `toml:"db"`
}

// ClientConfig controls how the TUI and CLI reach the study API.
type ClientConfig struct {
	APIURL  string   `toml:"api_url"`
	UserID  string   `toml:"user_id"`
	Backend string   `toml:"backend"`
	Timeout Duration `toml:"timeout"`

	// Token is an access token from `studybuddy auth login`. When set the
	// server identifies the user from it instead of UserID.
	Token string `toml:"token"`
}

// ServerConfig controls `studybuddy serve`.
type ServerConfig struct {
	Listen      string   `toml:"listen"`
	RateLimit   float64  `toml:"rate_limit"`
	RateBurst   int      `toml:"rate_burst"`
	CORSOrigins []string `toml:"cors_origins"`
	JWTSecret   string   `toml:"jwt_secret"`
	TokenTTL    Duration `toml:"token_ttl"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Client: ClientConfig{
			APIURL:  api.DefaultBaseURL,
			UserID:  api.DefaultUserID,
			Backend: BackendRemote,
			Timeout: Duration{30 * time.Second},
		},
		Server: ServerConfig{
			Listen:      ":5000",
			RateLimit:   10,
			RateBurst:   20,
			CORSOrigins: []string{"*"},
			JWTSecret:   auth.DevSecret,
			TokenTTL:    Duration{auth.DefaultTokenTTL},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults and then applies STUDYBUDDY_*
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

const envPrefix = "STUDYBUDDY_"

func (c *Config) applyEnv() error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"API_URL", &c.Client.APIURL},
		{"USER_ID", &c.Client.UserID},
		{"BACKEND", &c.Client.Backend},
		{"DB", &c.DB},
		{"LOG_LEVEL", &c.Log.Level},
		{"LISTEN", &c.Server.Listen},
		{"TOKEN", &c.Client.Token},
		{"JWT_SECRET", &c.Server.JWTSecret},
	}
	for _, s := range strs {
		if v := os.Getenv(envPrefix + s.name); v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		if err := c.Client.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
	}
	if v := os.Getenv(envPrefix + "RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT: %w", envPrefix, err)
		}
		c.Server.RateLimit = f
	}
	if v := os.Getenv(envPrefix + "CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	return nil
}

// Validate checks enumerated and numeric settings.
func (c Config) Validate() error {
	switch c.Client.Backend {
	case BackendRemote, BackendLocal:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendRemote, BackendLocal, c.Client.Backend)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.Client.Timeout.Duration < 0 {
		return fmt.Errorf("client timeout must not be negative")
	}
	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		return fmt.Errorf("rate limit and burst must be positive")
	}
	if c.Server.JWTSecret == "" {
		return fmt.Errorf("server jwt_secret must not be empty")
	}
	if c.Server.TokenTTL.Duration <= 0 {
		return fmt.Errorf("server token_ttl must be positive")
	}
	return nil
}
