// Package config loads and validates the settings for the mochi-mcp server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/nakrule/mochi-mcp/internal/mochi"
)

// Environment variable names.
const (
	EnvAPIKey         = "MOCHI_API_KEY"
	EnvBaseURL        = "MOCHI_BASE_URL"
	EnvRequestTimeout = "MOCHI_REQUEST_TIMEOUT"
)

const defaultTimeout = 30 * time.Second

// Settings holds the validated server configuration. It is built once at
// startup and never changes for the lifetime of the process.
type Settings struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	AllowWrite bool
	LogLevel   zapcore.Level
}

// Overrides carries CLI flag values. Non-zero values take precedence over the
// corresponding environment variables.
type Overrides struct {
	BaseURL    string
	Timeout    float64 // seconds; 0 means unset
	AllowWrite bool
	LogLevel   string
}

// Load builds Settings from the process environment and the given flag
// overrides. It fails on a missing API key, an unparseable base URL, or a
// non-positive timeout.
func Load(overrides Overrides) (Settings, error) {
	settings := Settings{
		APIKey:     strings.TrimSpace(os.Getenv(EnvAPIKey)),
		BaseURL:    mochi.DefaultBaseURL,
		Timeout:    defaultTimeout,
		AllowWrite: overrides.AllowWrite,
		LogLevel:   zapcore.InfoLevel,
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		settings.BaseURL = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		seconds, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %q is not a number", EnvRequestTimeout, v)
		}
		settings.Timeout = time.Duration(seconds * float64(time.Second))
	}

	if overrides.BaseURL != "" {
		settings.BaseURL = overrides.BaseURL
	}
	if overrides.Timeout != 0 {
		settings.Timeout = time.Duration(overrides.Timeout * float64(time.Second))
	}
	if overrides.LogLevel != "" {
		level, err := zapcore.ParseLevel(overrides.LogLevel)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid log level %q", overrides.LogLevel)
		}
		settings.LogLevel = level
	}

	if err := settings.validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s Settings) validate() error {
	if s.APIKey == "" {
		return errors.New(EnvAPIKey + " is required")
	}
	parsed, err := url.Parse(s.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("base URL %q is not a valid http(s) URL", s.BaseURL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", s.Timeout)
	}
	return nil
}
