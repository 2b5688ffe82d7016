package dvelop

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds client settings read from DVELOP_* environment variables,
// e.g. DVELOP_SYSTEM_BASE_URI and DVELOP_AUTH_SESSION_ID.
type Config struct {
	SystemBaseURI string        `envconfig:"SYSTEM_BASE_URI" required:"true"`
	AuthSessionID string        `envconfig:"AUTH_SESSION_ID"`
	HTTPTimeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	Debug         bool          `envconfig:"DEBUG" default:"false"`

	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64 `envconfig:"RATE_LIMIT" default:"0"`
	RateBurst int     `envconfig:"RATE_BURST" default:"0"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DVELOP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	log.Debug().
		Str("system_base_uri", cfg.SystemBaseURI).
		Bool("auth_session_present", cfg.AuthSessionID != "").
		Dur("http_timeout", cfg.HTTPTimeout).
		Bool("debug", cfg.Debug).
		Float64("rate_limit", cfg.RateLimit).
		Msg("Configuration loaded")

	return &cfg, nil
}

// Options translates cfg into client options.
func (cfg *Config) Options() []Option {
	var opts []Option
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, WithHTTPTimeout(cfg.HTTPTimeout))
	}
	if cfg.Debug {
		opts = append(opts, WithDebugLogging(true))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	return opts
}

// NewFromConfig builds a Client from cfg. opts are applied after the
// options derived from cfg.
func NewFromConfig(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	return New(cfg.SystemBaseURI, cfg.AuthSessionID, append(cfg.Options(), opts...)...)
}
