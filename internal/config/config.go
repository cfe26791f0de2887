// Package config maps environment variables onto the runtime configuration
// struct. Parsing happens once at startup; the resulting value is passed to
// components by their constructors and never mutated afterwards.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Identity IdentityConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`
}

// SessionConfig controls the cookie session that persists client state.
type SessionConfig struct {
	Lifetime     time.Duration `env:"SESSION_LIFETIME" envDefault:"12h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"versenest_session"`
	CookieDomain string        `env:"SESSION_COOKIE_DOMAIN"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
}

// IdentityConfig points at the identity service. An empty BaseURL selects the
// embedded local service backed by the configured database.
type IdentityConfig struct {
	BaseURL string        `env:"IDENTITY_URL"`
	Timeout time.Duration `env:"IDENTITY_TIMEOUT" envDefault:"10s"`

	// Secret signs tokens when the embedded local service is selected. Left
	// empty, the service generates an ephemeral secret at startup.
	Secret string `env:"IDENTITY_SECRET"`

	// Revalidate decides what startup does with a cached token: "off",
	// "background", or "blocking".
	Revalidate string `env:"IDENTITY_REVALIDATE" envDefault:"background"`
}

// DatabaseConfig contains the connection settings for the embedded identity
// service's account store. A postgres URL selects postgres; anything else is
// treated as a sqlite source.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL" envDefault:"file:versenest.db"`
	UseMock         bool          `env:"DATABASE_USE_MOCK" envDefault:"false"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime time.Duration `env:"DATABASE_CONN_MAX_IDLE_TIME"`
}

// LogConfig selects the minimum log level.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("config: server address must not be empty")
	}

	switch cfg.Identity.Revalidate {
	case "off", "background", "blocking":
	default:
		return Config{}, fmt.Errorf("config: unknown revalidate mode %q", cfg.Identity.Revalidate)
	}

	return cfg, nil
}
