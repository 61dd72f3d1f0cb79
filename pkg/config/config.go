// Package config provides unified configuration for the gate service.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (GATE_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the gate service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 30s
}

// StorageConfig holds credential repository settings.
type StorageConfig struct {
	Type     string         `yaml:"type"` // "memory" or "postgres", default: "memory"
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: false
}

// AuthConfig holds verification settings.
type AuthConfig struct {
	// BcryptCost is the password hashing cost factor (default: 6).
	BcryptCost int `yaml:"bcrypt_cost"`

	// HMACSkew is the signature freshness window (default: 3m).
	HMACSkew time.Duration `yaml:"hmac_skew"`

	// LoginURL is where unauthenticated session-path callers are sent
	// (default: "/login").
	LoginURL string `yaml:"login_url"`

	Lockout LockoutConfig `yaml:"lockout"`
	Session SessionConfig `yaml:"session"`
}

// LockoutConfig holds failed-login lockout settings.
type LockoutConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`  // default: 10
	LockDuration time.Duration `yaml:"lock_duration"` // default: 2h
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	SecretFile string        `yaml:"secret_file"` // _file variant for secret
	TTL        time.Duration `yaml:"ttl"`         // default: 12h
	CookieName string        `yaml:"cookie_name"` // default: "gate_session"
	Secure     bool          `yaml:"secure"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type: "memory",
			Postgres: PostgresConfig{
				MaxConns: 25,
			},
		},
		Auth: AuthConfig{
			BcryptCost: 6,
			HMACSkew:   3 * time.Minute,
			LoginURL:   "/login",
			Lockout: LockoutConfig{
				MaxAttempts:  10,
				LockDuration: 2 * time.Hour,
			},
			Session: SessionConfig{
				TTL:        12 * time.Hour,
				CookieName: "gate_session",
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
