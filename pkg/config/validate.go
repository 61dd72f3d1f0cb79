package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	if c.Auth.Session.Secret == "" && c.Auth.Session.SecretFile == "" {
		errs = append(errs, fmt.Errorf("auth.session.secret or auth.session.secret_file is required"))
	}

	if c.Auth.Lockout.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("auth.lockout.max_attempts must be > 0, got %d", c.Auth.Lockout.MaxAttempts))
	}
	if c.Auth.Lockout.LockDuration <= 0 {
		errs = append(errs, fmt.Errorf("auth.lockout.lock_duration must be > 0, got %s", c.Auth.Lockout.LockDuration))
	}

	if c.Auth.HMACSkew <= 0 {
		errs = append(errs, fmt.Errorf("auth.hmac_skew must be > 0, got %s", c.Auth.HMACSkew))
	}

	if c.Auth.LoginURL == "" {
		errs = append(errs, fmt.Errorf("auth.login_url is required"))
	}

	return errors.Join(errs...)
}
