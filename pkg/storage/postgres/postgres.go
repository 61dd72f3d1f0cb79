// Package postgres provides a PostgreSQL implementation of
// credential.Repository. It uses pgx/v5 for connection pooling and a
// single-statement UPDATE for the lockout failure transition, so
// concurrent failed logins never lose counter updates.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentra-dev/gate/pkg/credential"
	"github.com/sentra-dev/gate/pkg/storage"
)

// Store is a PostgreSQL-backed credential repository.
type Store struct {
	pool    *pgxpool.Pool
	lockout lockoutParams
}

type lockoutParams struct {
	maxAttempts  int
	lockDuration time.Duration
}

// Ensure Store implements credential.Repository at compile time.
var _ credential.Repository = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{
		pool: pool,
		lockout: lockoutParams{
			maxAttempts:  cfg.Lockout.MaxAttempts,
			lockDuration: cfg.Lockout.LockDuration,
		},
	}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

const credentialColumns = `id, email, first_name, last_name, password_hash, role_id,
	api_key, api_secret, failed_attempts, locked_until, created_at, updated_at`

// Create persists a new credential and returns it with the assigned ID.
func (s *Store) Create(ctx context.Context, c *credential.Credential) (*credential.Credential, error) {
	query := `
		INSERT INTO credentials (email, first_name, last_name, password_hash, role_id, api_key, api_secret, failed_attempts, locked_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	stored := *c
	err := s.pool.QueryRow(ctx, query,
		c.Email, c.Name.First, c.Name.Last, c.PasswordHash, c.RoleID,
		c.APIKey, c.APISecret, c.FailedAttemptCount, c.LockedUntil,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrConflict
		}
		return nil, fmt.Errorf("inserting credential: %w", err)
	}

	return &stored, nil
}

// Update rewrites an existing record. API credentials are written as-is;
// the at-most-once issuance rule is enforced by the preparation
// pipeline, not the storage layer.
func (s *Store) Update(ctx context.Context, c *credential.Credential) error {
	query := `
		UPDATE credentials
		SET email = $2, first_name = $3, last_name = $4, password_hash = $5,
		    role_id = $6, api_key = $7, api_secret = $8,
		    failed_attempts = $9, locked_until = $10, updated_at = now()
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		c.ID, c.Email, c.Name.First, c.Name.Last, c.PasswordHash,
		c.RoleID, c.APIKey, c.APISecret, c.FailedAttemptCount, c.LockedUntil,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("updating credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// GetByID retrieves a credential by its identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*credential.Credential, error) {
	return s.getBy(ctx, "id", id)
}

// GetByEmail retrieves a credential by its login identifier.
func (s *Store) GetByEmail(ctx context.Context, email string) (*credential.Credential, error) {
	return s.getBy(ctx, "email", email)
}

// GetByAPIKey retrieves a credential by API key.
func (s *Store) GetByAPIKey(ctx context.Context, apiKey string) (*credential.Credential, error) {
	return s.getBy(ctx, "api_key", apiKey)
}

func (s *Store) getBy(ctx context.Context, column, value string) (*credential.Credential, error) {
	query := fmt.Sprintf("SELECT %s FROM credentials WHERE %s = $1", credentialColumns, column)

	row := s.pool.QueryRow(ctx, query, value)
	c, err := scanCredential(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("selecting credential by %s: %w", column, err)
	}

	return c, nil
}

// ApplyFailure runs the whole failure transition in one UPDATE, mirroring
// lockout.Policy.OnFailure: an expired lock resets the counter to 1 and
// clears the window; otherwise the counter increments and the lock is set
// only when the post-increment count crosses the threshold on an
// unlocked record. All CASE expressions read the pre-update column
// values, so the statement is a faithful copy of the pure transition.
func (s *Store) ApplyFailure(ctx context.Context, id string, now time.Time) (*credential.Credential, error) {
	query := fmt.Sprintf(`
		UPDATE credentials
		SET failed_attempts = CASE
		        WHEN locked_until IS NOT NULL AND locked_until < $2 THEN 1
		        ELSE failed_attempts + 1
		    END,
		    locked_until = CASE
		        WHEN locked_until IS NOT NULL AND locked_until < $2 THEN NULL
		        WHEN failed_attempts + 1 >= $3 AND (locked_until IS NULL OR locked_until <= $2) THEN $4::timestamptz
		        ELSE locked_until
		    END,
		    updated_at = now()
		WHERE id = $1
		RETURNING %s`, credentialColumns)

	row := s.pool.QueryRow(ctx, query, id, now, s.lockout.maxAttempts, now.Add(s.lockout.lockDuration))
	c, err := scanCredential(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("applying failed attempt: %w", err)
	}

	return c, nil
}

// ResetLockout clears the counter and lock window.
func (s *Store) ResetLockout(ctx context.Context, id string) error {
	query := `
		UPDATE credentials
		SET failed_attempts = 0, locked_until = NULL, updated_at = now()
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("resetting lockout state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// scanCredential reads one credential row.
func scanCredential(row pgx.Row) (*credential.Credential, error) {
	var c credential.Credential
	err := row.Scan(
		&c.ID, &c.Email, &c.Name.First, &c.Name.Last, &c.PasswordHash, &c.RoleID,
		&c.APIKey, &c.APISecret, &c.FailedAttemptCount, &c.LockedUntil,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// isUniqueViolation reports whether err is a unique-constraint violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
