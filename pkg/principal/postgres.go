package principal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore resolves principals and verifies credentials against a
// users table. Schema (owned by the collaborating user service):
//
//	CREATE TABLE users (
//	    subject       TEXT PRIMARY KEY,
//	    username      TEXT UNIQUE NOT NULL,
//	    password_hash TEXT NOT NULL,
//	    is_enabled    BOOLEAN NOT NULL DEFAULT true,
//	    roles         TEXT[] NOT NULL DEFAULT '{}'
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Resolve implements Resolver.
func (s *PostgresStore) Resolve(ctx context.Context, subject string) (*Principal, error) {
	p := &Principal{}
	err := s.db.QueryRowContext(ctx, `
		SELECT subject, username, is_enabled, roles
		FROM users WHERE subject = $1
	`, subject).Scan(&p.Subject, &p.Username, &p.Enabled, pq.Array(&p.Roles))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}
	return p, nil
}

// VerifyCredentials implements CredentialVerifier using the stored bcrypt
// hash. The comparison itself is delegated to comparePassword so that the
// store and the hash policy stay separable.
func (s *PostgresStore) VerifyCredentials(ctx context.Context, username, password string) (*Principal, error) {
	p := &Principal{}
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT subject, username, password_hash, is_enabled, roles
		FROM users WHERE username = $1
	`, username).Scan(&p.Subject, &p.Username, &hash, &p.Enabled, pq.Array(&p.Roles))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up credentials: %w", err)
	}

	if err := comparePassword(hash, password); err != nil {
		return nil, ErrBadCredentials
	}
	return p, nil
}
