package principal

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MemoryStore is a map-backed principal store. It serves tests, local
// development, and deployments small enough not to want Postgres.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*record
}

type record struct {
	principal    Principal
	passwordHash []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*record)}
}

// Add inserts or replaces a principal with a bcrypt hash of the given
// password. Principals added without a password cannot log in but can
// still be resolved.
func (s *MemoryStore) Add(p Principal, password string) error {
	var hash []byte
	if password != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[p.Subject] = &record{principal: p, passwordHash: hash}
	return nil
}

// SetEnabled flips a principal's enabled flag.
func (s *MemoryStore) SetEnabled(subject string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[subject]
	if !ok {
		return ErrNotFound
	}
	rec.principal.Enabled = enabled
	return nil
}

// SetRoles replaces a principal's role set.
func (s *MemoryStore) SetRoles(subject string, roles []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[subject]
	if !ok {
		return ErrNotFound
	}
	rec.principal.Roles = append([]string(nil), roles...)
	return nil
}

// Resolve implements Resolver.
func (s *MemoryStore) Resolve(ctx context.Context, subject string) (*Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[subject]
	if !ok {
		return nil, ErrNotFound
	}

	p := rec.principal
	p.Roles = append([]string(nil), rec.principal.Roles...)
	return &p, nil
}

// VerifyCredentials implements CredentialVerifier. Principals are looked up
// by username; the middleware keys on subject everywhere else.
func (s *MemoryStore) VerifyCredentials(ctx context.Context, username, password string) (*Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var rec *record
	for _, r := range s.records {
		if r.principal.Username == username {
			rec = r
			break
		}
	}
	s.mu.RUnlock()

	if rec == nil || len(rec.passwordHash) == 0 {
		return nil, ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	p := rec.principal
	p.Roles = append([]string(nil), rec.principal.Roles...)
	return &p, nil
}
