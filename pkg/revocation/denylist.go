// Package revocation layers an optional token denylist on top of the
// stateless core. The base design has no revocation: a token is good until
// it expires. Deployments that need logout or forced invalidation enable
// this Redis-backed denylist keyed by token ID (jti); entries carry a TTL
// equal to the token's remaining lifetime so the list stays bounded by
// construction.
package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "gatehouse:revoked:"

// Denylist records revoked token IDs until their natural expiry.
type Denylist struct {
	client *redis.Client
	now    func() time.Time
}

// New creates a denylist from a Redis URL and verifies connectivity.
func New(redisURL string) (*Denylist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Denylist{client: client, now: time.Now}, nil
}

// NewWithClient wraps an existing client. Test hook.
func NewWithClient(client *redis.Client) *Denylist {
	return &Denylist{client: client, now: time.Now}
}

// Revoke marks a token ID as revoked until the token's own expiry. Tokens
// already past expiry need no entry.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return fmt.Errorf("token ID must not be empty")
	}

	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}

	if err := d.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to record revocation: %w", err)
	}
	return nil
}

// IsRevoked implements auth.RevocationChecker. Lookup errors propagate so
// the validator can fail closed.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("revocation lookup failed: %w", err)
	}
	return n > 0, nil
}

// Close releases the underlying connection pool.
func (d *Denylist) Close() error {
	return d.client.Close()
}
