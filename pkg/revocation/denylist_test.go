package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDenylist(t *testing.T) (*Denylist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	d := NewWithClient(client)
	t.Cleanup(func() { d.Close() })
	return d, mr
}

func TestDenylist_RevokeAndCheck(t *testing.T) {
	d, _ := testDenylist(t)
	ctx := context.Background()

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "jti-other")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenylist_EntryExpiresWithToken(t *testing.T) {
	d, mr := testDenylist(t)
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Now().Add(30*time.Second)))

	ttl := mr.TTL(keyPrefix + "jti-1")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 30*time.Second)

	mr.FastForward(31 * time.Second)

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenylist_ExpiredTokenIsNoOp(t *testing.T) {
	d, mr := testDenylist(t)
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(keyPrefix+"jti-old"))
}

func TestDenylist_EmptyTokenID(t *testing.T) {
	d, _ := testDenylist(t)
	assert.Error(t, d.Revoke(context.Background(), "", time.Now().Add(time.Hour)))
}

func TestDenylist_LookupErrorPropagates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	d := NewWithClient(client)
	defer d.Close()

	mr.Close()

	_, err := d.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
}
