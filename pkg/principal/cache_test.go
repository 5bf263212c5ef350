package principal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingResolver records how many times the inner store is consulted.
type countingResolver struct {
	inner *MemoryStore
	calls int
}

func (r *countingResolver) Resolve(ctx context.Context, subject string) (*Principal, error) {
	r.calls++
	return r.inner.Resolve(ctx, subject)
}

func TestCachingResolver_HitAndMiss(t *testing.T) {
	counting := &countingResolver{inner: seedStore(t)}
	var hits, misses int
	resolver := NewCachingResolver(counting, 16, time.Minute, time.Hour).
		WithMetrics(func() { hits++ }, func() { misses++ })
	ctx := context.Background()

	p, err := resolver.Resolve(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, 1, counting.calls)
	assert.Equal(t, 0, hits)
	assert.Equal(t, 1, misses)

	p, err = resolver.Resolve(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, 1, counting.calls)
	assert.Equal(t, 1, hits)
}

func TestCachingResolver_NegativeResultsNotCached(t *testing.T) {
	counting := &countingResolver{inner: seedStore(t)}
	resolver := NewCachingResolver(counting, 16, time.Minute, time.Hour)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, "u-404")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = resolver.Resolve(ctx, "u-404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, counting.calls)
}

func TestCachingResolver_Invalidate(t *testing.T) {
	store := seedStore(t)
	counting := &countingResolver{inner: store}
	resolver := NewCachingResolver(counting, 16, time.Minute, time.Hour)
	ctx := context.Background()

	p, err := resolver.Resolve(ctx, "u-1")
	require.NoError(t, err)
	assert.Contains(t, p.Roles, "ADMIN")

	require.NoError(t, store.SetRoles("u-1", []string{"USER"}))
	resolver.Invalidate("u-1")

	p, err = resolver.Resolve(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"USER"}, p.Roles)
	assert.Equal(t, 2, counting.calls)
}

func TestCachingResolver_Expiry(t *testing.T) {
	counting := &countingResolver{inner: seedStore(t)}
	resolver := NewCachingResolver(counting, 16, 20*time.Millisecond, time.Hour)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counting.calls)

	time.Sleep(50 * time.Millisecond)

	_, err = resolver.Resolve(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, counting.calls)
}

func TestCachingResolver_CachedCopiesAreIsolated(t *testing.T) {
	resolver := NewCachingResolver(seedStore(t), 16, time.Minute, time.Hour)
	ctx := context.Background()

	p, err := resolver.Resolve(ctx, "u-1")
	require.NoError(t, err)
	p.Roles[0] = "MUTATED"

	again, err := resolver.Resolve(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "USER", again.Roles[0])
}
