package principal

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// CachingResolver wraps a Resolver with a bounded, time-expired LRU cache
// keyed by subject. The staleness window is clamped to the token TTL so a
// revoked role is never honored longer than a token's natural lifetime.
//
// Not-found and error results are never cached: a disabled or deleted
// principal must take effect on the next uncached lookup, and only positive
// records are worth the memory.
type CachingResolver struct {
	inner Resolver
	cache *lru.LRU[string, *Principal]
	hit   func()
	miss  func()
}

// NewCachingResolver creates a caching decorator. size bounds the entry
// count; ttl is the staleness window and is clamped to tokenTTL.
func NewCachingResolver(inner Resolver, size int, ttl, tokenTTL time.Duration) *CachingResolver {
	if size < 1 {
		size = 1
	}
	if ttl <= 0 || ttl > tokenTTL {
		ttl = tokenTTL
	}
	return &CachingResolver{
		inner: inner,
		cache: lru.NewLRU[string, *Principal](size, nil, ttl),
		hit:   func() {},
		miss:  func() {},
	}
}

// WithMetrics registers hit/miss callbacks, typically Prometheus counter
// increments.
func (r *CachingResolver) WithMetrics(hit, miss func()) *CachingResolver {
	if hit != nil {
		r.hit = hit
	}
	if miss != nil {
		r.miss = miss
	}
	return r
}

// Resolve implements Resolver.
func (r *CachingResolver) Resolve(ctx context.Context, subject string) (*Principal, error) {
	if p, ok := r.cache.Get(subject); ok {
		r.hit()
		cp := *p
		cp.Roles = append([]string(nil), p.Roles...)
		return &cp, nil
	}
	r.miss()

	p, err := r.inner.Resolve(ctx, subject)
	if err != nil {
		return nil, err
	}

	stored := *p
	stored.Roles = append([]string(nil), p.Roles...)
	r.cache.Add(subject, &stored)
	return p, nil
}

// Invalidate drops a subject from the cache, e.g. after a role change or
// account disable that must take effect immediately.
func (r *CachingResolver) Invalidate(subject string) {
	r.cache.Remove(subject)
}
