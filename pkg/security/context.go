// Package security holds the request-scoped security context: who is making
// this request and what they can do. A context is created fresh per request,
// populated at most once by the authentication stage, read-only afterward,
// and never shared between concurrent requests.
package security

import (
	"context"

	"github.com/gatehouse-auth/gatehouse/pkg/contextkeys"
	"github.com/gatehouse-auth/gatehouse/pkg/principal"
)

// Context is the immutable-after-construction holder of the authenticated
// principal and its resolved authorities. A nil principal is the anonymous
// sentinel.
type Context struct {
	principal   *principal.Principal
	authorities map[string]struct{}
}

// Anonymous returns the unauthenticated sentinel context.
func Anonymous() *Context {
	return &Context{}
}

// New creates an authenticated context. The authority set is copied from the
// resolver's current roles, never from token claims.
func New(p *principal.Principal, authorities []string) *Context {
	set := make(map[string]struct{}, len(authorities))
	for _, a := range authorities {
		set[a] = struct{}{}
	}
	return &Context{principal: p, authorities: set}
}

// Authenticated reports whether a principal was resolved for this request.
func (c *Context) Authenticated() bool {
	return c != nil && c.principal != nil
}

// Principal returns the resolved principal, or nil for anonymous requests.
func (c *Context) Principal() *principal.Principal {
	if c == nil {
		return nil
	}
	return c.principal
}

// Subject returns the principal identifier, or "" for anonymous requests.
func (c *Context) Subject() string {
	if !c.Authenticated() {
		return ""
	}
	return c.principal.Subject
}

// HasAuthority reports whether the given role is in the authority set.
func (c *Context) HasAuthority(role string) bool {
	if c == nil {
		return false
	}
	_, ok := c.authorities[role]
	return ok
}

// Authorities returns a copy of the authority set.
func (c *Context) Authorities() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.authorities))
	for a := range c.authorities {
		out = append(out, a)
	}
	return out
}

// WithContext attaches a security context to a request context.
func WithContext(ctx context.Context, sc *Context) context.Context {
	return contextkeys.WithSecurityContext(ctx, sc)
}

// FromContext extracts the request's security context. Requests that never
// passed through the authentication stage are anonymous.
func FromContext(ctx context.Context) *Context {
	if sc, ok := ctx.Value(contextkeys.SecurityContextKey).(*Context); ok && sc != nil {
		return sc
	}
	return Anonymous()
}
