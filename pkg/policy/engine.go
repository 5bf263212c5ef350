package policy

import "github.com/gatehouse-auth/gatehouse/pkg/security"

// Decision is the engine's externally visible verdict. Finer-grained
// validator failure kinds never reach this layer, so clients cannot probe
// signature vs expiry separately.
type Decision int

const (
	// Allow lets the request reach the protected handler.
	Allow Decision = iota
	// DenyAnonymous means no usable credential backed the request. Maps to
	// 401 at the HTTP boundary.
	DenyAnonymous
	// DenyInsufficient means the principal authenticated but lacks the
	// required role. Maps to 403 at the HTTP boundary.
	DenyInsufficient
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyAnonymous:
		return "deny_anonymous"
	case DenyInsufficient:
		return "deny_insufficient"
	default:
		return "unknown"
	}
}

// Engine decides allow/deny from the security context and the invoked
// path. It is deterministic and side-effect free: identical inputs always
// yield identical decisions.
type Engine struct {
	table *Table
}

// NewEngine creates an engine over a rule table.
func NewEngine(table *Table) *Engine {
	return &Engine{table: table}
}

// Decide gates a request.
//
// Decision table:
//   - rule "public":            allow regardless of the security context
//   - rule "any-authenticated": allow iff a principal is present
//   - rule naming a role R:     allow iff R is in the authority set
//   - no matching rule:         deny (default-deny, fail closed)
func (e *Engine) Decide(sc *security.Context, path string) Decision {
	rule, ok := e.table.Match(path)
	if !ok {
		return e.deny(sc)
	}

	switch rule.Role {
	case RolePublic:
		return Allow
	case RoleAnyAuthenticated:
		if sc.Authenticated() {
			return Allow
		}
		return e.deny(sc)
	default:
		if sc.HasAuthority(rule.Role) {
			return Allow
		}
		return e.deny(sc)
	}
}

// deny distinguishes "no credential" from "credential but insufficient";
// the two map to different response codes at the boundary.
func (e *Engine) deny(sc *security.Context) Decision {
	if sc.Authenticated() {
		return DenyInsufficient
	}
	return DenyAnonymous
}
