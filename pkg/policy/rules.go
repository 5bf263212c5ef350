// Package policy implements the authorization decision procedure: a
// load-time rule table mapping route patterns to required roles, and a pure
// engine that gates each request on the security context. Any route that no
// rule matches is denied (fail closed).
package policy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reserved role classes. Anything else in a rule is a literal role name.
const (
	// RolePublic allows the route regardless of authentication.
	RolePublic = "public"
	// RoleAnyAuthenticated allows any non-anonymous principal.
	RoleAnyAuthenticated = "any-authenticated"
)

// Rule maps a path pattern to a required role. Patterns ending in "/"
// match by prefix; all others match exactly.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Role    string `yaml:"role"`
}

// Table is the ordered rule set, loaded once at startup and read-only at
// request time. Lookup prefers the most specific (longest) matching
// pattern; file order breaks length ties.
type Table struct {
	rules []Rule
}

// NewTable validates and builds a rule table.
func NewTable(rules []Rule) (*Table, error) {
	for i, r := range rules {
		if r.Pattern == "" {
			return nil, fmt.Errorf("rule %d: pattern must not be empty", i)
		}
		if !strings.HasPrefix(r.Pattern, "/") {
			return nil, fmt.Errorf("rule %d: pattern %q must start with /", i, r.Pattern)
		}
		if r.Role == "" {
			return nil, fmt.Errorf("rule %d (%s): role must not be empty", i, r.Pattern)
		}
	}

	// Stable sort by descending pattern length: longest match wins, file
	// order decides between equal-length patterns.
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Pattern) > len(sorted[j].Pattern)
	})

	return &Table{rules: sorted}, nil
}

// rulesFile is the on-disk YAML shape:
//
//	rules:
//	  - pattern: /healthz
//	    role: public
//	  - pattern: /orders/
//	    role: USER
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadTable reads a rule table from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s contains no rules", path)
	}

	table, err := NewTable(rf.Rules)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return table, nil
}

// Match returns the most specific rule for a request path, or false when no
// rule matches.
func (t *Table) Match(path string) (Rule, bool) {
	for _, r := range t.rules {
		if strings.HasSuffix(r.Pattern, "/") {
			if strings.HasPrefix(path, r.Pattern) || path == strings.TrimSuffix(r.Pattern, "/") {
				return r, true
			}
		} else if path == r.Pattern {
			return r, true
		}
	}
	return Rule{}, false
}

// Len returns the number of configured rules.
func (t *Table) Len() int {
	return len(t.rules)
}
