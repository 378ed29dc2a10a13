// Package permission implements the scoped authorization engine. A Set is
// derived once per request from granted capability strings and is immutable
// afterwards; every decision is a pure function of the Set, the required
// resource.action, and an ownership comparison.
package permission

import "strings"

// Wildcard matches any resource or action in a capability string.
const Wildcard = "*"

// Scope is how wide a granted capability reaches.
type Scope int8

const (
	ScopeNone Scope = iota
	// ScopeSelf: the capability applies only to the caller's own tenant.
	ScopeSelf
	// ScopeAll: the capability applies across tenants.
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeSelf:
		return "self"
	case ScopeAll:
		return "all"
	default:
		return "none"
	}
}

// Decision is the outcome of an authorization check.
type Decision int8

const (
	Denied Decision = iota
	AllowedSelf
	AllowedAll
)

func (d Decision) Allowed() bool { return d != Denied }

func (d Decision) String() string {
	switch d {
	case AllowedSelf:
		return "allowed:self"
	case AllowedAll:
		return "allowed:all"
	default:
		return "denied"
	}
}

// Set maps (resource, action) to the widest granted scope. Grants are parsed
// into typed tuples at construction; no string splitting happens at decision
// time.
type Set struct {
	grants map[grantKey]Scope
}

type grantKey struct {
	resource string
	action   string
}

// NewSet parses capability strings of the form "resource.action.scope",
// e.g. "reports.generate.self" or "*.*.all". Strings without a recognized
// scope suffix or with missing segments are ignored rather than rejected:
// a malformed grant must never widen access.
func NewSet(grants []string) Set {
	m := make(map[grantKey]Scope, len(grants))
	for _, g := range grants {
		res, act, sc, ok := parseGrant(g)
		if !ok {
			continue
		}
		k := grantKey{resource: res, action: act}
		if sc > m[k] {
			m[k] = sc
		}
	}
	return Set{grants: m}
}

func parseGrant(g string) (resource, action string, sc Scope, ok bool) {
	g = strings.TrimSpace(g)
	i := strings.LastIndex(g, ".")
	if i <= 0 {
		return "", "", ScopeNone, false
	}
	switch g[i+1:] {
	case "self":
		sc = ScopeSelf
	case "all":
		sc = ScopeAll
	default:
		return "", "", ScopeNone, false
	}
	ra := g[:i]
	j := strings.Index(ra, ".")
	if j <= 0 || j == len(ra)-1 {
		return "", "", ScopeNone, false
	}
	return ra[:j], ra[j+1:], sc, true
}

// Len reports the number of distinct (resource, action) grants.
func (s Set) Len() int { return len(s.grants) }

// ScopeFor resolves the widest granted scope for resource.action. The match
// is a disjunction: exact/exact, exact/*, */exact, */*.
func (s Set) ScopeFor(resource, action string) Scope {
	widest := ScopeNone
	for _, k := range [4]grantKey{
		{resource, action},
		{resource, Wildcard},
		{Wildcard, action},
		{Wildcard, Wildcard},
	} {
		if sc := s.grants[k]; sc > widest {
			widest = sc
		}
	}
	return widest
}

// Authorize decides whether the caller may perform resource.action on a
// target. sameTenant is the ownership comparison between caller and target:
// a self-scoped grant only allows the operation when it holds. The function
// has no side effects; denial reporting belongs to the caller.
func (s Set) Authorize(resource, action string, sameTenant bool) Decision {
	switch s.ScopeFor(resource, action) {
	case ScopeAll:
		return AllowedAll
	case ScopeSelf:
		if sameTenant {
			return AllowedSelf
		}
		return Denied
	default:
		return Denied
	}
}
