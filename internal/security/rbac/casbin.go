package rbac

import (
	"fmt"

	"github.com/casbin/casbin/v2"
)

// CasbinResolver reads grants from a casbin enforcer. Policy rows are
// p, role:<name>, <resource>, <action>.<scope>; grouping rules (g) give role
// inheritance, so GrantsFor returns implicit grants too.
type CasbinResolver struct {
	enforcer *casbin.Enforcer
}

func NewCasbinResolver(modelPath, policyPath string) (*CasbinResolver, error) {
	e, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	return &CasbinResolver{enforcer: e}, nil
}

func (r *CasbinResolver) GrantsFor(roles []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, role := range roles {
		perms, err := r.enforcer.GetImplicitPermissionsForUser("role:" + role)
		if err != nil {
			continue
		}
		for _, p := range perms {
			// p = [sub, resource, action.scope]
			if len(p) < 3 {
				continue
			}
			g := p[1] + "." + p[2]
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}
