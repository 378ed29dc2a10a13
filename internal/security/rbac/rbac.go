// Package rbac resolves authenticated roles into capability grant strings
// ("resource.action.scope") that seed a permission.Set. The resolver is the
// only place role names mean anything; downstream code sees grants only.
package rbac

// Resolver maps role names to capability grants.
type Resolver interface {
	GrantsFor(roles []string) []string
}

// StaticResolver holds an in-memory role -> grants table.
type StaticResolver struct {
	roles map[string][]string
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{roles: map[string][]string{}}
}

func (r *StaticResolver) Grant(role string, grants ...string) {
	r.roles[role] = append(r.roles[role], grants...)
}

func (r *StaticResolver) GrantsFor(roles []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, role := range roles {
		for _, g := range r.roles[role] {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}

// DefaultResolver returns the built-in role table used when no policy file
// is configured. Partner integrations get self-scoped access; back-office
// roles get cross-tenant read or full access.
func DefaultResolver() *StaticResolver {
	r := NewStaticResolver()
	r.Grant("partner",
		"reports.read.self",
		"reports.generate.self",
		"games.read.self",
		"games.manage.self",
		"wallets.sessions.self",
	)
	r.Grant("operator",
		"reports.read.all",
		"games.read.all",
	)
	r.Grant("admin", "*.*.all")
	return r
}
