// Package auth carries the authenticated caller identity through request
// handling.
package auth

import (
	"context"

	"github.com/pitbossdev/pitboss/internal/auth/permission"
)

// Principal is the authenticated API caller. Perms is derived once from the
// caller's roles when the token is verified.
type Principal struct {
	TenantID string
	Roles    []string
	Perms    permission.Set
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the caller set by the auth middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
