package middleware

import (
	"net/http"
	"strings"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/pitbossdev/pitboss/internal/auth"
	"github.com/pitbossdev/pitboss/internal/server/svc"
)

// AuthMiddleware verifies the bearer token and installs the derived
// principal in the request context. Permission checks happen downstream
// against the principal's grant set.
type AuthMiddleware struct {
	svcCtx *svc.ServiceContext
}

func NewAuthMiddleware(svcCtx *svc.ServiceContext) *AuthMiddleware {
	return &AuthMiddleware{svcCtx: svcCtx}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			unauthorized(w, r)
			return
		}
		tenantID, roles, err := m.svcCtx.Tokens.Verify(raw)
		if err != nil {
			unauthorized(w, r)
			return
		}
		p := m.svcCtx.PrincipalFor(tenantID, roles)
		next(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return ""
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJsonCtx(r.Context(), w, http.StatusUnauthorized, map[string]any{
		"code":    http.StatusUnauthorized,
		"message": "unauthorized",
	})
}
