package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/server/logic"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

func AuthLoginHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AuthLoginRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, apperr.Validationf("invalid request: %v", err))
			return
		}
		l := logic.NewAuthLoginLogic(r.Context(), svcCtx)
		resp, err := l.AuthLogin(&req)
		if err != nil {
			if err == logic.ErrUnauthorized {
				httpx.WriteJsonCtx(r.Context(), w, http.StatusUnauthorized, map[string]any{
					"code":    http.StatusUnauthorized,
					"message": "unauthorized",
				})
				return
			}
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
