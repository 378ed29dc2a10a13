package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/server/logic"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

func GameCreateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.GameCreateRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, apperr.Validationf("invalid request: %v", err))
			return
		}
		l := logic.NewGameCreateLogic(r.Context(), svcCtx)
		resp, err := l.GameCreate(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.WriteJsonCtx(r.Context(), w, http.StatusCreated, resp)
	}
}
