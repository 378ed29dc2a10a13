package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/server/logic"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

func GameGetHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.GameRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, apperr.Validationf("invalid request: %v", err))
			return
		}
		l := logic.NewGameGetLogic(r.Context(), svcCtx)
		resp, err := l.GameGet(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
