// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"context"
	"net/http"

	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/server/middleware"
	"github.com/pitbossdev/pitboss/internal/server/svc"
)

// SetupErrorHandler maps the error taxonomy onto response codes for every
// handler that reports through httpx.
func SetupErrorHandler() {
	httpx.SetErrorHandlerCtx(func(_ context.Context, err error) (int, any) {
		code := apperr.HTTPStatus(err)
		return code, map[string]any{"code": code, "message": apperr.Message(err)}
	})
}

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	SetupErrorHandler()

	authmw := middleware.NewAuthMiddleware(serverCtx).Handle

	server.AddRoutes([]rest.Route{
		{Method: http.MethodGet, Path: "/healthz", Handler: HealthzHandler(serverCtx)},
		{Method: http.MethodPost, Path: "/auth/login", Handler: AuthLoginHandler(serverCtx)},
	}, rest.WithPrefix("/api/v1"))

	server.AddRoutes([]rest.Route{
		{Method: http.MethodGet, Path: "/auth/me", Handler: authmw(AuthMeHandler(serverCtx))},
		{Method: http.MethodGet, Path: "/ops/stats", Handler: authmw(StatsHandler(serverCtx))},

		{Method: http.MethodGet, Path: "/reports/types", Handler: authmw(ReportTypesHandler(serverCtx))},
		{Method: http.MethodPost, Path: "/reports/types/:typeId/generate", Handler: authmw(ReportGenerateHandler(serverCtx))},
		{Method: http.MethodGet, Path: "/reports/jobs", Handler: authmw(ReportJobsListHandler(serverCtx))},
		{Method: http.MethodGet, Path: "/reports/jobs/:id", Handler: authmw(ReportJobGetHandler(serverCtx))},
		{Method: http.MethodGet, Path: "/reports/jobs/:id/download", Handler: authmw(ReportJobDownloadHandler(serverCtx))},

		{Method: http.MethodGet, Path: "/games", Handler: authmw(GamesListHandler(serverCtx))},
		{Method: http.MethodPost, Path: "/games", Handler: authmw(GameCreateHandler(serverCtx))},
		{Method: http.MethodGet, Path: "/games/:id", Handler: authmw(GameGetHandler(serverCtx))},
		{Method: http.MethodPut, Path: "/games/:id", Handler: authmw(GameUpdateHandler(serverCtx))},
		{Method: http.MethodDelete, Path: "/games/:id", Handler: authmw(GameDeleteHandler(serverCtx))},

		{Method: http.MethodPost, Path: "/wallet/sessions", Handler: authmw(WalletSessionOpenHandler(serverCtx))},
		{Method: http.MethodGet, Path: "/wallet/sessions/:id", Handler: authmw(WalletSessionGetHandler(serverCtx))},
		{Method: http.MethodPost, Path: "/wallet/sessions/:id/adjust", Handler: authmw(WalletSessionAdjustHandler(serverCtx))},
		{Method: http.MethodPost, Path: "/wallet/sessions/:id/close", Handler: authmw(WalletSessionCloseHandler(serverCtx))},
	}, rest.WithPrefix("/api/v1"))
}
