package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/auth/permission"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type GamesListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGamesListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GamesListLogic {
	return &GamesListLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GamesListLogic) GamesList(req *types.GamesListRequest) (*types.GamesListResponse, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	tenant := req.TenantID
	switch p.Perms.ScopeFor("games", "read") {
	case permission.ScopeNone:
		return nil, apperr.PermissionDenied("missing games.read")
	case permission.ScopeSelf:
		if tenant != "" && tenant != p.TenantID {
			return &types.GamesListResponse{Games: []types.GameInfo{}}, nil
		}
		tenant = p.TenantID
	}
	items, err := l.svcCtx.Games.List(l.ctx, tenant)
	if err != nil {
		return nil, err
	}
	out := make([]types.GameInfo, 0, len(items))
	for _, g := range items {
		out = append(out, gameToInfo(g))
	}
	return &types.GamesListResponse{Games: out}, nil
}
