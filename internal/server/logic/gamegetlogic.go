package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type GameGetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGameGetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GameGetLogic {
	return &GameGetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GameGetLogic) GameGet(req *types.GameRequest) (*types.GameInfo, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	g, err := ownedGame(l.ctx, l.svcCtx, p, req.ID, "read")
	if err != nil {
		return nil, err
	}
	info := gameToInfo(g)
	return &info, nil
}
