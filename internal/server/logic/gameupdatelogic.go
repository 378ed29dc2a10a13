package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type GameUpdateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGameUpdateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GameUpdateLogic {
	return &GameUpdateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GameUpdateLogic) GameUpdate(req *types.GameUpdateRequest) (*types.GameInfo, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	g, err := ownedGame(l.ctx, l.svcCtx, p, req.ID, "manage")
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		g.Name = req.Name
	}
	if req.Provider != "" {
		g.Provider = req.Provider
	}
	if req.Description != "" {
		g.Description = req.Description
	}
	if req.Status != "" {
		if !gameStatuses[req.Status] {
			return nil, apperr.Validationf("unknown status %q", req.Status)
		}
		g.Status = req.Status
	}
	if req.Enabled != nil {
		g.Enabled = *req.Enabled
	}
	if err := l.svcCtx.Games.Update(l.ctx, g); err != nil {
		return nil, err
	}
	info := gameToInfo(g)
	return &info, nil
}
