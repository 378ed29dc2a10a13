package logic

import (
	"context"
	"strconv"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type GameDeleteLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGameDeleteLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GameDeleteLogic {
	return &GameDeleteLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GameDeleteLogic) GameDelete(req *types.GameRequest) error {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return err
	}
	g, err := ownedGame(l.ctx, l.svcCtx, p, req.ID, "manage")
	if err != nil {
		return err
	}
	if err := l.svcCtx.Games.Delete(l.ctx, g.ID); err != nil {
		return err
	}
	l.Infof("game deleted: id=%d tenant=%s", g.ID, g.TenantID)
	if err := l.svcCtx.Audit.Log("games.delete", p.TenantID, strconv.FormatUint(uint64(g.ID), 10), nil); err != nil {
		l.Errorf("audit delete: %v", err)
	}
	return nil
}
