package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/auth/permission"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type StatsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewStatsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *StatsLogic {
	return &StatsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Stats exposes pipeline counters to back-office callers.
func (l *StatsLogic) Stats() (*types.StatsResponse, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	if p.Perms.ScopeFor("reports", "read") != permission.ScopeAll {
		return nil, apperr.PermissionDenied("missing reports.read.all")
	}
	s := l.svcCtx.Engine.Snapshot()
	return &types.StatsResponse{
		Claimed:    s.Claimed,
		Completed:  s.Completed,
		Failed:     s.Failed,
		QueueDepth: s.QueueDepth,
	}, nil
}
