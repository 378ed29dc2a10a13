package logic

import (
	"context"

	"github.com/pitbossdev/pitboss/internal/server/svc"
)

type HealthzLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHealthzLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HealthzLogic {
	return &HealthzLogic{ctx: ctx, svcCtx: svcCtx}
}

func (l *HealthzLogic) Healthz() (string, error) {
	sqlDB, err := l.svcCtx.DB.DB()
	if err != nil {
		return "", err
	}
	if err := sqlDB.PingContext(l.ctx); err != nil {
		return "", err
	}
	return "ok", nil
}
