package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type AuthMeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAuthMeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AuthMeLogic {
	return &AuthMeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AuthMeLogic) AuthMe() (*types.MeResponse, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	return &types.MeResponse{
		TenantID: p.TenantID,
		Roles:    p.Roles,
		Grants:   l.svcCtx.Grants(p.Roles),
	}, nil
}
