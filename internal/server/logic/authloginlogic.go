package logic

import (
	"context"
	"errors"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/partners"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

var ErrUnauthorized = errors.New("unauthorized")

type AuthLoginLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAuthLoginLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AuthLoginLogic {
	return &AuthLoginLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AuthLoginLogic) AuthLogin(req *types.AuthLoginRequest) (*types.AuthLoginResponse, error) {
	if req.TenantID == "" || req.Secret == "" {
		return nil, apperr.Validationf("tenant_id and secret required")
	}
	p, err := l.svcCtx.Partners.Verify(l.ctx, req.TenantID, req.Secret)
	if err != nil {
		if errors.Is(err, partners.ErrNotFound) || errors.Is(err, partners.ErrInvalidCredentials) {
			l.Infof("login rejected: tenant=%s", req.TenantID)
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	roles := p.RoleList()
	if len(roles) == 0 {
		roles = []string{"partner"}
	}
	tok, err := l.svcCtx.Tokens.Sign(p.TenantID, roles, l.svcCtx.TokenTTL)
	if err != nil {
		return nil, err
	}
	if err := l.svcCtx.Audit.Log("auth.login", p.TenantID, p.TenantID, nil); err != nil {
		l.Errorf("audit login: %v", err)
	}
	return &types.AuthLoginResponse{Token: tok, TenantID: p.TenantID, Roles: roles}, nil
}
