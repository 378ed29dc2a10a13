package logic

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/auth/permission"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/games"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type GameCreateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGameCreateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GameCreateLogic {
	return &GameCreateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GameCreateLogic) GameCreate(req *types.GameCreateRequest) (*types.GameInfo, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	sc := p.Perms.ScopeFor("games", "manage")
	if sc == permission.ScopeNone {
		return nil, apperr.PermissionDenied("missing games.manage")
	}
	tenant := req.TenantID
	if tenant == "" {
		tenant = p.TenantID
	}
	if sc == permission.ScopeSelf && tenant != p.TenantID {
		return nil, apperr.NotFound("not found")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validationf("name required")
	}
	status := req.Status
	if status == "" {
		status = "dev"
	}
	if !gameStatuses[status] {
		return nil, apperr.Validationf("unknown status %q", status)
	}
	g := &games.Game{
		TenantID:    tenant,
		Name:        req.Name,
		Provider:    req.Provider,
		Description: req.Description,
		Status:      status,
		Enabled:     req.Enabled,
	}
	if err := l.svcCtx.Games.Create(l.ctx, g); err != nil {
		return nil, err
	}
	l.Infof("game created: id=%d tenant=%s name=%s", g.ID, g.TenantID, g.Name)
	info := gameToInfo(g)
	return &info, nil
}
