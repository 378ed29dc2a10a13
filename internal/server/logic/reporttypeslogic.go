package logic

import (
	"context"
	"sort"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/auth/permission"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type ReportTypesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReportTypesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReportTypesLogic {
	return &ReportTypesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ReportTypes lists the types the caller's tenant may generate. Cross-tenant
// readers see every type.
func (l *ReportTypesLogic) ReportTypes() (*types.ReportTypesResponse, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	tenant := p.TenantID
	switch p.Perms.ScopeFor("reports", "read") {
	case permission.ScopeNone:
		return nil, apperr.PermissionDenied("missing reports.read")
	case permission.ScopeAll:
		tenant = ""
	}
	defs := l.svcCtx.Registry.List(tenant)
	out := make([]types.ReportTypeInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, types.ReportTypeInfo{
			ID:          d.ID,
			Name:        d.Name,
			Kind:        d.Kind,
			ContentType: d.ContentType,
			Parameters:  d.Parameters,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return &types.ReportTypesResponse{Types: out}, nil
}
