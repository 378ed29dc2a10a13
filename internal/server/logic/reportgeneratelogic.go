package logic

import (
	"context"
	"encoding/json"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type ReportGenerateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReportGenerateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReportGenerateLogic {
	return &ReportGenerateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ReportGenerate creates a new generation job and returns it still pending.
func (l *ReportGenerateLogic) ReportGenerate(req *types.ReportGenerateRequest) (*types.ReportGenerateResponse, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	var params json.RawMessage
	if req.Parameters != nil {
		params, err = json.Marshal(req.Parameters)
		if err != nil {
			return nil, apperr.Validationf("parameters: %v", err)
		}
	}
	job, err := l.svcCtx.Engine.RequestGeneration(l.ctx, p, req.TenantID, req.TypeID, params)
	if err != nil {
		return nil, err
	}
	l.Infof("report job created: id=%s type=%s tenant=%s", job.ID, job.TypeID, job.TenantID)
	if err := l.svcCtx.Audit.Log("reports.generate", p.TenantID, job.ID, map[string]string{"type": job.TypeID}); err != nil {
		l.Errorf("audit generate: %v", err)
	}
	return &types.ReportGenerateResponse{Job: jobToInfo(job)}, nil
}
