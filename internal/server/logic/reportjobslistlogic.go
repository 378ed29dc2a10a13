package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/reports/engine"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type ReportJobsListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReportJobsListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReportJobsListLogic {
	return &ReportJobsListLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ReportJobsListLogic) ReportJobsList(req *types.ReportJobsListRequest) (*types.ReportJobsListResponse, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	q := engine.ListQuery{
		TenantID: req.TenantID,
		TypeID:   req.TypeID,
		Status:   req.Status,
		Page:     req.Page,
		Size:     req.Size,
	}
	if req.From != "" {
		if q.From, err = parseDate(req.From); err != nil {
			return nil, apperr.Validationf("from: %v", err)
		}
	}
	if req.To != "" {
		if q.To, err = parseDate(req.To); err != nil {
			return nil, apperr.Validationf("to: %v", err)
		}
	}
	jobs, total, err := l.svcCtx.Engine.ListJobs(l.ctx, p, q)
	if err != nil {
		return nil, err
	}
	out := make([]types.JobInfo, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobToInfo(j))
	}
	return &types.ReportJobsListResponse{Jobs: out, Total: total, Page: req.Page, Size: req.Size}, nil
}
