package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type ReportJobGetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReportJobGetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReportJobGetLogic {
	return &ReportJobGetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ReportJobGetLogic) ReportJobGet(req *types.ReportJobRequest) (*types.JobInfo, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	job, err := l.svcCtx.Engine.GetJob(l.ctx, p, req.ID)
	if err != nil {
		return nil, err
	}
	info := jobToInfo(job)
	return &info, nil
}
