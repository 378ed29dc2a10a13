package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/reports/engine"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type ReportJobDownloadLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReportJobDownloadLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReportJobDownloadLogic {
	return &ReportJobDownloadLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ReportJobDownload returns the artifact stream; the handler owns closing it.
func (l *ReportJobDownloadLogic) ReportJobDownload(req *types.ReportJobRequest) (*engine.Download, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	return l.svcCtx.Engine.DownloadJob(l.ctx, p, req.ID)
}
