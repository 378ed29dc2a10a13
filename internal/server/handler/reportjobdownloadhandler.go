package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/server/logic"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

// ReportJobDownloadHandler streams the finished artifact as an attachment.
func ReportJobDownloadHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ReportJobRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, apperr.Validationf("invalid request: %v", err))
			return
		}
		l := logic.NewReportJobDownloadLogic(r.Context(), svcCtx)
		d, err := l.ReportJobDownload(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		defer d.Body.Close()
		w.Header().Set("Content-Type", d.ContentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(d.Filename))
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, d.Body); err != nil {
			logx.WithContext(r.Context()).Errorf("stream artifact for job %s: %v", req.ID, err)
		}
	}
}
