package engine

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/auth"
	"github.com/pitbossdev/pitboss/internal/auth/permission"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/reports"
)

const maxPageSize = 100

// ListQuery filters a job listing. Zero-valued fields are no-ops.
type ListQuery struct {
	TenantID string
	TypeID   string
	Status   string
	From     time.Time
	To       time.Time
	Page     int
	Size     int
}

// ListJobs returns one page of jobs visible to the caller. Self scope pins
// the tenant filter to the caller's own tenant; asking for another tenant's
// jobs under self scope yields an empty page rather than an error.
func (e *Engine) ListJobs(ctx context.Context, p auth.Principal, q ListQuery) ([]*reports.Job, int64, error) {
	sc := p.Perms.ScopeFor("reports", "read")
	if sc == permission.ScopeNone {
		return nil, 0, apperr.PermissionDenied("missing reports.read")
	}
	if q.Status != "" && !reports.ValidStatus(q.Status) {
		return nil, 0, apperr.Validationf("unknown status %q", q.Status)
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return nil, 0, apperr.Validationf("date range ends before it starts")
	}
	if q.Size > maxPageSize {
		q.Size = maxPageSize
	}
	f := reports.ListFilter{
		TenantID: q.TenantID,
		TypeID:   q.TypeID,
		Status:   q.Status,
		From:     q.From,
		To:       q.To,
	}
	if sc == permission.ScopeSelf {
		if q.TenantID != "" && q.TenantID != p.TenantID {
			return []*reports.Job{}, 0, nil
		}
		f.TenantID = p.TenantID
	}
	jobs, total, err := e.jobs.List(ctx, f, q.Page, q.Size, true)
	if err != nil {
		return nil, 0, apperr.Unavailable("list report jobs", err)
	}
	return jobs, total, nil
}

// GetJob fetches one job. Under self scope another tenant's job answers
// exactly like a nonexistent id.
func (e *Engine) GetJob(ctx context.Context, p auth.Principal, id string) (*reports.Job, error) {
	sc := p.Perms.ScopeFor("reports", "read")
	if sc == permission.ScopeNone {
		return nil, apperr.PermissionDenied("missing reports.read")
	}
	job, err := e.jobs.Get(ctx, id)
	if errors.Is(err, reports.ErrNotFound) {
		return nil, apperr.NotFound("report job not found")
	}
	if err != nil {
		return nil, apperr.Unavailable("load report job", err)
	}
	if sc == permission.ScopeSelf && job.TenantID != p.TenantID {
		return nil, apperr.NotFound("report job not found")
	}
	return job, nil
}

// Download is a finished artifact ready to stream.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
}

// DownloadJob streams the artifact of a completed job. Anything short of
// completed is NotReady, which keeps "not finished" distinguishable from
// "no such job".
func (e *Engine) DownloadJob(ctx context.Context, p auth.Principal, id string) (*Download, error) {
	job, err := e.GetJob(ctx, p, id)
	if err != nil {
		return nil, err
	}
	switch job.Status {
	case reports.StatusCompleted:
	case reports.StatusFailed:
		return nil, apperr.NotReady("report generation failed: " + job.ErrorDetail)
	default:
		return nil, apperr.NotReady("report not ready")
	}
	rc, err := e.store.Open(ctx, job.ResultLocation)
	if err != nil {
		return nil, apperr.Unavailable("open report artifact", err)
	}
	d := &Download{Body: rc, ContentType: "text/csv", Filename: job.ID + ".csv"}
	if typ, ok := e.reg.Get(job.TypeID); ok {
		if typ.ContentType != "" {
			d.ContentType = typ.ContentType
		}
		if typ.Filename != "" {
			d.Filename = typ.Filename
		}
	}
	return d, nil
}
