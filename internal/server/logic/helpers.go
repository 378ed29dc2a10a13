package logic

import (
	"context"
	"time"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/auth"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/reports"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

func principalFrom(ctx context.Context) (auth.Principal, error) {
	p, ok := auth.FromContext(ctx)
	if !ok {
		return auth.Principal{}, apperr.PermissionDenied("unauthenticated")
	}
	return p, nil
}

func jobToInfo(j *reports.Job) types.JobInfo {
	info := types.JobInfo{
		ID:          j.ID,
		TenantID:    j.TenantID,
		TypeID:      j.TypeID,
		Status:      j.Status,
		ErrorDetail: j.ErrorDetail,
		CreatedAt:   j.CreatedAt.UTC().Format(time.RFC3339),
	}
	if j.CompletedAt != nil {
		info.CompletedAt = j.CompletedAt.UTC().Format(time.RFC3339)
	}
	return info
}

// parseDate accepts a plain date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
