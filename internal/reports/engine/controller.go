package engine

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/auth"
	"github.com/pitbossdev/pitboss/internal/auth/permission"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/reports"
)

// authorize maps a scoped decision for a single tenant target onto the error
// taxonomy. A self grant aimed at another tenant's data answers NotFound, not
// Forbidden, so existence never leaks across tenants.
func authorize(p auth.Principal, resource, action, tenantID string) error {
	if p.Perms.Authorize(resource, action, tenantID == p.TenantID).Allowed() {
		return nil
	}
	if p.Perms.ScopeFor(resource, action) == permission.ScopeNone {
		return apperr.PermissionDenied("missing " + resource + "." + action)
	}
	return apperr.NotFound("not found")
}

// RequestGeneration validates and records a new generation job, then hands it
// to the worker pool. The job is returned in pending state; callers poll for
// completion. Each request creates its own job, identical parameter sets are
// never coalesced.
func (e *Engine) RequestGeneration(ctx context.Context, p auth.Principal, tenantID, typeID string, params json.RawMessage) (*reports.Job, error) {
	if tenantID == "" {
		tenantID = p.TenantID
	}
	if err := authorize(p, "reports", "generate", tenantID); err != nil {
		return nil, err
	}
	typ, ok := e.reg.Get(typeID)
	if !ok || !typ.AllowsTenant(tenantID) {
		return nil, apperr.NotFound("unknown report type")
	}
	if err := typ.ValidateParams(params); err != nil {
		return nil, err
	}
	job := &reports.Job{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		TypeID:     typeID,
		Parameters: datatypes.JSON(params),
		Status:     reports.StatusPending,
	}
	if err := e.jobs.Create(ctx, job); err != nil {
		return nil, apperr.Unavailable("create report job", err)
	}
	e.publish(job, "")
	e.tryEnqueue(job.ID)
	return job, nil
}
