package reports

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned by Get for unknown job ids.
var ErrNotFound = errors.New("report job not found")

// maxErrorDetail bounds what we persist from a generation failure. The
// stored detail is what a polling client eventually sees, so it is truncated
// here, at the boundary, not at render time.
const maxErrorDetail = 500

// Repo provides GORM-based persistence for report jobs.
type Repo struct{ db *gorm.DB }

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(&Job{}) }
func NewRepo(db *gorm.DB) *Repo     { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, j *Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *Repo) Get(ctx context.Context, id string) (*Job, error) {
	var j Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// ListFilter is a pure conjunction; zero-valued fields are no-ops.
type ListFilter struct {
	TenantID string // empty means unrestricted ("all" scope)
	TypeID   string
	Status   string
	From     time.Time // on created_at, inclusive
	To       time.Time // on created_at, exclusive
}

// List returns one page of matching jobs plus the total match count.
// sortDesc orders by created_at descending (the default listing order).
func (r *Repo) List(ctx context.Context, f ListFilter, page, size int, sortDesc bool) ([]*Job, int64, error) {
	q := r.db.WithContext(ctx).Model(&Job{})
	if f.TenantID != "" {
		q = q.Where("tenant_id = ?", f.TenantID)
	}
	if f.TypeID != "" {
		q = q.Where("type_id = ?", f.TypeID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := "created_at ASC, id ASC"
	if sortDesc {
		order = "created_at DESC, id DESC"
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	var arr []*Job
	if err := q.Order(order).Offset((page - 1) * size).Limit(size).Find(&arr).Error; err != nil {
		return nil, 0, err
	}
	return arr, total, nil
}

// ClaimPending atomically moves the job from pending to processing and
// reports whether this caller won the transition. Concurrent duplicate
// triggers race on the conditional UPDATE; exactly one sees claimed=true.
func (r *Repo) ClaimPending(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusProcessing)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkCompleted finishes a processing job with its artifact location.
func (r *Repo) MarkCompleted(ctx context.Context, id, location string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, StatusProcessing).
		Updates(map[string]any{
			"status":          StatusCompleted,
			"result_location": location,
			"completed_at":    &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkFailed finishes a processing job with a bounded error detail.
func (r *Repo) MarkFailed(ctx context.Context, id, detail string) error {
	now := time.Now().UTC()
	detail = strings.TrimSpace(detail)
	if len(detail) > maxErrorDetail {
		detail = detail[:maxErrorDetail]
	}
	if detail == "" {
		detail = "generation failed"
	}
	res := r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, StatusProcessing).
		Updates(map[string]any{
			"status":       StatusFailed,
			"error_detail": detail,
			"completed_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PendingIDs lists the oldest pending job ids up to limit. The dispatch
// sweep uses this to re-enqueue jobs that missed the in-process queue.
func (r *Repo) PendingIDs(ctx context.Context, limit int) ([]string, error) {
	if limit < 1 {
		limit = 100
	}
	var ids []string
	err := r.db.WithContext(ctx).Model(&Job{}).
		Where("status = ?", StatusPending).
		Order("created_at ASC").Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// StuckProcessing lists jobs sitting in processing since before the cutoff.
// Staleness is judged on updated_at, which the claim touches, so time spent
// waiting in pending does not count. This subsystem never auto-retries; the
// list feeds an external reconciliation sweep.
func (r *Repo) StuckProcessing(ctx context.Context, cutoff time.Time) ([]*Job, error) {
	var arr []*Job
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", StatusProcessing, cutoff).
		Order("updated_at ASC").Find(&arr).Error
	if err != nil {
		return nil, err
	}
	return arr, nil
}
