package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/auth"
	"github.com/pitbossdev/pitboss/internal/auth/permission"
	"github.com/pitbossdev/pitboss/internal/events"
	"github.com/pitbossdev/pitboss/internal/objstore"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/reports"
	"github.com/pitbossdev/pitboss/internal/reports/generate"
	"github.com/pitbossdev/pitboss/internal/reports/registry"
)

type fixture struct {
	eng     *Engine
	jobs    *reports.Repo
	store   objstore.Store
	capture *events.Capture
}

type stubGen struct {
	fn func(ctx context.Context, job *reports.Job, typ *registry.Type) (string, error)
}

func (s stubGen) Generate(ctx context.Context, job *reports.Job, typ *registry.Type) (string, error) {
	return s.fn(ctx, job, typ)
}

// setup wires the engine without starting workers; tests drive process
// directly so state transitions stay deterministic.
func setup(t *testing.T, gen Generator) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := reports.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	jobs := reports.NewRepo(db)
	store, err := objstore.New(context.Background(), objstore.Config{Driver: "file", BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	reg, _ := registry.Load("")
	mustRegister(t, reg, &registry.Type{ID: "ggr-daily", Name: "Daily GGR", Kind: registry.KindReport,
		ContentType: "text/csv", Filename: "ggr-daily.csv",
		Parameters: map[string]any{
			"type":     "object",
			"required": []any{"date"},
			"properties": map[string]any{
				"date": map[string]any{"type": "string"},
			},
		}})
	mustRegister(t, reg, &registry.Type{ID: "settlement-monthly", Name: "Monthly settlement",
		Kind: registry.KindSettlement, ContentType: "text/csv", Filename: "settlement.csv",
		Tenants: []string{"acme"}})
	if gen == nil {
		gen = generate.NewCSV(store, nil)
	}
	capture := events.NewCapture()
	eng := New(Config{Workers: 1, QueueSize: 8, SweepInterval: 0}, jobs, reg, store, gen, capture)
	return &fixture{eng: eng, jobs: jobs, store: store, capture: capture}
}

func mustRegister(t *testing.T, reg *registry.Registry, typ *registry.Type) {
	t.Helper()
	if err := reg.Register(typ); err != nil {
		t.Fatalf("register %s: %v", typ.ID, err)
	}
}

func principal(tenant string, grants ...string) auth.Principal {
	return auth.Principal{TenantID: tenant, Perms: permission.NewSet(grants)}
}

func TestRequestGeneration_CreatesPendingJob(t *testing.T) {
	fx := setup(t, nil)
	ctx := context.Background()
	p := principal("acme", "reports.generate.self")

	job, err := fx.eng.RequestGeneration(ctx, p, "", "ggr-daily", json.RawMessage(`{"date": "2026-08-01"}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if job.Status != reports.StatusPending || job.TenantID != "acme" {
		t.Fatalf("job: %+v", job)
	}
	got, err := fx.jobs.Get(ctx, job.ID)
	if err != nil || got.Status != reports.StatusPending {
		t.Fatalf("persisted job: %+v err=%v", got, err)
	}
	evts := fx.capture.Events()
	if len(evts) != 1 || evts[0].Status != reports.StatusPending {
		t.Fatalf("events: %+v", evts)
	}
}

func TestRequestGeneration_NoDedup(t *testing.T) {
	fx := setup(t, nil)
	ctx := context.Background()
	p := principal("acme", "reports.generate.self")
	params := json.RawMessage(`{"date": "2026-08-01"}`)

	a, err := fx.eng.RequestGeneration(ctx, p, "", "ggr-daily", params)
	if err != nil {
		t.Fatal(err)
	}
	b, err := fx.eng.RequestGeneration(ctx, p, "", "ggr-daily", params)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatal("identical requests must create distinct jobs")
	}
}

func TestRequestGeneration_Authorization(t *testing.T) {
	fx := setup(t, nil)
	ctx := context.Background()
	params := json.RawMessage(`{"date": "2026-08-01"}`)

	_, err := fx.eng.RequestGeneration(ctx, principal("acme"), "", "ggr-daily", params)
	if !apperr.IsKind(err, apperr.KindPermissionDenied) {
		t.Fatalf("no grant: want PermissionDenied, got %v", err)
	}
	// self grant aimed at another tenant hides existence
	_, err = fx.eng.RequestGeneration(ctx, principal("acme", "reports.generate.self"), "rival", "ggr-daily", params)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("cross-tenant self: want NotFound, got %v", err)
	}
	// all scope may generate for any tenant
	if _, err := fx.eng.RequestGeneration(ctx, principal("ops", "reports.generate.all"), "rival", "ggr-daily", params); err != nil {
		t.Fatalf("all scope: %v", err)
	}
}

func TestRequestGeneration_TypeResolution(t *testing.T) {
	fx := setup(t, nil)
	ctx := context.Background()

	_, err := fx.eng.RequestGeneration(ctx, principal("acme", "reports.generate.self"), "", "nope", nil)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("unknown type: want NotFound, got %v", err)
	}
	// allow-listed type answers identically for a tenant outside the list
	_, err = fx.eng.RequestGeneration(ctx, principal("rival", "reports.generate.self"), "", "settlement-monthly", nil)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("disallowed tenant: want NotFound, got %v", err)
	}
	_, err = fx.eng.RequestGeneration(ctx, principal("acme", "reports.generate.self"), "", "ggr-daily", json.RawMessage(`{}`))
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("missing required param: want Validation, got %v", err)
	}
}

func TestProcess_CompletesJobAndStoresArtifact(t *testing.T) {
	fx := setup(t, nil)
	ctx := context.Background()
	p := principal("acme", "reports.generate.self", "reports.read.self")

	job, err := fx.eng.RequestGeneration(ctx, p, "", "ggr-daily", json.RawMessage(`{"date": "2026-08-01"}`))
	if err != nil {
		t.Fatal(err)
	}
	fx.eng.process(ctx, job.ID)

	got, err := fx.jobs.Get(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != reports.StatusCompleted {
		t.Fatalf("status: %s (detail %q)", got.Status, got.ErrorDetail)
	}
	if got.ResultLocation == "" || got.CompletedAt == nil {
		t.Fatalf("terminal fields missing: %+v", got)
	}
	rc, err := fx.store.Open(ctx, got.ResultLocation)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	rc.Close()

	var statuses []string
	for _, e := range fx.capture.Events() {
		statuses = append(statuses, e.Status)
	}
	want := []string{reports.StatusPending, reports.StatusProcessing, reports.StatusCompleted}
	if strings.Join(statuses, ",") != strings.Join(want, ",") {
		t.Fatalf("event sequence: %v", statuses)
	}
	if s := fx.eng.Snapshot(); s.Completed != 1 || s.Failed != 0 {
		t.Fatalf("snapshot: %+v", s)
	}
}

func TestProcess_FailureIsRecordedNotPropagated(t *testing.T) {
	gen := stubGen{fn: func(context.Context, *reports.Job, *registry.Type) (string, error) {
		return "", errors.New("upstream warehouse\ntimed out")
	}}
	fx := setup(t, gen)
	ctx := context.Background()

	job, err := fx.eng.RequestGeneration(ctx, principal("acme", "reports.generate.self"), "", "ggr-daily", json.RawMessage(`{"date": "x"}`))
	if err != nil {
		t.Fatal(err)
	}
	fx.eng.process(ctx, job.ID)

	got, _ := fx.jobs.Get(ctx, job.ID)
	if got.Status != reports.StatusFailed {
		t.Fatalf("status: %s", got.Status)
	}
	if strings.ContainsAny(got.ErrorDetail, "\n\r") {
		t.Fatalf("detail not flattened: %q", got.ErrorDetail)
	}
	if !strings.Contains(got.ErrorDetail, "upstream warehouse") {
		t.Fatalf("detail lost: %q", got.ErrorDetail)
	}
}

func TestProcess_PanicBecomesFailedJob(t *testing.T) {
	gen := stubGen{fn: func(context.Context, *reports.Job, *registry.Type) (string, error) {
		panic("nil map write")
	}}
	fx := setup(t, gen)
	ctx := context.Background()

	job, _ := fx.eng.RequestGeneration(ctx, principal("acme", "reports.generate.self"), "", "ggr-daily", json.RawMessage(`{"date": "x"}`))
	fx.eng.process(ctx, job.ID)

	got, _ := fx.jobs.Get(ctx, job.ID)
	if got.Status != reports.StatusFailed || !strings.Contains(got.ErrorDetail, "panic") {
		t.Fatalf("job: %+v", got)
	}
}

func TestProcess_SecondClaimIsNoop(t *testing.T) {
	fx := setup(t, nil)
	ctx := context.Background()

	job, _ := fx.eng.RequestGeneration(ctx, principal("acme", "reports.generate.self"), "", "ggr-daily", json.RawMessage(`{"date": "x"}`))
	fx.eng.process(ctx, job.ID)
	before, _ := fx.jobs.Get(ctx, job.ID)
	fx.eng.process(ctx, job.ID)
	after, _ := fx.jobs.Get(ctx, job.ID)

	if before.Status != after.Status || !before.CompletedAt.Equal(*after.CompletedAt) {
		t.Fatalf("terminal job changed on re-process: %+v -> %+v", before, after)
	}
	if s := fx.eng.Snapshot(); s.Claimed != 1 {
		t.Fatalf("claimed twice: %+v", s)
	}
}

func TestGetJob_TenantIsolation(t *testing.T) {
	fx := setup(t, nil)
	ctx := context.Background()

	job, _ := fx.eng.RequestGeneration(ctx, principal("acme", "reports.generate.self"), "", "ggr-daily", json.RawMessage(`{"date": "x"}`))

	_, err := fx.eng.GetJob(ctx, principal("rival", "reports.read.self"), job.ID)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("cross-tenant get: want NotFound, got %v", err)
	}
	_, missErr := fx.eng.GetJob(ctx, principal("rival", "reports.read.self"), "no-such-id")
	if apperr.Message(err) != apperr.Message(missErr) {
		t.Fatalf("foreign job and missing id must be indistinguishable: %v vs %v", err, missErr)
	}
	if _, err := fx.eng.GetJob(ctx, principal("ops", "reports.read.all"), job.ID); err != nil {
		t.Fatalf("all scope: %v", err)
	}
	_, err = fx.eng.GetJob(ctx, principal("acme"), job.ID)
	if !apperr.IsKind(err, apperr.KindPermissionDenied) {
		t.Fatalf("no grant: want PermissionDenied, got %v", err)
	}
}

func TestListJobs_ScopeAndFilters(t *testing.T) {
	fx := setup(t, nil)
	ctx := context.Background()
	params := json.RawMessage(`{"date": "x"}`)
	ops := principal("ops", "reports.generate.all", "reports.read.all")
	if _, err := fx.eng.RequestGeneration(ctx, ops, "acme", "ggr-daily", params); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.eng.RequestGeneration(ctx, ops, "rival", "ggr-daily", params); err != nil {
		t.Fatal(err)
	}

	// self scope only ever sees its own jobs
	jobs, total, err := fx.eng.ListJobs(ctx, principal("acme", "reports.read.self"), ListQuery{})
	if err != nil || total != 1 || len(jobs) != 1 || jobs[0].TenantID != "acme" {
		t.Fatalf("self list: jobs=%v total=%d err=%v", jobs, total, err)
	}
	// explicitly asking for another tenant under self scope yields nothing
	jobs, total, err = fx.eng.ListJobs(ctx, principal("acme", "reports.read.self"), ListQuery{TenantID: "rival"})
	if err != nil || total != 0 || len(jobs) != 0 {
		t.Fatalf("cross-tenant self list: jobs=%v total=%d err=%v", jobs, total, err)
	}
	// all scope sees everything and may filter by tenant
	_, total, err = fx.eng.ListJobs(ctx, ops, ListQuery{})
	if err != nil || total != 2 {
		t.Fatalf("all list: total=%d err=%v", total, err)
	}
	_, total, err = fx.eng.ListJobs(ctx, ops, ListQuery{TenantID: "rival"})
	if err != nil || total != 1 {
		t.Fatalf("all filtered list: total=%d err=%v", total, err)
	}
	// filter validation
	_, _, err = fx.eng.ListJobs(ctx, ops, ListQuery{Status: "done"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("unknown status: want Validation, got %v", err)
	}
	_, _, err = fx.eng.ListJobs(ctx, principal("acme"), ListQuery{})
	if !apperr.IsKind(err, apperr.KindPermissionDenied) {
		t.Fatalf("no grant: want PermissionDenied, got %v", err)
	}
}

func TestDownloadJob_StateGated(t *testing.T) {
	fx := setup(t, nil)
	ctx := context.Background()
	p := principal("acme", "reports.generate.self", "reports.read.self")

	job, _ := fx.eng.RequestGeneration(ctx, p, "", "ggr-daily", json.RawMessage(`{"date": "2026-08-01"}`))

	_, err := fx.eng.DownloadJob(ctx, p, job.ID)
	if !apperr.IsKind(err, apperr.KindNotReady) {
		t.Fatalf("pending download: want NotReady, got %v", err)
	}
	fx.eng.process(ctx, job.ID)

	d, err := fx.eng.DownloadJob(ctx, p, job.ID)
	if err != nil {
		t.Fatalf("completed download: %v", err)
	}
	defer d.Body.Close()
	if d.ContentType != "text/csv" || d.Filename != "ggr-daily.csv" {
		t.Fatalf("download metadata: %+v", d)
	}
	body, _ := io.ReadAll(d.Body)
	if !strings.Contains(string(body), "date") {
		t.Fatalf("artifact body: %q", body)
	}
}

func TestDownloadJob_FailedIsNotReady(t *testing.T) {
	gen := stubGen{fn: func(context.Context, *reports.Job, *registry.Type) (string, error) {
		return "", errors.New("source exploded")
	}}
	fx := setup(t, gen)
	ctx := context.Background()
	p := principal("acme", "reports.generate.self", "reports.read.self")

	job, _ := fx.eng.RequestGeneration(ctx, p, "", "ggr-daily", json.RawMessage(`{"date": "x"}`))
	fx.eng.process(ctx, job.ID)

	_, err := fx.eng.DownloadJob(ctx, p, job.ID)
	if !apperr.IsKind(err, apperr.KindNotReady) {
		t.Fatalf("failed download: want NotReady, got %v", err)
	}
	if !strings.Contains(err.Error(), "source exploded") {
		t.Fatalf("failure detail not surfaced: %v", err)
	}
}

func TestWorkerPool_DrainsQueue(t *testing.T) {
	fx := setup(t, nil)
	ctx := context.Background()
	p := principal("acme", "reports.generate.self", "reports.read.self")

	var ids []string
	for i := 0; i < 5; i++ {
		job, err := fx.eng.RequestGeneration(ctx, p, "", "ggr-daily", json.RawMessage(`{"date": "2026-08-01"}`))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, job.ID)
	}
	fx.eng.Start()
	defer fx.eng.Stop()

	deadline := time.After(5 * time.Second)
	for {
		done := 0
		for _, id := range ids {
			j, err := fx.jobs.Get(ctx, id)
			if err != nil {
				t.Fatal(err)
			}
			if reports.TerminalStatus(j.Status) {
				done++
			}
		}
		if done == len(ids) {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("queue not drained: %d/%d", done, len(ids))
		case <-time.After(20 * time.Millisecond):
		}
	}
}
