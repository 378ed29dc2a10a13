package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/rest/pathvar"

	"github.com/pitbossdev/pitboss/internal/objstore"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/partners"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/reports"
	"github.com/pitbossdev/pitboss/internal/reports/engine"
	"github.com/pitbossdev/pitboss/internal/wallet"
	"github.com/pitbossdev/pitboss/internal/server/config"
	"github.com/pitbossdev/pitboss/internal/server/middleware"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

const typeDef = `{
  "id": "ggr-daily",
  "name": "Daily GGR",
  "parameters": {
    "type": "object",
    "required": ["date"],
    "properties": {"date": {"type": "string"}}
  }
}`

func newTestCtx(t *testing.T) *svc.ServiceContext {
	t.Helper()
	SetupErrorHandler()
	typesDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(typesDir, "ggr.json"), []byte(typeDef), 0o644); err != nil {
		t.Fatal(err)
	}
	c := config.Config{
		Database: config.DatabaseConfig{DataSource: ":memory:"},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", TokenTTL: "1h"},
		Reports: config.ReportsConfig{
			TypesDir: typesDir,
			Engine:   engine.Config{Workers: 2, QueueSize: 16},
		},
		Storage: objstore.Config{Driver: "file", BaseDir: t.TempDir()},
		Wallet:  wallet.Config{Driver: "memory", TTL: time.Hour},
	}
	svcCtx := svc.NewServiceContext(c)
	t.Cleanup(svcCtx.Close)
	return svcCtx
}

func seedPartner(t *testing.T, svcCtx *svc.ServiceContext, tenant, secret string, roles ...string) {
	t.Helper()
	ctx := context.Background()
	p := &partners.Partner{TenantID: tenant, Name: tenant, Active: true}
	if len(roles) > 0 {
		p.SetRoleList(roles)
	}
	if err := svcCtx.Partners.Create(ctx, p); err != nil {
		t.Fatalf("seed partner: %v", err)
	}
	if err := svcCtx.Partners.SetSecret(ctx, tenant, secret); err != nil {
		t.Fatalf("set secret: %v", err)
	}
}

func login(t *testing.T, svcCtx *svc.ServiceContext, tenant, secret string) string {
	t.Helper()
	w := httptest.NewRecorder()
	body := `{"tenant_id": "` + tenant + `", "secret": "` + secret + `"}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	AuthLoginHandler(svcCtx)(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", w.Code, w.Body.String())
	}
	var resp types.AuthLoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Token
}

// call routes a request through the auth middleware into a handler, with
// optional path vars, the way the rest router would.
func call(svcCtx *svc.ServiceContext, h http.HandlerFunc, token, method, target, body string, vars map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, rdr)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	if len(vars) > 0 {
		r = pathvar.WithVars(r, vars)
	}
	middleware.NewAuthMiddleware(svcCtx).Handle(h)(w, r)
	return w
}

func TestLogin(t *testing.T) {
	svcCtx := newTestCtx(t)
	seedPartner(t, svcCtx, "acme", "s3cret")

	if tok := login(t, svcCtx, "acme", "s3cret"); tok == "" {
		t.Fatal("empty token")
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"tenant_id": "acme", "secret": "wrong"}`))
	r.Header.Set("Content-Type", "application/json")
	AuthLoginHandler(svcCtx)(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad secret: status %d", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	svcCtx := newTestCtx(t)
	w := call(svcCtx, ReportTypesHandler(svcCtx), "", http.MethodGet, "/api/v1/reports/types", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status %d", w.Code)
	}
	w = call(svcCtx, ReportTypesHandler(svcCtx), "garbage", http.MethodGet, "/api/v1/reports/types", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", w.Code)
	}
}

func TestReportLifecycleOverHTTP(t *testing.T) {
	svcCtx := newTestCtx(t)
	seedPartner(t, svcCtx, "acme", "s3cret")
	tok := login(t, svcCtx, "acme", "s3cret")

	// accepted, not done
	w := call(svcCtx, ReportGenerateHandler(svcCtx), tok, http.MethodPost,
		"/api/v1/reports/types/ggr-daily/generate",
		`{"parameters": {"date": "2026-08-01"}}`,
		map[string]string{"typeId": "ggr-daily"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("generate: status %d body %s", w.Code, w.Body.String())
	}
	var genResp types.ReportGenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &genResp); err != nil {
		t.Fatal(err)
	}
	if genResp.Job.Status != "pending" {
		t.Fatalf("job status at accept: %s", genResp.Job.Status)
	}

	// poll until the worker finishes
	jobID := genResp.Job.ID
	deadline := time.Now().Add(5 * time.Second)
	var jobResp types.JobInfo
	for {
		w = call(svcCtx, ReportJobGetHandler(svcCtx), tok, http.MethodGet,
			"/api/v1/reports/jobs/"+jobID, "", map[string]string{"id": jobID})
		if w.Code != http.StatusOK {
			t.Fatalf("get job: status %d body %s", w.Code, w.Body.String())
		}
		if err := json.Unmarshal(w.Body.Bytes(), &jobResp); err != nil {
			t.Fatal(err)
		}
		if jobResp.Status == "completed" || jobResp.Status == "failed" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job stuck in %s", jobResp.Status)
		}
		time.Sleep(20 * time.Millisecond)
	}
	if jobResp.Status != "completed" {
		t.Fatalf("job failed: %s", jobResp.ErrorDetail)
	}

	w = call(svcCtx, ReportJobDownloadHandler(svcCtx), tok, http.MethodGet,
		"/api/v1/reports/jobs/"+jobID+"/download", "", map[string]string{"id": jobID})
	if w.Code != http.StatusOK {
		t.Fatalf("download: status %d body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type: %s", ct)
	}
	if !strings.Contains(w.Body.String(), "date") {
		t.Fatalf("artifact body: %q", w.Body.String())
	}

	// listing shows exactly this job
	w = call(svcCtx, ReportJobsListHandler(svcCtx), tok, http.MethodGet,
		"/api/v1/reports/jobs", "", nil)
	var listResp types.ReportJobsListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatal(err)
	}
	if listResp.Total != 1 || listResp.Jobs[0].ID != jobID {
		t.Fatalf("list: %+v", listResp)
	}
}

func TestReportErrorsOverHTTP(t *testing.T) {
	svcCtx := newTestCtx(t)
	seedPartner(t, svcCtx, "acme", "s3cret")
	tok := login(t, svcCtx, "acme", "s3cret")

	w := call(svcCtx, ReportGenerateHandler(svcCtx), tok, http.MethodPost,
		"/api/v1/reports/types/nope/generate", `{}`, map[string]string{"typeId": "nope"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown type: status %d", w.Code)
	}
	w = call(svcCtx, ReportGenerateHandler(svcCtx), tok, http.MethodPost,
		"/api/v1/reports/types/ggr-daily/generate", `{"parameters": {}}`,
		map[string]string{"typeId": "ggr-daily"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing param: status %d body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "date") {
		t.Fatalf("validation must name the field: %s", w.Body.String())
	}
	w = call(svcCtx, ReportJobGetHandler(svcCtx), tok, http.MethodGet,
		"/api/v1/reports/jobs/ghost", "", map[string]string{"id": "ghost"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing job: status %d", w.Code)
	}
}

func TestDownloadBeforeCompletionIs422(t *testing.T) {
	svcCtx := newTestCtx(t)
	seedPartner(t, svcCtx, "acme", "s3cret")
	tok := login(t, svcCtx, "acme", "s3cret")

	// create the job directly so no worker picks it up
	job := &reports.Job{
		ID:       uuid.NewString(),
		TenantID: "acme",
		TypeID:   "ggr-daily",
		Status:   reports.StatusPending,
	}
	if err := svcCtx.Jobs.Create(context.Background(), job); err != nil {
		t.Fatal(err)
	}

	w := call(svcCtx, ReportJobDownloadHandler(svcCtx), tok, http.MethodGet,
		"/api/v1/reports/jobs/"+job.ID+"/download", "", map[string]string{"id": job.ID})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("early download: status %d body %s", w.Code, w.Body.String())
	}
}

func TestTenantIsolationOverHTTP(t *testing.T) {
	svcCtx := newTestCtx(t)
	seedPartner(t, svcCtx, "acme", "s3cret")
	seedPartner(t, svcCtx, "rival", "hunter2")
	acme := login(t, svcCtx, "acme", "s3cret")
	rival := login(t, svcCtx, "rival", "hunter2")

	w := call(svcCtx, ReportGenerateHandler(svcCtx), acme, http.MethodPost,
		"/api/v1/reports/types/ggr-daily/generate",
		`{"parameters": {"date": "2026-08-01"}}`,
		map[string]string{"typeId": "ggr-daily"})
	var genResp types.ReportGenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &genResp); err != nil {
		t.Fatal(err)
	}

	w = call(svcCtx, ReportJobGetHandler(svcCtx), rival, http.MethodGet,
		"/api/v1/reports/jobs/"+genResp.Job.ID, "", map[string]string{"id": genResp.Job.ID})
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign job must 404: status %d", w.Code)
	}
	w = call(svcCtx, ReportJobsListHandler(svcCtx), rival, http.MethodGet,
		"/api/v1/reports/jobs", "", nil)
	var listResp types.ReportJobsListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatal(err)
	}
	if listResp.Total != 0 {
		t.Fatalf("rival must see no jobs: %+v", listResp)
	}
}

func TestGamesCRUDOverHTTP(t *testing.T) {
	svcCtx := newTestCtx(t)
	seedPartner(t, svcCtx, "acme", "s3cret")
	tok := login(t, svcCtx, "acme", "s3cret")

	w := call(svcCtx, GameCreateHandler(svcCtx), tok, http.MethodPost, "/api/v1/games",
		`{"name": "Lucky Sevens", "provider": "slotworks", "status": "live", "enabled": true}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create game: status %d body %s", w.Code, w.Body.String())
	}
	var game types.GameInfo
	if err := json.Unmarshal(w.Body.Bytes(), &game); err != nil {
		t.Fatal(err)
	}
	if game.TenantID != "acme" {
		t.Fatalf("game tenant: %s", game.TenantID)
	}

	w = call(svcCtx, GamesListHandler(svcCtx), tok, http.MethodGet, "/api/v1/games", "", nil)
	var list types.GamesListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Games) != 1 || list.Games[0].Name != "Lucky Sevens" {
		t.Fatalf("list: %+v", list)
	}

	w = call(svcCtx, GameCreateHandler(svcCtx), tok, http.MethodPost, "/api/v1/games",
		`{"name": "Bad", "status": "bogus"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad status: %d", w.Code)
	}
}

func TestWalletSessionOverHTTP(t *testing.T) {
	svcCtx := newTestCtx(t)
	seedPartner(t, svcCtx, "acme", "s3cret")
	tok := login(t, svcCtx, "acme", "s3cret")

	w := call(svcCtx, WalletSessionOpenHandler(svcCtx), tok, http.MethodPost,
		"/api/v1/wallet/sessions", `{"player_id": "p42", "balance": "25.00"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("open: status %d body %s", w.Code, w.Body.String())
	}
	var sess types.WalletSessionInfo
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatal(err)
	}

	w = call(svcCtx, WalletSessionAdjustHandler(svcCtx), tok, http.MethodPost,
		"/api/v1/wallet/sessions/"+sess.ID+"/adjust", `{"delta": "-30"}`,
		map[string]string{"id": sess.ID})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("overdraft: status %d body %s", w.Code, w.Body.String())
	}

	w = call(svcCtx, WalletSessionCloseHandler(svcCtx), tok, http.MethodPost,
		"/api/v1/wallet/sessions/"+sess.ID+"/close", "", map[string]string{"id": sess.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("close: status %d body %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatal(err)
	}
	if sess.ClosedAt == "" {
		t.Fatalf("closed session: %+v", sess)
	}
}
