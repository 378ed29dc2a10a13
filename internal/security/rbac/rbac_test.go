package rbac

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pitbossdev/pitboss/internal/auth/permission"
)

func TestStaticResolver_Dedup(t *testing.T) {
	r := NewStaticResolver()
	r.Grant("a", "reports.read.self", "games.read.self")
	r.Grant("b", "reports.read.self", "reports.generate.self")
	got := r.GrantsFor([]string{"a", "b", "missing"})
	if len(got) != 3 {
		t.Fatalf("expected 3 deduped grants, got %v", got)
	}
}

func TestDefaultResolver_SeedsPermissionSet(t *testing.T) {
	set := permission.NewSet(DefaultResolver().GrantsFor([]string{"partner"}))
	if d := set.Authorize("reports", "generate", true); d != permission.AllowedSelf {
		t.Fatalf("partner must generate own reports, got %v", d)
	}
	if d := set.Authorize("reports", "read", false); d != permission.Denied {
		t.Fatalf("partner must not read other tenants, got %v", d)
	}
	set = permission.NewSet(DefaultResolver().GrantsFor([]string{"admin"}))
	if d := set.Authorize("anything", "at-all", false); d != permission.AllowedAll {
		t.Fatalf("admin wildcard must allow all, got %v", d)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grants.json")
	body := `{"roles": {"auditor": ["reports.read.all", "reports.jobs.download.all"]}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("load json grants: %v", err)
	}
	got := r.GrantsFor([]string{"auditor"})
	if len(got) != 2 {
		t.Fatalf("expected 2 grants, got %v", got)
	}
}

const casbinModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

const casbinPolicy = `p, role:partner, reports, generate.self
p, role:partner, reports, read.self
p, role:operator, reports, read.all
g, role:supervisor, role:operator
`

func TestCasbinResolver_ImplicitGrants(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "rbac_model.conf")
	policyPath := filepath.Join(dir, "rbac_policy.csv")
	if err := os.WriteFile(modelPath, []byte(casbinModel), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(policyPath, []byte(casbinPolicy), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := NewCasbinResolver(modelPath, policyPath)
	if err != nil {
		t.Fatalf("casbin resolver: %v", err)
	}
	set := permission.NewSet(r.GrantsFor([]string{"partner"}))
	if d := set.Authorize("reports", "generate", true); d != permission.AllowedSelf {
		t.Fatalf("casbin partner grant missing, got %v", d)
	}
	// supervisor inherits operator via g rule
	set = permission.NewSet(r.GrantsFor([]string{"supervisor"}))
	if d := set.Authorize("reports", "read", false); d != permission.AllowedAll {
		t.Fatalf("inherited grant must resolve, got %v", d)
	}
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	r := Load("")
	if len(r.GrantsFor([]string{"admin"})) == 0 {
		t.Fatal("empty path must fall back to defaults")
	}
	r = Load(filepath.Join(t.TempDir(), "missing.json"))
	if len(r.GrantsFor([]string{"partner"})) == 0 {
		t.Fatal("missing file must fall back to defaults")
	}
}
