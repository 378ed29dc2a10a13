package rbac

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
)

// LoadJSON reads a grants file: {"roles": {"partner": ["reports.read.self"]}}.
func LoadJSON(path string) (*StaticResolver, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Roles map[string][]string `json:"roles"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	r := NewStaticResolver()
	for role, grants := range raw.Roles {
		r.Grant(role, grants...)
	}
	return r, nil
}

// Load picks a resolver from the configured path. A .json file is a static
// grants table; otherwise the path's directory is probed for casbin files
// (rbac_model.conf + rbac_policy.csv). An empty or unusable path falls back
// to the built-in role table.
func Load(path string) Resolver {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultResolver()
	}
	if strings.HasSuffix(path, ".json") {
		if r, err := LoadJSON(path); err == nil {
			return r
		} else {
			logx.Errorf("rbac: load grants %s: %v, using defaults", path, err)
			return DefaultResolver()
		}
	}
	dir := filepath.Dir(path)
	modelPath := filepath.Join(dir, "rbac_model.conf")
	policyPath := filepath.Join(dir, "rbac_policy.csv")
	if _, err := os.Stat(modelPath); err == nil {
		if _, err := os.Stat(policyPath); err == nil {
			if r, err := NewCasbinResolver(modelPath, policyPath); err == nil {
				return r
			} else {
				logx.Errorf("rbac: casbin policy %s: %v, using defaults", dir, err)
			}
		}
	}
	return DefaultResolver()
}
