// Package registry indexes report/settlement type definitions. Each type
// declares a JSON Schema for its parameters and an optional tenant allow
// list; the pipeline controller consults the registry before creating jobs.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/pitbossdev/pitboss/internal/apperr"
)

// Kinds of generated artifacts.
const (
	KindReport     = "report"
	KindSettlement = "settlement"
)

// Type is one report/settlement definition, loaded from a JSON or YAML file.
type Type struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Kind        string         `json:"kind" yaml:"kind"`
	ContentType string         `json:"content_type" yaml:"content_type"`
	Filename    string         `json:"filename" yaml:"filename"`
	Tenants     []string       `json:"tenants" yaml:"tenants"`
	Parameters  map[string]any `json:"parameters" yaml:"parameters"`

	schema *gojsonschema.Schema
}

// AllowsTenant reports whether the tenant may use this type. An empty allow
// list means every tenant.
func (t *Type) AllowsTenant(tenantID string) bool {
	if len(t.Tenants) == 0 {
		return true
	}
	for _, id := range t.Tenants {
		if id == tenantID {
			return true
		}
	}
	return false
}

// ValidateParams checks a parameters document against the type's schema and
// returns a Validation error naming the offending field.
func (t *Type) ValidateParams(params []byte) error {
	if t.schema == nil {
		return nil
	}
	if len(params) == 0 {
		params = []byte("{}")
	}
	res, err := t.schema.Validate(gojsonschema.NewBytesLoader(params))
	if err != nil {
		return apperr.Validationf("parameters: %v", err)
	}
	if res.Valid() {
		return nil
	}
	e := res.Errors()[0]
	field := e.Field()
	if prop, ok := e.Details()["property"].(string); ok && (field == "(root)" || field == "") {
		field = prop
	}
	return apperr.Validationf("parameter %s: %s", field, e.Description())
}

func (t *Type) compile() error {
	if t.Parameters == nil {
		return nil
	}
	raw, err := json.Marshal(t.Parameters)
	if err != nil {
		return err
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	t.schema = s
	return nil
}

// ParseFile loads one definition file (.json, .yaml, .yml) and compiles its
// parameter schema.
func ParseFile(path string) (*Type, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Type
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, &t)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &t)
	default:
		return nil, fmt.Errorf("unsupported definition file: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if strings.TrimSpace(t.ID) == "" {
		return nil, fmt.Errorf("%s: missing type id", path)
	}
	if t.Kind == "" {
		t.Kind = KindReport
	}
	if t.Kind != KindReport && t.Kind != KindSettlement {
		return nil, fmt.Errorf("%s: unknown kind %q", path, t.Kind)
	}
	if t.ContentType == "" {
		t.ContentType = "text/csv"
	}
	if t.Filename == "" {
		t.Filename = t.ID + ".csv"
	}
	if err := t.compile(); err != nil {
		return nil, fmt.Errorf("%s: parameter schema: %w", path, err)
	}
	return &t, nil
}

// Registry holds the current type index. Reload swaps the whole index;
// readers always see a consistent snapshot.
type Registry struct {
	dir   string
	mu    sync.RWMutex
	types map[string]*Type
}

// Load reads every definition file under dir. A missing dir yields an empty
// registry rather than an error so a service can boot before types land.
func Load(dir string) (*Registry, error) {
	r := &Registry{dir: dir, types: map[string]*Type{}}
	if strings.TrimSpace(dir) == "" {
		return r, nil
	}
	if err := r.Reload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return r, nil
}

func (r *Registry) Reload() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return err
	}
	next := map[string]*Type{}
	var firstErr error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}
		t, err := ParseFile(filepath.Join(r.dir, e.Name()))
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		next[t.ID] = t
	}
	r.mu.Lock()
	r.types = next
	r.mu.Unlock()
	return firstErr
}

func (r *Registry) Get(id string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[id]
	return t, ok
}

// List returns the types visible to a tenant; empty tenantID lists all.
func (r *Registry) List(tenantID string) []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		if tenantID != "" && !t.AllowsTenant(tenantID) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Register inserts a type directly; used by tests and seeding.
func (r *Registry) Register(t *Type) error {
	if t == nil || strings.TrimSpace(t.ID) == "" {
		return errors.New("type id required")
	}
	if t.schema == nil && t.Parameters != nil {
		if err := t.compile(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.types[t.ID] = t
	r.mu.Unlock()
	return nil
}
