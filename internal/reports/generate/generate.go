// Package generate renders report artifacts and stores them. The engine only
// sees the Generator interface; this package provides the CSV implementation
// used by every built-in type.
package generate

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/pitbossdev/pitboss/internal/objstore"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/reports"
	"github.com/pitbossdev/pitboss/internal/reports/registry"
)

// RowSource produces the tabular content for one job. Implementations pull
// from whatever backs the report type (job metadata, game catalog, wallet
// ledger); the job carries the tenant the rows must be scoped to.
type RowSource interface {
	Rows(ctx context.Context, job *reports.Job, typ *registry.Type, params map[string]any) (header []string, rows [][]string, err error)
}

// CSV renders a job through a RowSource and stores the result as a CSV
// artifact keyed by tenant/type/job.
type CSV struct {
	store objstore.Store
	src   RowSource
}

func NewCSV(store objstore.Store, src RowSource) *CSV {
	if src == nil {
		src = SummarySource{}
	}
	return &CSV{store: store, src: src}
}

func (g *CSV) Generate(ctx context.Context, job *reports.Job, typ *registry.Type) (string, error) {
	var params map[string]any
	if len(job.Parameters) > 0 {
		if err := json.Unmarshal(job.Parameters, &params); err != nil {
			return "", fmt.Errorf("decode job parameters: %w", err)
		}
	}
	header, rows, err := g.src.Rows(ctx, job, typ, params)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return "", err
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	key := ArtifactKey(job, typ)
	if err := g.store.Put(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), typ.ContentType); err != nil {
		return "", fmt.Errorf("store artifact: %w", err)
	}
	return key, nil
}

// ArtifactKey is where a job's artifact lives in the store.
func ArtifactKey(job *reports.Job, typ *registry.Type) string {
	ext := path.Ext(typ.Filename)
	if ext == "" {
		ext = ".csv"
	}
	return path.Join(job.TenantID, typ.ID, job.ID+ext)
}

// SummarySource emits one row per request parameter. It backs ad hoc types
// that declare no dedicated source.
type SummarySource struct{}

func (SummarySource) Rows(_ context.Context, _ *reports.Job, typ *registry.Type, params map[string]any) ([]string, [][]string, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{typ.ID, k, fmt.Sprint(params[k])})
	}
	return []string{"type", "parameter", "value"}, rows, nil
}

// SourceMux routes each type id to its own source, falling back to a default.
type SourceMux struct {
	byType   map[string]RowSource
	fallback RowSource
}

func NewSourceMux(fallback RowSource) *SourceMux {
	if fallback == nil {
		fallback = SummarySource{}
	}
	return &SourceMux{byType: map[string]RowSource{}, fallback: fallback}
}

func (m *SourceMux) Handle(typeID string, src RowSource) {
	m.byType[strings.ToLower(typeID)] = src
}

func (m *SourceMux) Rows(ctx context.Context, job *reports.Job, typ *registry.Type, params map[string]any) ([]string, [][]string, error) {
	if src, ok := m.byType[strings.ToLower(typ.ID)]; ok {
		return src.Rows(ctx, job, typ, params)
	}
	return m.fallback.Rows(ctx, job, typ, params)
}
