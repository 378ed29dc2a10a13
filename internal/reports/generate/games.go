package generate

import (
	"context"
	"strconv"

	"github.com/pitbossdev/pitboss/internal/repo/gorm/games"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/reports"
	"github.com/pitbossdev/pitboss/internal/reports/registry"
)

// GamesCatalogSource renders the tenant's game catalog. Backs the
// games-catalog report type.
type GamesCatalogSource struct {
	repo *games.Repo
}

func NewGamesCatalogSource(repo *games.Repo) *GamesCatalogSource {
	return &GamesCatalogSource{repo: repo}
}

func (s *GamesCatalogSource) Rows(ctx context.Context, job *reports.Job, _ *registry.Type, params map[string]any) ([]string, [][]string, error) {
	items, err := s.repo.List(ctx, job.TenantID)
	if err != nil {
		return nil, nil, err
	}
	status, _ := params["status"].(string)
	header := []string{"name", "provider", "status", "enabled"}
	rows := make([][]string, 0, len(items))
	for _, g := range items {
		if status != "" && g.Status != status {
			continue
		}
		rows = append(rows, []string{g.Name, g.Provider, g.Status, strconv.FormatBool(g.Enabled)})
	}
	return header, rows, nil
}
