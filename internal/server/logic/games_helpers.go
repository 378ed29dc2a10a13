package logic

import (
	"context"
	"errors"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/auth"
	"github.com/pitbossdev/pitboss/internal/auth/permission"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/games"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

var gameStatuses = map[string]bool{
	"dev":        true,
	"certifying": true,
	"live":       true,
	"retired":    true,
}

func gameToInfo(g *games.Game) types.GameInfo {
	return types.GameInfo{
		ID:          g.ID,
		TenantID:    g.TenantID,
		Name:        g.Name,
		Provider:    g.Provider,
		Description: g.Description,
		Status:      g.Status,
		Enabled:     g.Enabled,
	}
}

// ownedGame loads a game the caller may act on with the given games action.
// Under self scope a foreign game is indistinguishable from a missing id.
func ownedGame(ctx context.Context, svcCtx *svc.ServiceContext, p auth.Principal, id uint, action string) (*games.Game, error) {
	sc := p.Perms.ScopeFor("games", action)
	if sc == permission.ScopeNone {
		return nil, apperr.PermissionDenied("missing games." + action)
	}
	g, err := svcCtx.Games.Get(ctx, id)
	if errors.Is(err, games.ErrNotFound) {
		return nil, apperr.NotFound("game not found")
	}
	if err != nil {
		return nil, err
	}
	if sc == permission.ScopeSelf && g.TenantID != p.TenantID {
		return nil, apperr.NotFound("game not found")
	}
	return g, nil
}
