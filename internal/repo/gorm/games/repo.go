package games

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("game not found")

// Repo provides GORM-based persistence for game integrations.
type Repo struct{ db *gorm.DB }

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(&Game{}) }
func NewRepo(db *gorm.DB) *Repo     { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, g *Game) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *Repo) Update(ctx context.Context, g *Game) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *Repo) Get(ctx context.Context, id uint) (*Game, error) {
	var g Game
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns games, restricted to one tenant when tenantID is non-empty.
func (r *Repo) List(ctx context.Context, tenantID string) ([]*Game, error) {
	q := r.db.WithContext(ctx).Order("updated_at DESC")
	if tenantID != "" {
		q = q.Where("tenant_id = ?", tenantID)
	}
	var arr []*Game
	if err := q.Find(&arr).Error; err != nil {
		return nil, err
	}
	return arr, nil
}

func (r *Repo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Game{}, id).Error
}
