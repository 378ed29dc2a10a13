package partners

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("partner not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repo struct{ db *gorm.DB }

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(&Partner{}) }
func New(db *gorm.DB) *Repo         { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, p *Partner) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repo) GetByTenantID(ctx context.Context, tenantID string) (*Partner, error) {
	var p Partner
	if err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context) ([]*Partner, error) {
	var arr []*Partner
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&arr).Error; err != nil {
		return nil, err
	}
	return arr, nil
}

// SetSecret hashes and stores the API secret for a tenant.
func (r *Repo) SetSecret(ctx context.Context, tenantID, plain string) error {
	if strings.TrimSpace(plain) == "" {
		return errors.New("empty secret")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&Partner{}).
		Where("tenant_id = ?", tenantID).
		Update("secret_hash", string(h)).Error
}

// Verify checks tenant credentials and returns the partner on success.
func (r *Repo) Verify(ctx context.Context, tenantID, plain string) (*Partner, error) {
	p, err := r.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if p.SecretHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.SecretHash), []byte(plain)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !p.Active {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}
