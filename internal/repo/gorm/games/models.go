package games

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Game is one game integration owned by a partner tenant.
type Game struct {
	gorm.Model
	TenantID    string `gorm:"size:64;index;not null"`
	Name        string `gorm:"size:128;not null"`
	Provider    string `gorm:"size:64"`
	Description string `gorm:"type:text"`
	Enabled     bool   `gorm:"default:true"`
	// Lifecycle status: dev | certifying | live | retired
	Status string `gorm:"size:32;default:dev"`
	// Launch holds integration settings (launch URL template, RTP, locales)
	// as an opaque JSON document owned by the partner.
	Launch datatypes.JSON `gorm:"type:json"`
}
