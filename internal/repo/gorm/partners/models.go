package partners

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Partner is one B2B tenant. TenantID is the external identifier carried in
// tokens and job records; the numeric primary key never leaves this package.
type Partner struct {
	gorm.Model
	TenantID   string `gorm:"size:64;uniqueIndex;not null"`
	Name       string `gorm:"size:128"`
	SecretHash string `gorm:"size:128"`
	Active     bool   `gorm:"default:true"`
	// Roles granted to this partner's API credentials (JSON array of strings).
	Roles datatypes.JSON `gorm:"type:json"`
}

func (p *Partner) RoleList() []string {
	var arr []string
	if len(p.Roles) == 0 {
		return arr
	}
	_ = json.Unmarshal(p.Roles, &arr)
	return arr
}

func (p *Partner) SetRoleList(roles []string) {
	b, _ := json.Marshal(roles)
	p.Roles = b
}
