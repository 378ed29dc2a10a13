// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package config

import (
	"github.com/zeromicro/go-zero/rest"

	"github.com/pitbossdev/pitboss/internal/events"
	"github.com/pitbossdev/pitboss/internal/objstore"
	"github.com/pitbossdev/pitboss/internal/reports/engine"
	"github.com/pitbossdev/pitboss/internal/wallet"
)

type Config struct {
	rest.RestConf
	Database DatabaseConfig  `json:"database"`
	Auth     AuthConfig      `json:"auth"`
	Reports  ReportsConfig   `json:"reports"`
	Storage  objstore.Config `json:"storage"`
	Events   events.Config   `json:"events"`
	Wallet   wallet.Config   `json:"wallet"`
	Audit    AuditConfig     `json:"audit,optional"`
}

type AuditConfig struct {
	// Path enables the hash-chained audit trail when non-empty.
	Path string `json:"path,optional"`
}

type DatabaseConfig struct {
	// DataSource is a postgres:// URL or a sqlite path; empty falls back to
	// a local sqlite file.
	DataSource string `json:"datasource,optional"`
}

type AuthConfig struct {
	JWTSecret string `json:"jwt_secret"`
	// TokenTTL is a duration string, e.g. "12h".
	TokenTTL string `json:"token_ttl,optional"`
	// RBACConfig is a roles JSON file or a casbin model/policy directory;
	// empty uses the built-in role table.
	RBACConfig string `json:"rbac_config,optional"`
}

type ReportsConfig struct {
	// TypesDir holds the report type definition files.
	TypesDir string        `json:"types_dir,optional"`
	Watch    bool          `json:"watch,optional"`
	Engine   engine.Config `json:"engine"`
}
