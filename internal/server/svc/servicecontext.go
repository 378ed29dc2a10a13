// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package svc

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"gorm.io/gorm"

	"github.com/pitbossdev/pitboss/internal/audit"
	"github.com/pitbossdev/pitboss/internal/auth"
	"github.com/pitbossdev/pitboss/internal/auth/permission"
	"github.com/pitbossdev/pitboss/internal/db"
	"github.com/pitbossdev/pitboss/internal/events"
	"github.com/pitbossdev/pitboss/internal/objstore"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/games"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/partners"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/reports"
	"github.com/pitbossdev/pitboss/internal/reports/engine"
	"github.com/pitbossdev/pitboss/internal/reports/generate"
	"github.com/pitbossdev/pitboss/internal/reports/registry"
	"github.com/pitbossdev/pitboss/internal/security/rbac"
	"github.com/pitbossdev/pitboss/internal/security/token"
	"github.com/pitbossdev/pitboss/internal/wallet"
	"github.com/pitbossdev/pitboss/internal/server/config"
)

type ServiceContext struct {
	Config   config.Config
	DB       *gorm.DB
	Jobs     *reports.Repo
	Games    *games.Repo
	Partners *partners.Repo
	Registry *registry.Registry
	Engine   *engine.Engine
	Store    objstore.Store
	Events   events.Queue
	Wallet   *wallet.Service
	Tokens   *token.Manager
	TokenTTL time.Duration
	Audit    *audit.Trail

	resolver    rbac.Resolver
	cancelWatch context.CancelFunc
}

func NewServiceContext(c config.Config) *ServiceContext {
	gdb, err := db.Open(c.Database.DataSource)
	logx.Must(err)
	logx.Must(reports.AutoMigrate(gdb))
	logx.Must(games.AutoMigrate(gdb))
	logx.Must(partners.AutoMigrate(gdb))

	store, err := objstore.New(context.Background(), c.Storage)
	logx.Must(err)

	reg, err := registry.Load(c.Reports.TypesDir)
	logx.Must(err)

	gamesRepo := games.NewRepo(gdb)
	jobsRepo := reports.NewRepo(gdb)

	src := generate.NewSourceMux(nil)
	src.Handle("games-catalog", generate.NewGamesCatalogSource(gamesRepo))
	gen := generate.NewCSV(store, src)

	queue := events.New(c.Events)
	eng := engine.New(c.Reports.Engine, jobsRepo, reg, store, gen, queue)
	eng.Start()

	wstore, err := wallet.New(c.Wallet)
	logx.Must(err)

	var trail *audit.Trail
	if c.Audit.Path != "" {
		trail, err = audit.Open(c.Audit.Path)
		logx.Must(err)
	}

	ttl := time.Duration(0)
	if c.Auth.TokenTTL != "" {
		ttl, err = time.ParseDuration(c.Auth.TokenTTL)
		logx.Must(err)
	}

	svcCtx := &ServiceContext{
		Config:   c,
		DB:       gdb,
		Jobs:     jobsRepo,
		Games:    gamesRepo,
		Partners: partners.New(gdb),
		Registry: reg,
		Engine:   eng,
		Store:    store,
		Events:   queue,
		Wallet:   wallet.NewService(wstore),
		Tokens:   token.NewManager(c.Auth.JWTSecret),
		TokenTTL: ttl,
		Audit:    trail,
		resolver: rbac.Load(c.Auth.RBACConfig),
	}
	if c.Reports.Watch && c.Reports.TypesDir != "" {
		ctx, cancel := context.WithCancel(context.Background())
		svcCtx.cancelWatch = cancel
		go func() {
			if err := reg.Watch(ctx); err != nil {
				logx.Errorf("report type watcher stopped: %v", err)
			}
		}()
	}
	return svcCtx
}

// PrincipalFor derives the request principal from verified token claims.
// Permissions are resolved from roles here, once per request.
func (s *ServiceContext) PrincipalFor(tenantID string, roles []string) auth.Principal {
	return auth.Principal{
		TenantID: tenantID,
		Roles:    roles,
		Perms:    permission.NewSet(s.resolver.GrantsFor(roles)),
	}
}

// Grants lists the capability strings the roles resolve to.
func (s *ServiceContext) Grants(roles []string) []string {
	return s.resolver.GrantsFor(roles)
}

// Close stops background work. Safe to call once at shutdown.
func (s *ServiceContext) Close() {
	if s.cancelWatch != nil {
		s.cancelWatch()
	}
	s.Engine.Stop()
	if err := s.Events.Close(); err != nil {
		logx.Errorf("close event queue: %v", err)
	}
	if err := s.Audit.Close(); err != nil {
		logx.Errorf("close audit trail: %v", err)
	}
}
