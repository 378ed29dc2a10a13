// Package admincmd implements the pitboss admin subcommands: migrations,
// partner onboarding, report type validation and job reconciliation.
package admincmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pitbossdev/pitboss/internal/audit"
	"github.com/pitbossdev/pitboss/internal/cli/common"
	"github.com/pitbossdev/pitboss/internal/db"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/games"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/partners"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/reports"
	"github.com/pitbossdev/pitboss/internal/reports/registry"
)

func New() *cobra.Command {
	cmd := &cobra.Command{Use: "admin", Short: "Administrative tasks"}
	cmd.AddCommand(newMigrate())
	cmd.AddCommand(newPartner())
	cmd.AddCommand(newTypes())
	cmd.AddCommand(newJobs())
	cmd.AddCommand(newAudit())
	return cmd
}

func newAudit() *cobra.Command {
	cmd := &cobra.Command{Use: "audit", Short: "Audit trail tools"}

	var file string
	verify := &cobra.Command{
		Use:   "verify",
		Short: "Check the hash chain of an audit trail file",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := audit.Verify(file)
			if err != nil {
				return fmt.Errorf("after %d valid record(s): %w", n, err)
			}
			fmt.Printf("OK: %d record(s)\n", n)
			return nil
		},
	}
	verify.Flags().StringVar(&file, "file", "data/audit.log", "audit trail file")
	cmd.AddCommand(verify)
	return cmd
}

func openDB(cfgPath string) (*gorm.DB, error) {
	v, err := common.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	return db.Open(common.DataSource(v))
}

func newMigrate() *cobra.Command {
	var cfgPath string
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDB(cfgPath)
			if err != nil {
				return err
			}
			for name, fn := range map[string]func() error{
				"report_jobs": func() error { return reports.AutoMigrate(d) },
				"games":       func() error { return games.AutoMigrate(d) },
				"partners":    func() error { return partners.AutoMigrate(d) },
			} {
				if err := fn(); err != nil {
					return fmt.Errorf("migrate %s: %w", name, err)
				}
				slog.Info("migrated", "table", name)
			}
			return nil
		},
	}
	c.Flags().StringVar(&cfgPath, "config", "etc/server.yaml", "config file path")
	return c
}

func newPartner() *cobra.Command {
	cmd := &cobra.Command{Use: "partner", Short: "Manage partner tenants"}

	var cfgPath, tenant, name, secret, roles string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a partner tenant with API credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tenant == "" || secret == "" {
				return fmt.Errorf("--tenant and --secret required")
			}
			d, err := openDB(cfgPath)
			if err != nil {
				return err
			}
			repo := partners.New(d)
			ctx := context.Background()
			p := &partners.Partner{TenantID: tenant, Name: name, Active: true}
			if roles != "" {
				p.SetRoleList(strings.Split(roles, ","))
			}
			if err := repo.Create(ctx, p); err != nil {
				return err
			}
			if err := repo.SetSecret(ctx, tenant, secret); err != nil {
				return err
			}
			slog.Info("partner created", "tenant", tenant, "roles", roles)
			return nil
		},
	}
	add.Flags().StringVar(&cfgPath, "config", "etc/server.yaml", "config file path")
	add.Flags().StringVar(&tenant, "tenant", "", "tenant id")
	add.Flags().StringVar(&name, "name", "", "display name")
	add.Flags().StringVar(&secret, "secret", "", "API secret")
	add.Flags().StringVar(&roles, "roles", "partner", "comma separated roles")
	cmd.AddCommand(add)

	var listCfg string
	list := &cobra.Command{
		Use:   "list",
		Short: "List partner tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDB(listCfg)
			if err != nil {
				return err
			}
			arr, err := partners.New(d).List(context.Background())
			if err != nil {
				return err
			}
			for _, p := range arr {
				fmt.Printf("%s\t%s\tactive=%t\troles=%s\n",
					p.TenantID, p.Name, p.Active, strings.Join(p.RoleList(), ","))
			}
			return nil
		},
	}
	list.Flags().StringVar(&listCfg, "config", "etc/server.yaml", "config file path")
	cmd.AddCommand(list)
	return cmd
}

func newTypes() *cobra.Command {
	cmd := &cobra.Command{Use: "types", Short: "Manage report type definitions"}

	var dir string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Parse every definition file and compile its parameter schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return err
			}
			var bad int
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				switch strings.ToLower(filepath.Ext(e.Name())) {
				case ".json", ".yaml", ".yml":
				default:
					continue
				}
				t, err := registry.ParseFile(filepath.Join(dir, e.Name()))
				if err != nil {
					bad++
					fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", e.Name(), err)
					continue
				}
				fmt.Printf("OK   %s (%s, %s)\n", e.Name(), t.ID, t.Kind)
			}
			if bad > 0 {
				return fmt.Errorf("%d invalid definition(s)", bad)
			}
			return nil
		},
	}
	validate.Flags().StringVar(&dir, "dir", "etc/report-types", "definitions directory")
	cmd.AddCommand(validate)
	return cmd
}

func newJobs() *cobra.Command {
	cmd := &cobra.Command{Use: "jobs", Short: "Inspect report jobs"}

	var cfgPath string
	var olderThan time.Duration
	stuck := &cobra.Command{
		Use:   "stuck",
		Short: "List jobs sitting in processing past a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDB(cfgPath)
			if err != nil {
				return err
			}
			repo := reports.NewRepo(d)
			arr, err := repo.StuckProcessing(context.Background(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			for _, j := range arr {
				fmt.Printf("%s\t%s\t%s\tcreated=%s\n",
					j.ID, j.TenantID, j.TypeID, j.CreatedAt.UTC().Format(time.RFC3339))
			}
			if len(arr) == 0 {
				fmt.Println("no stuck jobs")
			}
			return nil
		},
	}
	stuck.Flags().StringVar(&cfgPath, "config", "etc/server.yaml", "config file path")
	stuck.Flags().DurationVar(&olderThan, "older-than", 15*time.Minute, "processing age cutoff")
	cmd.AddCommand(stuck)
	return cmd
}
