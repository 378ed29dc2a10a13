// Package servercmd runs the REST API from the unified CLI.
package servercmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	"github.com/pitbossdev/pitboss/internal/server/config"
	"github.com/pitbossdev/pitboss/internal/server/handler"
	"github.com/pitbossdev/pitboss/internal/server/svc"
)

// New returns the `pitboss server` command.
func New() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the Pitboss API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var c config.Config
			conf.MustLoad(cfgFile, &c)

			server := rest.MustNewServer(c.RestConf)
			defer server.Stop()

			ctx := svc.NewServiceContext(c)
			defer ctx.Close()
			handler.RegisterHandlers(server, ctx)

			fmt.Printf("Starting server at %s:%d...\n", c.Host, c.Port)
			server.Start()
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "etc/server.yaml", "config file path")
	return cmd
}
