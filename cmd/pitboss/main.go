package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	admincmd "github.com/pitbossdev/pitboss/internal/cli/admincmd"
	common "github.com/pitbossdev/pitboss/internal/cli/common"
	servercmd "github.com/pitbossdev/pitboss/internal/cli/servercmd"
)

func main() {
	root := &cobra.Command{Use: "pitboss", Short: "Pitboss unified CLI"}

	var logLevel, logFormat, logFile string
	var logMaxSize, logMaxBackups, logMaxAge int
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console|json")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file instead of stderr")
	root.PersistentFlags().IntVar(&logMaxSize, "log-max-size", 100, "max log file size in MB before rotation")
	root.PersistentFlags().IntVar(&logMaxBackups, "log-max-backups", 3, "rotated files to keep")
	root.PersistentFlags().IntVar(&logMaxAge, "log-max-age", 28, "rotated file age in days")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		common.SetupLogger(logLevel, logFormat, logFile, logMaxSize, logMaxBackups, logMaxAge)
	}

	root.AddCommand(servercmd.New())
	root.AddCommand(admincmd.New())

	comp := &cobra.Command{Use: "completion [bash|zsh|fish|powershell]", Short: "Generate shell completion"}
	comp.Run = func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			log.Fatalf("specify a shell: bash|zsh|fish|powershell")
		}
		switch args[0] {
		case "bash":
			root.GenBashCompletion(os.Stdout)
		case "zsh":
			root.GenZshCompletion(os.Stdout)
		case "fish":
			root.GenFishCompletion(os.Stdout, true)
		case "powershell":
			root.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			log.Fatalf("unknown shell: %s", args[0])
		}
	}
	root.AddCommand(comp)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
