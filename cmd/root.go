package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeguard-dev/codeguard/cmd/secretscan"
	"github.com/codeguard-dev/codeguard/cmd/sqlscan"
	"github.com/codeguard-dev/codeguard/cmd/version"
	"github.com/codeguard-dev/codeguard/pkg/shared/config"
	"github.com/codeguard-dev/codeguard/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "codeguard [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Codeguard is a source-code security guard for application repositories.",
		Long: `Codeguard runs security guard checks over an application repository:
	a static analysis for SQL-injection-prone code shapes and a scan for
	hardcoded secrets in tracked files. Accepted findings are suppressed
	through expiring allowlist documents, so every exception has an owner
	and a deadline.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is codeguard.yml)")
	rootCmd.AddCommand(sqlscan.SQLCmd)
	rootCmd.AddCommand(secretscan.SecretsCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and maps the outcome to a process exit code:
// 0 for a clean scan, 1 when findings or allowlist errors remain, 2 for
// operational failures.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		var cmdErr *errors.CommandError
		if stderrors.As(err, &cmdErr) {
			if cmdErr.ExitCode != errors.ExitFindings {
				fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
			}
			return cmdErr.ExitCode
		}
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return errors.ExitFatal
	}
	return errors.ExitClean
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "codeguard.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load the config file: %v\n", err)
		os.Exit(errors.ExitFatal)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitFatal)
	}

	sqlscan.Init(AppConfig)
	secretscan.Init(AppConfig)
	version.Init(AppConfig)
}
