package secretscan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeguard-dev/codeguard/internal/allowlist"
	"github.com/codeguard-dev/codeguard/internal/collector"
	"github.com/codeguard-dev/codeguard/internal/guard"
	"github.com/codeguard-dev/codeguard/internal/secrets"
	"github.com/codeguard-dev/codeguard/pkg/shared/config"
	"github.com/codeguard-dev/codeguard/pkg/shared/errors"
	"github.com/codeguard-dev/codeguard/pkg/shared/logger"
)

// RunOptionsSecrets holds the arguments for the secrets command.
type RunOptionsSecrets struct {
	Allowlist  string
	AsOf       string
	Format     string
	OutputPath string
}

// Global variables for configuration and command arguments
var (
	AppConfig           *config.Config
	secretsOptions      RunOptionsSecrets
	exampleSecretsUsage = `  # Scanning every tracked file of the current repository
  codeguard secrets

  # Scanning a specific repository checkout
  codeguard secrets /path/to/checkout

  # Scanning with an allowlist document and a JSON report
  codeguard secrets --allowlist security/secret-exceptions.json --format json

  # Replaying a scan with a pinned reference date
  codeguard secrets --as-of 2026-06-01`
)

// SecretsCmd represents the secrets command.
var SecretsCmd = &cobra.Command{
	Use:                   "secrets [--allowlist/-a PATH] [--as-of YYYY-MM-DD] [--format/-f FORMAT] [--output/-o PATH] [PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleSecretsUsage,
	Args:                  cobra.MaximumNArgs(1),
	Short:                 "Scans tracked repository files for hardcoded secrets",
	Long: `Scans every file tracked by the repository for hardcoded credentials:
known API key shapes, committed private key blocks, and long opaque literals
assigned to secret-named identifiers. Accepted findings are suppressed by an
expiring allowlist document. The scan target must be a git repository.`,
	RunE: runSecretsCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runSecretsCommand executes the secrets command.
func runSecretsCommand(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(AppConfig, "core-secretscan")

	opts, err := resolveScanOptions(args)
	if err != nil {
		log.Error("invalid secrets scan arguments", "error", err)
		return errors.NewCommandError(err, errors.ExitFatal)
	}
	opts.Logger = log

	detector := guard.Detector{
		Name:    "codeguard-secrets",
		Rules:   secrets.Rules(),
		Mode:    guard.ModeTracked,
		Analyze: secrets.Analyze,
	}

	result, err := guard.Run(detector, *opts)
	if err != nil {
		log.Error("secrets scan failed", "error", err)
		return errors.NewCommandError(err, errors.ExitFatal)
	}

	if err := renderResult(detector.Name, secrets.RuleDescriptions(), result, secretsOptions.Format, secretsOptions.OutputPath); err != nil {
		log.Error("failed to write report", "error", err)
		return errors.NewCommandError(err, errors.ExitFatal)
	}

	if !result.Clean() {
		return errors.NewFindingsError(len(result.Findings), len(result.ConfigErrors))
	}
	log.Debug("secrets scan completed", "scanned", result.ScannedFiles, "suppressed", result.SuppressedCount)
	return nil
}

// resolveScanOptions merges flags, the positional path, and the config file
// into guard options. Flags win over config values.
func resolveScanOptions(args []string) (*guard.Options, error) {
	repoRoot := "."
	if len(args) == 1 {
		repoRoot = args[0]
	}
	if info, err := os.Stat(repoRoot); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("scan root %q is not a directory", repoRoot)
	}

	opts := &guard.Options{
		RepoRoot:      repoRoot,
		AllowlistPath: secretsOptions.Allowlist,
	}
	if AppConfig != nil {
		opts.Collector = collector.Options{
			ExcludedDirs:     AppConfig.Collector.ExcludedDirs,
			ExcludedPrefixes: AppConfig.Collector.ExcludedPrefixes,
		}
		if opts.AllowlistPath == "" {
			opts.AllowlistPath = AppConfig.Allowlist.SecretsPath
		}
	}

	if secretsOptions.AsOf != "" {
		refDate, err := allowlist.ParseDate(secretsOptions.AsOf)
		if err != nil {
			return nil, fmt.Errorf("invalid --as-of value: %w", err)
		}
		opts.ReferenceDate = refDate
	}

	switch secretsOptions.Format {
	case "", "text", "json", "sarif":
	default:
		return nil, fmt.Errorf("unknown report format %q", secretsOptions.Format)
	}

	return opts, nil
}

// renderResult writes the report in the requested format. The text format
// splits findings (stderr) from the summary (stdout); structured formats go
// to the output path or stdout.
func renderResult(detectorName string, ruleMessages map[string]string, result guard.ScanResult, format, outputPath string) error {
	out := os.Stdout
	if outputPath != "" && format != "" && format != "text" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file %q: %w", outputPath, err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		return guard.RenderJSON(out, result)
	case "sarif":
		return guard.RenderSARIF(out, detectorName, ruleMessages, result)
	default:
		guard.RenderText(os.Stdout, os.Stderr, detectorName, result)
		return nil
	}
}

// Initialize flags for the secrets command.
func init() {
	SecretsCmd.Flags().StringVarP(&secretsOptions.Allowlist, "allowlist", "a", "", "Path to the secret exception document (JSON).")
	SecretsCmd.Flags().StringVar(&secretsOptions.AsOf, "as-of", "", "Reference date (YYYY-MM-DD) for allowlist expiry; defaults to today.")
	SecretsCmd.Flags().StringVarP(&secretsOptions.Format, "format", "f", "text", "Report format: text, json, or sarif.")
	SecretsCmd.Flags().StringVarP(&secretsOptions.OutputPath, "output", "o", "", "Path to the output file for structured report formats.")
	SecretsCmd.Flags().BoolP("help", "h", false, "Show help for the secrets command.")
}
