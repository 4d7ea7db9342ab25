package sqlscan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeguard-dev/codeguard/internal/allowlist"
	"github.com/codeguard-dev/codeguard/internal/collector"
	"github.com/codeguard-dev/codeguard/internal/guard"
	"github.com/codeguard-dev/codeguard/internal/sqlinject"
	"github.com/codeguard-dev/codeguard/pkg/shared/config"
	"github.com/codeguard-dev/codeguard/pkg/shared/errors"
	"github.com/codeguard-dev/codeguard/pkg/shared/logger"
)

// RunOptionsSQL holds the arguments for the sql command.
type RunOptionsSQL struct {
	Roots      []string
	Allowlist  string
	AsOf       string
	Format     string
	OutputPath string
}

// Global variables for configuration and command arguments
var (
	AppConfig       *config.Config
	sqlOptions      RunOptionsSQL
	exampleSQLUsage = `  # Scanning the default source roots of the current repository
  codeguard sql

  # Scanning a specific repository checkout
  codeguard sql /path/to/checkout

  # Scanning custom roots with an allowlist document
  codeguard sql --root src --root api --allowlist security/sql-exceptions.json

  # Producing a SARIF report for code-scanning upload
  codeguard sql --format sarif --output sql.sarif

  # Replaying a scan with a pinned reference date
  codeguard sql --as-of 2026-06-01`
)

// SQLCmd represents the sql command.
var SQLCmd = &cobra.Command{
	Use:                   "sql [--root/-r DIR]... [--allowlist/-a PATH] [--as-of YYYY-MM-DD] [--format/-f FORMAT] [--output/-o PATH] [PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleSQLUsage,
	Args:                  cobra.MaximumNArgs(1),
	Short:                 "Scans the source tree for SQL-injection-prone code patterns",
	Long: `Scans the application source roots for SQL-injection-prone code shapes:
raw-unsafe execution calls, un-parameterized query calls, and SQL statements
assembled through template interpolation or string concatenation. Accepted
findings are suppressed by an expiring allowlist document.`,
	RunE: runSQLCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runSQLCommand executes the sql command.
func runSQLCommand(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(AppConfig, "core-sqlscan")

	opts, err := resolveScanOptions(args)
	if err != nil {
		log.Error("invalid sql scan arguments", "error", err)
		return errors.NewCommandError(err, errors.ExitFatal)
	}
	opts.Logger = log

	detector := guard.Detector{
		Name:    "codeguard-sql",
		Rules:   sqlinject.Rules(),
		Mode:    guard.ModeTree,
		Analyze: sqlinject.Analyze,
	}

	result, err := guard.Run(detector, *opts)
	if err != nil {
		log.Error("sql scan failed", "error", err)
		return errors.NewCommandError(err, errors.ExitFatal)
	}

	if err := renderResult(detector.Name, sqlinject.RuleDescriptions(), result, sqlOptions.Format, sqlOptions.OutputPath); err != nil {
		log.Error("failed to write report", "error", err)
		return errors.NewCommandError(err, errors.ExitFatal)
	}

	if !result.Clean() {
		return errors.NewFindingsError(len(result.Findings), len(result.ConfigErrors))
	}
	log.Debug("sql scan completed", "scanned", result.ScannedFiles, "suppressed", result.SuppressedCount)
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
		AllowlistPath: sqlOptions.Allowlist,
	}
	if AppConfig != nil {
		opts.Collector = collector.Options{
			Roots:             AppConfig.Collector.Roots,
			ExcludedDirs:      AppConfig.Collector.ExcludedDirs,
			ExcludedPrefixes:  AppConfig.Collector.ExcludedPrefixes,
			AllowedExtensions: AppConfig.Collector.AllowedExtensions,
		}
		if opts.AllowlistPath == "" {
			opts.AllowlistPath = AppConfig.Allowlist.SQLPath
		}
	}
	if len(sqlOptions.Roots) > 0 {
		opts.Collector.Roots = sqlOptions.Roots
	}

	if sqlOptions.AsOf != "" {
		refDate, err := allowlist.ParseDate(sqlOptions.AsOf)
		if err != nil {
			return nil, fmt.Errorf("invalid --as-of value: %w", err)
		}
		opts.ReferenceDate = refDate
	}

	switch sqlOptions.Format {
	case "", "text", "json", "sarif":
	default:
		return nil, fmt.Errorf("unknown report format %q", sqlOptions.Format)
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

// Initialize flags for the sql command.
func init() {
	SQLCmd.Flags().StringSliceVarP(&sqlOptions.Roots, "root", "r", nil, "Source root to scan, relative to the repository root. Repeatable; defaults come from the config file or the built-in roots.")
	SQLCmd.Flags().StringVarP(&sqlOptions.Allowlist, "allowlist", "a", "", "Path to the SQL exception document (JSON).")
	SQLCmd.Flags().StringVar(&sqlOptions.AsOf, "as-of", "", "Reference date (YYYY-MM-DD) for allowlist expiry; defaults to today.")
	SQLCmd.Flags().StringVarP(&sqlOptions.Format, "format", "f", "text", "Report format: text, json, or sarif.")
	SQLCmd.Flags().StringVarP(&sqlOptions.OutputPath, "output", "o", "", "Path to the output file for structured report formats.")
	SQLCmd.Flags().BoolP("help", "h", false, "Show help for the sql command.")
}
