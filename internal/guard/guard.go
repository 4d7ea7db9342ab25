// Package guard runs a detector over a file corpus and applies the
// allowlist, producing one ScanResult per invocation.
package guard

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/codeguard-dev/codeguard/internal/allowlist"
	"github.com/codeguard-dev/codeguard/internal/collector"
	"github.com/codeguard-dev/codeguard/internal/findings"
	"github.com/codeguard-dev/codeguard/pkg/shared/files"
)

// CorpusMode selects how the collector enumerates candidate files.
type CorpusMode int

const (
	// ModeTree walks the configured source roots.
	ModeTree CorpusMode = iota
	// ModeTracked lists the version-control-tracked file set.
	ModeTracked
)

// Detector is one analysis engine. Analyze must be a pure function of the
// file's text and path; files are independent of one another.
type Detector struct {
	Name    string
	Rules   []string
	Mode    CorpusMode
	Analyze func(text, path string) []findings.Finding
}

// Options configures one scan invocation.
type Options struct {
	RepoRoot      string
	Collector     collector.Options
	AllowlistPath string         // empty means no allowlist document
	ReferenceDate allowlist.Date // zero means today
	Logger        hclog.Logger
}

// ScanResult is the machine-checkable output of one run. It is a pure
// function of the file contents, the allowlist, and the reference date, so
// consecutive scans over unchanged input render identically.
type ScanResult struct {
	ScannedFiles    int                `json:"scannedFiles"`
	Findings        []findings.Finding `json:"findings"`
	SuppressedCount int                `json:"suppressedCount"`
	ConfigErrors    []string           `json:"configErrors"`
}

// Clean reports whether the run found nothing and loaded cleanly.
func (r ScanResult) Clean() bool {
	return len(r.Findings) == 0 && len(r.ConfigErrors) == 0
}

// Run executes detector over the corpus at opts.RepoRoot. Only corpus
// enumeration failures are fatal; unreadable and binary files are skipped
// (a file that disappeared between listing and reading is not a security
// failure), and allowlist problems surface as config errors in the result.
func Run(detector Detector, opts Options) (ScanResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	runID := uuid.NewString()
	started := time.Now()
	logger.Debug("scan started", "run_id", runID, "detector", detector.Name, "root", opts.RepoRoot)

	paths, err := collectCorpus(detector.Mode, opts)
	if err != nil {
		return ScanResult{}, fmt.Errorf("corpus enumeration failed: %w", err)
	}

	var raw []findings.Finding
	scanned := 0
	for _, path := range paths {
		text, readErr := files.ReadText(filepath.Join(opts.RepoRoot, filepath.FromSlash(path)))
		if readErr != nil {
			logger.Debug("skipping unreadable file", "path", path, "error", readErr)
			continue
		}
		if files.IsBinary(text) {
			logger.Debug("skipping binary file", "path", path)
			continue
		}
		scanned++
		raw = append(raw, detector.Analyze(text, path)...)
	}

	raw = findings.Dedupe(raw)

	var entries []allowlist.Entry
	var configErrors []string
	if opts.AllowlistPath != "" {
		refDate := opts.ReferenceDate
		if refDate == 0 {
			refDate = allowlist.DateOf(time.Now())
		}
		entries, configErrors = allowlist.Load(opts.AllowlistPath, refDate, detector.Rules)
	}

	kept, suppressed := Suppress(raw, entries)
	findings.Sort(kept)

	result := ScanResult{
		ScannedFiles:    scanned,
		Findings:        kept,
		SuppressedCount: suppressed,
		ConfigErrors:    configErrors,
	}
	logger.Debug("scan finished",
		"run_id", runID,
		"duration_ms", time.Since(started).Milliseconds(),
		"scanned", scanned,
		"findings", len(kept),
		"suppressed", suppressed,
		"config_errors", len(configErrors),
	)
	return result, nil
}

func collectCorpus(mode CorpusMode, opts Options) ([]string, error) {
	if mode == ModeTracked {
		return collector.CollectTracked(opts.RepoRoot, opts.Collector)
	}
	return collector.CollectTree(opts.RepoRoot, opts.Collector)
}

// Suppress filters findings through the usable allowlist entries. A finding
// is suppressed iff its exact (file, rule) pair has an entry; matching is
// exact-path and case-sensitive.
func Suppress(in []findings.Finding, entries []allowlist.Entry) (kept []findings.Finding, suppressed int) {
	allowed := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		allowed[e.Path+"|"+e.Rule] = struct{}{}
	}

	kept = make([]findings.Finding, 0, len(in))
	for _, f := range in {
		if _, ok := allowed[f.File+"|"+f.Rule]; ok {
			suppressed++
			continue
		}
		kept = append(kept, f)
	}
	return kept, suppressed
}
