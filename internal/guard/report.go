package guard

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/codeguard-dev/codeguard/internal/findings"
)

// RenderText writes the human-readable report: one line per kept finding and
// per config error to errOut, and a summary line to out. The layout is fixed
// so CI annotations can parse it.
func RenderText(out, errOut io.Writer, detectorName string, result ScanResult) {
	for _, f := range result.Findings {
		fmt.Fprintf(errOut, "%s %s:%d:%d %s\n", f.Rule, f.File, f.Line, f.Column, f.Message)
	}
	for _, e := range result.ConfigErrors {
		fmt.Fprintf(errOut, "%s\n", e)
	}

	if result.Clean() {
		fmt.Fprintf(out, "%s: scanned %d files, no findings", detectorName, result.ScannedFiles)
		if result.SuppressedCount > 0 {
			fmt.Fprintf(out, " (%d suppressed by allowlist)", result.SuppressedCount)
		}
		fmt.Fprintln(out)
		return
	}
	fmt.Fprintf(out, "%s: scanned %d files, %d finding(s), %d config error(s), %d suppressed\n",
		detectorName, result.ScannedFiles, len(result.Findings), len(result.ConfigErrors), result.SuppressedCount)
}

// RenderJSON writes the ScanResult as indented JSON. Findings are already
// deterministically ordered, so the document is byte-stable for diffing.
func RenderJSON(w io.Writer, result ScanResult) error {
	if result.Findings == nil {
		result.Findings = []findings.Finding{}
	}
	if result.ConfigErrors == nil {
		result.ConfigErrors = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ExitCode maps a result to process status: non-zero if either kept findings
// or config errors are non-empty.
func ExitCode(result ScanResult) int {
	if result.Clean() {
		return 0
	}
	return 1
}
