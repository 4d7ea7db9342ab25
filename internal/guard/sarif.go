package guard

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"
)

const toolInformationURI = "https://github.com/codeguard-dev/codeguard"

// RenderSARIF writes the result as a SARIF 2.1.0 document with a single run,
// so findings can flow into code-scanning dashboards.
func RenderSARIF(w io.Writer, detectorName string, ruleMessages map[string]string, result ScanResult) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(detectorName, toolInformationURI)
	ruleIDs := make([]string, 0, len(ruleMessages))
	for ruleID := range ruleMessages {
		ruleIDs = append(ruleIDs, ruleID)
	}
	sort.Strings(ruleIDs)
	for _, ruleID := range ruleIDs {
		run.AddRule(ruleID).
			WithDescription(ruleMessages[ruleID]).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: ruleLevel(ruleID),
			})
	}

	for _, f := range result.Findings {
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.File)).
				WithRegion(sarif.NewRegion().WithStartLine(f.Line).WithStartColumn(f.Column)),
		)
		run.AddResult(sarif.NewRuleResult(f.Rule).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(ruleLevel(f.Rule)).
			WithLocations([]*sarif.Location{location}))
	}

	// Config errors have no file location; report them as tool notifications
	// via results on the synthetic configuration rule.
	for _, e := range result.ConfigErrors {
		run.AddResult(sarif.NewRuleResult("CONFIG").
			WithMessage(sarif.NewTextMessage(e)).
			WithLevel("error"))
	}

	report.AddRun(run)
	return report.PrettyWrite(w)
}

// ruleLevel maps rule groups to SARIF levels: injection shapes are errors,
// secret heuristics warnings.
func ruleLevel(ruleID string) string {
	if strings.HasPrefix(ruleID, "SQL") || ruleID == "CONFIG" {
		return "error"
	}
	return "warning"
}
