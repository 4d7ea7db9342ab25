package errors

import "fmt"

// Exit codes used by the CLI.
const (
	ExitClean    = 0
	ExitFindings = 1
	ExitFatal    = 2
)

// CommandError carries an exit code alongside the failure message so the
// root command can translate command failures into process status.
type CommandError struct {
	ExitCode    int
	CommonError string
}

// Error implements the error interface, returning the underlying message.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError wrapping err with an exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
	}
}

// NewFindingsError signals that a scan completed but found issues; the run
// itself is not a failure, only the verdict.
func NewFindingsError(findings, configErrors int) *CommandError {
	return &CommandError{
		ExitCode:    ExitFindings,
		CommonError: fmt.Sprintf("scan reported %d finding(s) and %d config error(s)", findings, configErrors),
	}
}
