package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported report formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// OutputStream selects which stream of the linter process is parsed
type OutputStream string

const (
	StreamStdout OutputStream = "stdout"
	StreamStderr OutputStream = "stderr"
)

// LinterInvocation describes an external linter run
type LinterInvocation struct {
	// Command is the linter command line, split with shell rules
	Command string
	// Files are appended to the command as extra arguments
	Files []string
	// Stream is where the linter writes its findings
	Stream OutputStream
}

// LintReport is the outcome of filtering linter findings against a baseline
type LintReport struct {
	// NewFindings holds display texts of findings absent from the baseline, in input order
	NewFindings []string `json:"new_findings" yaml:"new_findings"`

	// OutdatedEntries holds baseline identities no finding matched, sorted
	OutdatedEntries []string `json:"outdated_entries" yaml:"outdated_entries"`

	// CheckOutdated makes outdated entries a failure
	CheckOutdated bool `json:"check_outdated" yaml:"check_outdated"`

	TotalFindings   int `json:"total_findings" yaml:"total_findings"`
	MatchedFindings int `json:"matched_findings" yaml:"matched_findings"`
	BaselineEntries int `json:"baseline_entries" yaml:"baseline_entries"`
	MatchedDigests  int `json:"matched_digests" yaml:"matched_digests"`
}

// HasNewFindings reports whether any finding is missing from the baseline
func (r *LintReport) HasNewFindings() bool {
	return len(r.NewFindings) > 0
}

// HasOutdated reports whether any baseline entry was never matched
func (r *LintReport) HasOutdated() bool {
	return len(r.OutdatedEntries) > 0
}

// Failed reports whether the report should produce a non-zero exit code
func (r *LintReport) Failed() bool {
	return r.HasNewFindings() || (r.CheckOutdated && r.HasOutdated())
}

// BaselineRequest asks for a baseline to be generated from linter output
type BaselineRequest struct {
	BaselineFile string
	Parser       ParserSelection

	// LinterOutput is parsed directly when Linter is nil
	LinterOutput string
	Linter       *LinterInvocation

	// HookName restricts the linter to files of a pre-commit hook
	HookName        string
	PreCommitConfig string
}

// BaselineResponse summarises a generated baseline
type BaselineResponse struct {
	BaselineFile string `json:"baseline_file" yaml:"baseline_file"`
	Findings     int    `json:"findings" yaml:"findings"`
	Entries      int    `json:"entries" yaml:"entries"`
}

// LintRequest asks for linter output to be filtered against a baseline
type LintRequest struct {
	BaselineFile  string
	Parser        ParserSelection
	CheckOutdated bool

	LinterOutput string
	Linter       *LinterInvocation

	OutputFormat OutputFormat
	OutputWriter io.Writer
}

// BaselineService generates and persists baselines
type BaselineService interface {
	Generate(ctx context.Context, req BaselineRequest) (*BaselineResponse, error)
}

// LintService filters linter output against a baseline
type LintService interface {
	Check(ctx context.Context, req LintRequest) (*LintReport, error)
}

// LinterRunner runs an external linter and returns the selected output stream
type LinterRunner interface {
	Run(ctx context.Context, inv LinterInvocation) (string, error)
}

// ReportFormatter writes lint and run reports
type ReportFormatter interface {
	WriteLint(report *LintReport, format OutputFormat, writer io.Writer) error
	WriteRun(response *RunResponse, format OutputFormat, writer io.Writer) error
}
