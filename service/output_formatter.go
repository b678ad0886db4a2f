package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/baseline"
	"github.com/ludo-technologies/linthell/internal/version"
	"gopkg.in/yaml.v3"
)

// OutputFormatterImpl implements domain.ReportFormatter. Text output puts
// finding lines on the report writer and outdated-baseline warnings on a
// separate warning writer, so piped output contains findings only.
type OutputFormatterImpl struct {
	warnings io.Writer
	warn     *color.Color
	fail     *color.Color
	bold     *color.Color
}

// NewOutputFormatter creates a formatter writing warnings to stderr
func NewOutputFormatter(useColor bool) *OutputFormatterImpl {
	return NewOutputFormatterWithWarnings(os.Stderr, useColor)
}

// NewOutputFormatterWithWarnings creates a formatter writing warnings to w
func NewOutputFormatterWithWarnings(w io.Writer, useColor bool) *OutputFormatterImpl {
	f := &OutputFormatterImpl{
		warnings: w,
		warn:     color.New(color.FgYellow, color.Bold),
		fail:     color.New(color.FgRed, color.Bold),
		bold:     color.New(color.Bold),
	}
	for _, c := range []*color.Color{f.warn, f.fail, f.bold} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// WriteJSON writes data as indented JSON
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// LintReportDocument wraps a LintReport with metadata for json/yaml output
type LintReportDocument struct {
	Version     string `json:"version" yaml:"version"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`

	domain.LintReport `json:",inline" yaml:",inline"`

	HasNewFindings bool `json:"has_new_findings" yaml:"has_new_findings"`
	HasOutdated    bool `json:"has_outdated" yaml:"has_outdated"`
	Failed         bool `json:"failed" yaml:"failed"`
}

// RunDocument wraps a RunResponse with metadata for json/yaml output
type RunDocument struct {
	Version     string             `json:"version" yaml:"version"`
	GeneratedAt string             `json:"generated_at" yaml:"generated_at"`
	Jobs        []domain.JobResult `json:"jobs" yaml:"jobs"`
	Failed      bool               `json:"failed" yaml:"failed"`
}

// WriteLint writes a lint report in the given format
func (f *OutputFormatterImpl) WriteLint(report *domain.LintReport, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return f.writeLintText("", report, writer)
	case domain.OutputFormatJSON:
		return f.encode(WriteJSON, newLintReportDocument(report), writer)
	case domain.OutputFormatYAML:
		return f.encode(WriteYAML, newLintReportDocument(report), writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteRun writes the results of a 'run' invocation in the given format
func (f *OutputFormatterImpl) WriteRun(response *domain.RunResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return f.writeRunText(response, writer)
	case domain.OutputFormatJSON, domain.OutputFormatYAML:
		doc := RunDocument{
			Version:     version.Short(),
			GeneratedAt: time.Now().Format(time.RFC3339),
			Jobs:        response.Jobs,
			Failed:      response.Failed(),
		}
		if doc.Jobs == nil {
			doc.Jobs = []domain.JobResult{}
		}
		if format == domain.OutputFormatJSON {
			return f.encode(WriteJSON, doc, writer)
		}
		return f.encode(WriteYAML, doc, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func newLintReportDocument(report *domain.LintReport) LintReportDocument {
	return LintReportDocument{
		Version:        version.Short(),
		GeneratedAt:    time.Now().Format(time.RFC3339),
		LintReport:     *report,
		HasNewFindings: report.HasNewFindings(),
		HasOutdated:    report.HasOutdated(),
		Failed:         report.Failed(),
	}
}

func (f *OutputFormatterImpl) encode(write func(io.Writer, interface{}) error, data interface{}, writer io.Writer) error {
	if err := write(writer, data); err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

// writeLintText prints new findings verbatim, then a warning listing
// outdated baseline entries
func (f *OutputFormatterImpl) writeLintText(job string, report *domain.LintReport, writer io.Writer) error {
	for _, line := range report.NewFindings {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return domain.NewOutputError("failed to write report", err)
		}
	}

	if !report.HasOutdated() {
		return nil
	}

	label := f.warn.Sprint("warning:")
	if report.CheckOutdated {
		label = f.fail.Sprint("error:")
	}
	prefix := ""
	if job != "" {
		prefix = f.bold.Sprint(job) + ": "
	}

	fmt.Fprintf(f.warnings, "%s%s %d baseline %s no longer reported:\n",
		prefix, label, len(report.OutdatedEntries), pluralize(len(report.OutdatedEntries), "entry is", "entries are"))
	for _, entry := range report.OutdatedEntries {
		fmt.Fprintf(f.warnings, "  %s\n", baseline.Escape(entry))
	}
	return nil
}

func (f *OutputFormatterImpl) writeRunText(response *domain.RunResponse, writer io.Writer) error {
	for i := range response.Jobs {
		job := &response.Jobs[i]
		switch {
		case job.Error != "":
			fmt.Fprintf(f.warnings, "%s: %s %s\n", f.bold.Sprint(job.Name), f.fail.Sprint("error:"), job.Error)
		case job.Baseline != nil:
			fmt.Fprintf(f.warnings, "%s: wrote %d %s to %s\n", f.bold.Sprint(job.Name),
				job.Baseline.Entries, pluralize(job.Baseline.Entries, "entry", "entries"), job.Baseline.BaselineFile)
		case job.Report != nil:
			if err := f.writeLintText(job.Name, job.Report, writer); err != nil {
				return err
			}
		}
	}
	return nil
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
