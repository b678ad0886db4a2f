package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/linthell/domain"
)

// LintUseCase orchestrates filtering linter output against a baseline
type LintUseCase struct {
	service   domain.LintService
	formatter domain.ReportFormatter
	source    linterSource
}

// Execute obtains the linter output, checks it and writes the report.
// A report with new findings is returned without error; callers decide the
// exit code from LintReport.Failed.
func (uc *LintUseCase) Execute(ctx context.Context, req domain.LintRequest) (*domain.LintReport, error) {
	if req.BaselineFile == "" {
		return nil, domain.NewValidationError("baseline file is required")
	}
	if req.OutputWriter == nil {
		return nil, domain.NewValidationError("output writer is required")
	}

	output, err := uc.source.output(ctx, req.LinterOutput, req.Linter, "", "")
	if err != nil {
		return nil, err
	}
	req.LinterOutput = output

	report, err := uc.service.Check(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := uc.formatter.WriteLint(report, req.OutputFormat, req.OutputWriter); err != nil {
		return nil, err
	}
	return report, nil
}

// LintUseCaseBuilder provides a builder pattern for creating LintUseCase
type LintUseCaseBuilder struct {
	service   domain.LintService
	formatter domain.ReportFormatter
	runner    domain.LinterRunner
}

// NewLintUseCaseBuilder creates a new builder
func NewLintUseCaseBuilder() *LintUseCaseBuilder {
	return &LintUseCaseBuilder{}
}

// WithService sets the lint service
func (b *LintUseCaseBuilder) WithService(service domain.LintService) *LintUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the report formatter
func (b *LintUseCaseBuilder) WithFormatter(formatter domain.ReportFormatter) *LintUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithLinterRunner sets the runner used when a request carries a linter command
func (b *LintUseCaseBuilder) WithLinterRunner(runner domain.LinterRunner) *LintUseCaseBuilder {
	b.runner = runner
	return b
}

// Build creates the LintUseCase
func (b *LintUseCaseBuilder) Build() (*LintUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("lint service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("report formatter is required")
	}
	return &LintUseCase{
		service:   b.service,
		formatter: b.formatter,
		source:    linterSource{runner: b.runner},
	}, nil
}
