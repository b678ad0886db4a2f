package app

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/ludo-technologies/linthell/domain"
)

// RunUseCase runs every configured linter job concurrently, each against
// its own baseline
type RunUseCase struct {
	baseline  domain.BaselineService
	lint      domain.LintService
	executor  domain.ParallelExecutor
	formatter domain.ReportFormatter
	source    linterSource
	logger    hclog.Logger
}

// linterJobTask adapts one job to domain.ExecutableTask; it records its
// outcome in result
type linterJobTask struct {
	job    domain.LinterJob
	update bool
	uc     *RunUseCase
	result *domain.JobResult
}

func (t *linterJobTask) Name() string {
	return t.job.Name
}

func (t *linterJobTask) IsEnabled() bool {
	return true
}

func (t *linterJobTask) Execute(ctx context.Context) (interface{}, error) {
	err := t.execute(ctx)
	if err != nil {
		t.result.Error = err.Error()
	}
	return t.result, err
}

func (t *linterJobTask) execute(ctx context.Context) error {
	linter := t.job.Linter
	output, err := t.uc.source.output(ctx, "", &linter, t.job.HookName, t.job.PreCommitConfig)
	if err != nil {
		return err
	}

	if t.update {
		resp, err := t.uc.baseline.Generate(ctx, domain.BaselineRequest{
			BaselineFile: t.job.BaselineFile,
			Parser:       t.job.Parser,
			LinterOutput: output,
		})
		if err != nil {
			return err
		}
		t.result.Baseline = resp
		return nil
	}

	report, err := t.uc.lint.Check(ctx, domain.LintRequest{
		BaselineFile:  t.job.BaselineFile,
		Parser:        t.job.Parser,
		CheckOutdated: t.job.CheckOutdated,
		LinterOutput:  output,
	})
	if err != nil {
		return err
	}
	t.result.Report = report
	return nil
}

// Execute runs the jobs and writes their results. Job failures are part of
// the response, not the returned error.
func (uc *RunUseCase) Execute(ctx context.Context, req domain.RunRequest) (*domain.RunResponse, error) {
	if len(req.Jobs) == 0 {
		return nil, domain.NewValidationError("no linter jobs to run")
	}
	if req.OutputWriter == nil {
		return nil, domain.NewValidationError("output writer is required")
	}

	seen := make(map[string]bool, len(req.Jobs))
	for _, job := range req.Jobs {
		if seen[job.Name] {
			return nil, domain.NewValidationError(fmt.Sprintf("duplicate linter job %q", job.Name))
		}
		seen[job.Name] = true
	}

	response := &domain.RunResponse{Jobs: make([]domain.JobResult, len(req.Jobs))}
	tasks := make([]domain.ExecutableTask, len(req.Jobs))
	for i, job := range req.Jobs {
		response.Jobs[i].Name = job.Name
		tasks[i] = &linterJobTask{job: job, update: req.UpdateBaseline, uc: uc, result: &response.Jobs[i]}
	}

	if err := uc.executor.Execute(ctx, tasks); err != nil {
		uc.logger.Debug("linter jobs failed", "error", err)
	}

	// jobs skipped because the run was cancelled or timed out
	for i := range response.Jobs {
		r := &response.Jobs[i]
		if r.Report == nil && r.Baseline == nil && r.Error == "" {
			r.Error = "not run"
			if err := ctx.Err(); err != nil {
				r.Error = fmt.Sprintf("not run: %v", err)
			}
		}
	}

	if err := uc.formatter.WriteRun(response, req.OutputFormat, req.OutputWriter); err != nil {
		return nil, err
	}
	return response, nil
}

// RunUseCaseBuilder provides a builder pattern for creating RunUseCase
type RunUseCaseBuilder struct {
	baseline  domain.BaselineService
	lint      domain.LintService
	executor  domain.ParallelExecutor
	formatter domain.ReportFormatter
	runner    domain.LinterRunner
	hooks     domain.HookFileResolver
	logger    hclog.Logger
}

// NewRunUseCaseBuilder creates a new builder
func NewRunUseCaseBuilder() *RunUseCaseBuilder {
	return &RunUseCaseBuilder{}
}

// WithBaselineService sets the service used with --update-baseline
func (b *RunUseCaseBuilder) WithBaselineService(s domain.BaselineService) *RunUseCaseBuilder {
	b.baseline = s
	return b
}

// WithLintService sets the service used to check jobs
func (b *RunUseCaseBuilder) WithLintService(s domain.LintService) *RunUseCaseBuilder {
	b.lint = s
	return b
}

// WithExecutor sets the parallel executor
func (b *RunUseCaseBuilder) WithExecutor(e domain.ParallelExecutor) *RunUseCaseBuilder {
	b.executor = e
	return b
}

// WithFormatter sets the report formatter
func (b *RunUseCaseBuilder) WithFormatter(f domain.ReportFormatter) *RunUseCaseBuilder {
	b.formatter = f
	return b
}

// WithLinterRunner sets the linter runner
func (b *RunUseCaseBuilder) WithLinterRunner(r domain.LinterRunner) *RunUseCaseBuilder {
	b.runner = r
	return b
}

// WithHookResolver sets the resolver of pre-commit hook files
func (b *RunUseCaseBuilder) WithHookResolver(h domain.HookFileResolver) *RunUseCaseBuilder {
	b.hooks = h
	return b
}

// WithLogger sets the logger
func (b *RunUseCaseBuilder) WithLogger(l hclog.Logger) *RunUseCaseBuilder {
	b.logger = l
	return b
}

// Build creates the RunUseCase
func (b *RunUseCaseBuilder) Build() (*RunUseCase, error) {
	switch {
	case b.baseline == nil:
		return nil, fmt.Errorf("baseline service is required")
	case b.lint == nil:
		return nil, fmt.Errorf("lint service is required")
	case b.executor == nil:
		return nil, fmt.Errorf("parallel executor is required")
	case b.formatter == nil:
		return nil, fmt.Errorf("report formatter is required")
	case b.runner == nil:
		return nil, fmt.Errorf("linter runner is required")
	}

	logger := b.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &RunUseCase{
		baseline:  b.baseline,
		lint:      b.lint,
		executor:  b.executor,
		formatter: b.formatter,
		source:    linterSource{runner: b.runner, hooks: b.hooks},
		logger:    logger,
	}, nil
}
