package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/linthell/domain"
)

// BaselineUseCase orchestrates baseline generation
type BaselineUseCase struct {
	service domain.BaselineService
	source  linterSource
}

// Execute obtains the linter output and writes a new baseline from it
func (uc *BaselineUseCase) Execute(ctx context.Context, req domain.BaselineRequest) (*domain.BaselineResponse, error) {
	if req.BaselineFile == "" {
		return nil, domain.NewValidationError("baseline file is required")
	}

	output, err := uc.source.output(ctx, req.LinterOutput, req.Linter, req.HookName, req.PreCommitConfig)
	if err != nil {
		return nil, err
	}
	req.LinterOutput = output

	return uc.service.Generate(ctx, req)
}

// BaselineUseCaseBuilder provides a builder pattern for creating BaselineUseCase
type BaselineUseCaseBuilder struct {
	service domain.BaselineService
	runner  domain.LinterRunner
	hooks   domain.HookFileResolver
}

// NewBaselineUseCaseBuilder creates a new builder
func NewBaselineUseCaseBuilder() *BaselineUseCaseBuilder {
	return &BaselineUseCaseBuilder{}
}

// WithService sets the baseline service
func (b *BaselineUseCaseBuilder) WithService(service domain.BaselineService) *BaselineUseCaseBuilder {
	b.service = service
	return b
}

// WithLinterRunner sets the runner used when a request carries a linter command
func (b *BaselineUseCaseBuilder) WithLinterRunner(runner domain.LinterRunner) *BaselineUseCaseBuilder {
	b.runner = runner
	return b
}

// WithHookResolver sets the resolver of pre-commit hook files
func (b *BaselineUseCaseBuilder) WithHookResolver(hooks domain.HookFileResolver) *BaselineUseCaseBuilder {
	b.hooks = hooks
	return b
}

// Build creates the BaselineUseCase
func (b *BaselineUseCaseBuilder) Build() (*BaselineUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("baseline service is required")
	}
	return &BaselineUseCase{
		service: b.service,
		source:  linterSource{runner: b.runner, hooks: b.hooks},
	}, nil
}
