package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/config"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a run when the configuration sets no timeout
const DefaultTimeout = config.DefaultTimeoutSeconds * time.Second

// TaskError represents a single task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects task failures in task order
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tasks failed:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap returns the task errors for errors.Is/As
func (e *AggregatedError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i := range e.Errors {
		errs[i] = e.Errors[i]
	}
	return errs
}

// ParallelExecutorImpl runs enabled tasks with bounded concurrency. A failing
// task does not cancel the others.
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
}

// NewParallelExecutor creates an executor from performance settings,
// replacing non-positive values with defaults
func NewParallelExecutor(cfg config.PerformanceConfig, pm domain.ProgressManager) *ParallelExecutorImpl {
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = config.DefaultMaxConcurrency
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if pm == nil {
		pm = &NoOpProgressManager{}
	}

	return &ParallelExecutorImpl{
		maxConcurrency: maxConcurrency,
		timeout:        timeout,
		progress:       pm,
	}
}

// Execute runs the enabled tasks and returns an *AggregatedError when any fails
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	bar := e.progress.StartTask("Running linters", len(enabled))
	defer bar.Complete()

	g, gCtx := errgroup.WithContext(timeoutCtx)
	g.SetLimit(e.maxConcurrency)

	// indexed by task so errors keep task order
	errs := make([]error, len(enabled))
	var barMu sync.Mutex

	for i, t := range enabled {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				errs[i] = err
				return nil
			}

			_, errs[i] = t.Execute(gCtx)

			barMu.Lock()
			bar.Describe(t.Name())
			bar.Increment(1)
			barMu.Unlock()

			// failures are collected, not propagated, so siblings keep running
			return nil
		})
	}
	_ = g.Wait()

	var failed []TaskError
	for i, err := range errs {
		if err != nil {
			failed = append(failed, TaskError{TaskName: enabled[i].Name(), Err: err})
		}
	}
	if len(failed) > 0 {
		return &AggregatedError{Errors: failed}
	}
	return nil
}
