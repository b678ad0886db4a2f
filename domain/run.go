package domain

import (
	"context"
	"io"
)

// LinterJob is one configured linter run of 'linthell run'
type LinterJob struct {
	Name          string
	Parser        ParserSelection
	BaselineFile  string
	Linter        LinterInvocation
	CheckOutdated bool

	// HookName replaces Linter.Files with the files of a pre-commit hook
	HookName        string
	PreCommitConfig string
}

// RunRequest asks for several linter jobs to be run concurrently
type RunRequest struct {
	Jobs []LinterJob

	// UpdateBaseline regenerates each job's baseline instead of checking it
	UpdateBaseline bool

	OutputFormat OutputFormat
	OutputWriter io.Writer
}

// JobResult is the outcome of one linter job
type JobResult struct {
	Name     string            `json:"name" yaml:"name"`
	Report   *LintReport       `json:"report,omitempty" yaml:"report,omitempty"`
	Baseline *BaselineResponse `json:"baseline,omitempty" yaml:"baseline,omitempty"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the job errored or its report failed
func (r *JobResult) Failed() bool {
	return r.Error != "" || (r.Report != nil && r.Report.Failed())
}

// RunResponse collects job results in configuration order
type RunResponse struct {
	Jobs []JobResult `json:"jobs" yaml:"jobs"`
}

// HasErrors reports whether any job could not complete
func (r *RunResponse) HasErrors() bool {
	for i := range r.Jobs {
		if r.Jobs[i].Error != "" {
			return true
		}
	}
	return false
}

// Failed reports whether any job failed
func (r *RunResponse) Failed() bool {
	for i := range r.Jobs {
		if r.Jobs[i].Failed() {
			return true
		}
	}
	return false
}

// HookFileResolver lists the files a pre-commit hook runs on
type HookFileResolver interface {
	FilesForHook(ctx context.Context, configPath, hookName string) ([]string, error)
}
