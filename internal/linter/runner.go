// Package linter runs external linters and captures their output.
package linter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/google/shlex"
	"github.com/hashicorp/go-hclog"
	"github.com/ludo-technologies/linthell/domain"
)

// waitDelay bounds how long output is drained after the linter is killed
const waitDelay = 2 * time.Second

// Runner executes linter commands. The linter's exit status is not an
// error: linters exit non-zero whenever they report something.
type Runner struct {
	dir     string
	timeout time.Duration
	logger  hclog.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithDir runs linters in dir instead of the working directory
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

// WithTimeout bounds a single linter run; zero means no limit
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) { r.timeout = timeout }
}

// WithLogger sets the logger
func WithLogger(logger hclog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a Runner
func NewRunner(opts ...Option) *Runner {
	r := &Runner{logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SplitCommand splits a command line with POSIX shell word rules
func SplitCommand(command string) ([]string, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid linter command %q", command), err)
	}
	if len(args) == 0 {
		return nil, domain.NewInvalidInputError("linter command must not be empty", nil)
	}
	return args, nil
}

// Run executes the linter with inv.Files appended and returns the selected stream
func (r *Runner) Run(ctx context.Context, inv domain.LinterInvocation) (string, error) {
	args, err := SplitCommand(inv.Command)
	if err != nil {
		return "", err
	}
	args = append(args, inv.Files...)

	stream := inv.Stream
	if stream == "" {
		stream = domain.StreamStdout
	}
	if stream != domain.StreamStdout && stream != domain.StreamStderr {
		return "", domain.NewInvalidInputError(fmt.Sprintf("invalid linter output stream %q, must be stdout or stderr", stream), nil)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// children still holding the pipes must not block a cancelled run
	cmd.WaitDelay = waitDelay

	r.logger.Debug("running linter", "command", args[0], "args", len(args)-1, "files", len(inv.Files))
	start := time.Now()
	err = cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		return "", domain.NewLinterError(fmt.Sprintf("linter %q did not finish", args[0]), ctx.Err())
	case errors.As(err, &exitErr):
		r.logger.Debug("linter exited", "command", args[0], "code", exitErr.ExitCode(), "duration", time.Since(start))
	case err != nil:
		return "", domain.NewLinterError(fmt.Sprintf("failed to run linter %q", args[0]), err)
	default:
		r.logger.Debug("linter exited", "command", args[0], "code", 0, "duration", time.Since(start))
	}

	if stream == domain.StreamStderr {
		return stderr.String(), nil
	}
	return stdout.String(), nil
}
