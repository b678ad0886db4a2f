package app

import (
	"context"

	"github.com/ludo-technologies/linthell/domain"
)

// linterSource resolves the linter output a request refers to
type linterSource struct {
	runner domain.LinterRunner
	hooks  domain.HookFileResolver
}

// output returns given when no linter is set. Otherwise it runs the linter,
// first replacing its files with those of hookName when one is set.
func (s linterSource) output(ctx context.Context, given string, linter *domain.LinterInvocation, hookName, preCommitConfig string) (string, error) {
	if linter == nil {
		if hookName != "" {
			return "", domain.NewInvalidInputError("a hook name requires a linter command", nil)
		}
		return given, nil
	}
	if s.runner == nil {
		return "", domain.NewConfigError("no linter runner configured", nil)
	}

	inv := *linter
	if hookName != "" {
		if s.hooks == nil {
			return "", domain.NewConfigError("no pre-commit hook resolver configured", nil)
		}
		files, err := s.hooks.FilesForHook(ctx, preCommitConfig, hookName)
		if err != nil {
			return "", err
		}
		inv.Files = files
	}
	return s.runner.Run(ctx, inv)
}
