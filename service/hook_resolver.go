package service

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/ludo-technologies/linthell/internal/precommit"
)

// PreCommitHookResolver implements domain.HookFileResolver for the project
// containing dir
type PreCommitHookResolver struct {
	dir       string
	manifests precommit.ManifestLoader
	logger    hclog.Logger
}

// NewPreCommitHookResolver creates a resolver for the project containing dir.
// Remote hooks are completed from manifests when manifests is not nil.
func NewPreCommitHookResolver(dir string, manifests precommit.ManifestLoader, logger hclog.Logger) *PreCommitHookResolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PreCommitHookResolver{dir: dir, manifests: manifests, logger: logger}
}

// FilesForHook returns the files, relative to the repository root, that
// pre-commit would pass to hookName
func (r *PreCommitHookResolver) FilesForHook(ctx context.Context, configPath, hookName string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := precommit.FilesForHook(ctx, r.dir, configPath, hookName, precommit.Options{
		Manifests: r.manifests,
		OnManifestError: func(repo string, err error) {
			r.logger.Warn("hook manifest unavailable, using configured values", "repo", repo, "error", err)
		},
	})
	if err != nil {
		return nil, err
	}
	r.logger.Debug("hook files resolved", "hook", hookName, "config", configPath, "files", len(files))
	return files, nil
}
