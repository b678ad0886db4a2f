package precommit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/ludo-technologies/linthell/domain"
)

// ManifestFile declares the hooks of a hook repository
const ManifestFile = ".pre-commit-hooks.yaml"

// ManifestLoader loads the hook manifest of a repository at a revision
type ManifestLoader interface {
	LoadManifest(ctx context.Context, repoURL, rev string) ([]Hook, error)
}

// GitManifestLoader reads manifests from the clones pre-commit keeps in its
// cache, and clones the repository into memory when none holds rev.
type GitManifestLoader struct {
	cacheDir string
}

// NewGitManifestLoader creates a loader over cacheDir, DefaultCacheDir when empty
func NewGitManifestLoader(cacheDir string) *GitManifestLoader {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	return &GitManifestLoader{cacheDir: cacheDir}
}

// DefaultCacheDir returns the directory pre-commit clones hook repositories into
func DefaultCacheDir() string {
	if dir := os.Getenv("PRE_COMMIT_HOME"); dir != "" {
		return dir
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "pre-commit")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", "pre-commit")
}

// LoadManifest implements ManifestLoader
func (l *GitManifestLoader) LoadManifest(ctx context.Context, repoURL, rev string) ([]Hook, error) {
	if hooks, ok := l.fromCache(repoURL, rev); ok {
		return hooks, nil
	}

	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
		URL:  repoURL,
		Tags: git.AllTags,
	})
	if err != nil {
		return nil, domain.NewIOError(fmt.Sprintf("failed to fetch %s", repoURL), err)
	}
	return manifestAt(repo, repoURL, rev)
}

// fromCache looks for a cached clone of repoURL containing rev
func (l *GitManifestLoader) fromCache(repoURL, rev string) ([]Hook, bool) {
	if l.cacheDir == "" {
		return nil, false
	}
	entries, err := os.ReadDir(l.cacheDir)
	if err != nil {
		return nil, false
	}

	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "repo") {
			continue
		}
		repo, err := git.PlainOpen(filepath.Join(l.cacheDir, e.Name()))
		if err != nil {
			continue
		}
		remote, err := repo.Remote("origin")
		if err != nil || len(remote.Config().URLs) == 0 || remote.Config().URLs[0] != repoURL {
			continue
		}
		if hooks, err := manifestAt(repo, repoURL, rev); err == nil {
			return hooks, true
		}
	}
	return nil, false
}

func manifestAt(repo *git.Repository, repoURL, rev string) ([]Hook, error) {
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown revision %s of %s", rev, repoURL), err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, domain.NewIOError(fmt.Sprintf("failed to read %s at %s", repoURL, rev), err)
	}
	file, err := commit.File(ManifestFile)
	if err != nil {
		return nil, domain.NewFileNotFoundError(repoURL+"/"+ManifestFile, err)
	}
	content, err := file.Contents()
	if err != nil {
		return nil, domain.NewIOError(fmt.Sprintf("failed to read %s of %s", ManifestFile, repoURL), err)
	}
	return ParseManifest([]byte(content))
}
