// Package testutil provides fixtures shared by linthell tests
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/afero"
)

// WriteFiles creates files with the given content on fs, creating parent
// directories. Names use forward slashes.
func WriteFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.FromSlash(name)
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// NewMemFs returns an in-memory file system holding files
func NewMemFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	WriteFiles(t, fs, files)
	return fs
}

// WriteDirFiles creates files below root on the OS file system
func WriteDirFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	WriteFiles(t, afero.NewBasePathFs(afero.NewOsFs(), root), files)
}

// InitGitRepo creates a git repository at root and stages the named files,
// which must already exist
func InitGitRepo(t *testing.T, root string, staged ...string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("Failed to init git repository: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to open worktree: %v", err)
	}
	for _, name := range staged {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(name))); err != nil {
			t.Fatalf("Cannot stage %s: %v", name, err)
		}
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("Failed to stage %s: %v", name, err)
		}
	}
	return repo
}

// Commit records the staged changes of repo and returns the commit hash
func Commit(t *testing.T, repo *git.Repository, message string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to open worktree: %v", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "linthell", Email: "linthell@example.com", When: time.Unix(0, 0)},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return hash
}
