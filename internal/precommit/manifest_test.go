package precommit

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/config"
	"github.com/ludo-technologies/linthell/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hooksManifest = `
- id: black
  name: black
  entry: black
  language: python
  types_or: [python, pyi]
`

func TestGitManifestLoader_FromCache(t *testing.T) {
	cacheDir := t.TempDir()
	clone := filepath.Join(cacheDir, "repo1a2b3c")
	testutil.WriteDirFiles(t, clone, map[string]string{ManifestFile: hooksManifest})
	repo := testutil.InitGitRepo(t, clone, ManifestFile)
	hash := testutil.Commit(t, repo, "hooks")

	const url = "https://example.invalid/psf/black"
	_, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{url}})
	require.NoError(t, err)

	// unrelated cache entries are skipped
	testutil.WriteDirFiles(t, cacheDir, map[string]string{"repo-broken/file": "x", "db.db": ""})

	hooks, err := NewGitManifestLoader(cacheDir).LoadManifest(context.Background(), url, hash.String())
	require.NoError(t, err)
	require.Len(t, hooks, 1)
	assert.Equal(t, "black", hooks[0].ID)
	assert.Equal(t, []string{"python", "pyi"}, hooks[0].TypesOr)
}

func TestGitManifestLoader_Clone(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	upstream := t.TempDir()
	testutil.WriteDirFiles(t, upstream, map[string]string{ManifestFile: hooksManifest})
	repo := testutil.InitGitRepo(t, upstream, ManifestFile)
	hash := testutil.Commit(t, repo, "hooks")

	loader := NewGitManifestLoader(t.TempDir())
	hooks, err := loader.LoadManifest(context.Background(), upstream, hash.String())
	require.NoError(t, err)
	require.Len(t, hooks, 1)
	assert.Equal(t, "black", hooks[0].Name)

	_, err = loader.LoadManifest(context.Background(), upstream, "no-such-rev")
	require.Error(t, err)
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("PRE_COMMIT_HOME", "/tmp/pc-home")
	assert.Equal(t, "/tmp/pc-home", DefaultCacheDir())

	t.Setenv("PRE_COMMIT_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "pre-commit"), DefaultCacheDir())
}
