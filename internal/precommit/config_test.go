package precommit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/linthell/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
exclude: ^vendor/
repos:
  - repo: local
    hooks:
      - id: flake8-baseline
        name: flake8 with baseline
        entry: linthell precommit lint --plugin flake8
        language: system
        types: [python]
      - id: yaml-check
        files: \.ya?ml$
  - repo: https://github.com/psf/black
    rev: 24.1.0
    hooks:
      - id: black
`

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, DefaultFiles, cfg.Files)
	assert.Equal(t, "^vendor/", cfg.Exclude)
	require.Len(t, cfg.Repos, 2)

	yamlHook := cfg.Repos[0].Hooks[1]
	assert.Equal(t, DefaultExclude, yamlHook.Exclude)
	assert.Equal(t, []string{"file"}, yamlHook.Types)

	empty, err := ParseConfig([]byte("repos: []\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultExclude, empty.Exclude)
}

func TestParseConfigInvalid(t *testing.T) {
	_, err := ParseConfig([]byte("repos: [\n"))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeConfigError))
}

func TestFindHook(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	h, err := cfg.FindHook("flake8 with baseline")
	require.NoError(t, err)
	assert.Equal(t, "flake8-baseline", h.ID)

	h, err = cfg.FindHook("black")
	require.NoError(t, err)
	assert.Equal(t, "black", h.ID)

	_, err = cfg.FindHook("missing")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pre-commit-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Repos, 2)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeFileNotFound))
}

func TestApplyManifest(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
repos:
  - repo: https://github.com/PyCQA/flake8
    rev: 7.0.0
    hooks:
      - id: flake8
      - id: flake8
        name: strict flake8
        exclude: ^tests/
        types: [file]
`))
	require.NoError(t, err)

	manifest, err := ParseManifest([]byte(`
- id: flake8
  name: flake8
  entry: flake8
  language: python
  types: [python]
  exclude: ^docs/
`))
	require.NoError(t, err)

	repo := &cfg.Repos[0]
	assert.True(t, repo.IsRemote())
	repo.ApplyManifest(manifest)

	plain := repo.Hooks[0]
	assert.Equal(t, "flake8", plain.Name)
	assert.Equal(t, []string{"python"}, plain.Types)
	assert.Equal(t, "^docs/", plain.Exclude)

	custom := repo.Hooks[1]
	assert.Equal(t, "strict flake8", custom.Name)
	assert.Equal(t, []string{"file"}, custom.Types)
	assert.Equal(t, "^tests/", custom.Exclude)
}

func TestParseManifestInvalid(t *testing.T) {
	_, err := ParseManifest([]byte("id: [\n"))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeConfigError))
}

func TestResolveHook_NameFromManifest(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)
	assert.False(t, cfg.Repos[0].IsRemote())

	manifests := &fakeManifests{hooks: map[string][]Hook{
		"https://github.com/psf/black": {{ID: "black", Name: "black formatter", Types: []string{"python"}}},
	}}
	h, err := cfg.ResolveHook(context.Background(), "black formatter", manifests, nil)
	require.NoError(t, err)
	assert.Equal(t, "black", h.ID)
	assert.Equal(t, []string{"python"}, h.Types)
	assert.Equal(t, []string{"https://github.com/psf/black@24.1.0"}, manifests.calls)
}
