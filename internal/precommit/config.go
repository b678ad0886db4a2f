// Package precommit finds the files a pre-commit hook checks, the way
// 'pre-commit run --all-files' selects them.
package precommit

import (
	"context"
	"fmt"
	"os"

	"github.com/ludo-technologies/linthell/domain"
	"gopkg.in/yaml.v3"
)

// Defaults of the files and exclude keys
const (
	DefaultFiles   = ""
	DefaultExclude = "^$"
)

// Config is the subset of .pre-commit-config.yaml needed to select files
type Config struct {
	Files   string `yaml:"files"`
	Exclude string `yaml:"exclude"`
	Repos   []Repo `yaml:"repos"`
}

// Repositories whose hooks are defined in the configuration itself
const (
	LocalRepo = "local"
	MetaRepo  = "meta"
)

// Repo is a hook repository entry
type Repo struct {
	Repo  string `yaml:"repo"`
	Rev   string `yaml:"rev"`
	Hooks []Hook `yaml:"hooks"`
}

// IsRemote reports whether the hooks are declared in the repository's manifest
func (r *Repo) IsRemote() bool {
	return r.Repo != LocalRepo && r.Repo != MetaRepo
}

// Hook is a hook entry of a repository or of a hook manifest
type Hook struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Files        string   `yaml:"files"`
	Exclude      string   `yaml:"exclude"`
	Types        []string `yaml:"types"`
	TypesOr      []string `yaml:"types_or"`
	ExcludeTypes []string `yaml:"exclude_types"`

	// keys written in the configuration, before defaults
	set hookKeys
}

type hookKeys struct {
	name, files, exclude, types, typesOr, excludeTypes bool
}

func (h *Hook) recordKeys() {
	h.set = hookKeys{
		name:         h.Name != "",
		files:        h.Files != "",
		exclude:      h.Exclude != "",
		types:        h.Types != nil,
		typesOr:      h.TypesOr != nil,
		excludeTypes: h.ExcludeTypes != nil,
	}
}

func (h *Hook) applyDefaults() {
	if h.Exclude == "" {
		h.Exclude = DefaultExclude
	}
	if len(h.Types) == 0 {
		h.Types = []string{"file"}
	}
}

// merge fills the keys the configuration left out from a manifest hook
func (h *Hook) merge(m Hook) {
	if !h.set.name {
		h.Name = m.Name
	}
	if !h.set.files {
		h.Files = m.Files
	}
	if !h.set.exclude {
		h.Exclude = m.Exclude
	}
	if !h.set.types {
		h.Types = m.Types
	}
	if !h.set.typesOr {
		h.TypesOr = m.TypesOr
	}
	if !h.set.excludeTypes {
		h.ExcludeTypes = m.ExcludeTypes
	}
	h.applyDefaults()
}

// LoadConfig reads a pre-commit configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewIOError(fmt.Sprintf("failed to read %s", path), err)
	}
	return ParseConfig(data)
}

// ParseConfig parses pre-commit configuration content and applies defaults
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, domain.NewConfigError("invalid pre-commit configuration", err)
	}

	if cfg.Exclude == "" {
		cfg.Exclude = DefaultExclude
	}
	for i := range cfg.Repos {
		for j := range cfg.Repos[i].Hooks {
			h := &cfg.Repos[i].Hooks[j]
			h.recordKeys()
			h.applyDefaults()
		}
	}
	return &cfg, nil
}

// ParseManifest parses the hook list of a ManifestFile
func ParseManifest(data []byte) ([]Hook, error) {
	var hooks []Hook
	if err := yaml.Unmarshal(data, &hooks); err != nil {
		return nil, domain.NewConfigError("invalid hook manifest", err)
	}
	return hooks, nil
}

// ApplyManifest completes the hooks of a remote repository with the values
// its manifest declares. Keys written in the configuration win.
func (r *Repo) ApplyManifest(manifest []Hook) {
	byID := make(map[string]Hook, len(manifest))
	for _, m := range manifest {
		byID[m.ID] = m
	}
	for i := range r.Hooks {
		if m, ok := byID[r.Hooks[i].ID]; ok {
			r.Hooks[i].merge(m)
		}
	}
}

// FindHook returns the hook whose name, or failing that id, equals name
func (c *Config) FindHook(name string) (*Hook, error) {
	h, _ := c.findHook(name)
	if h == nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown hook name: %s", name), nil)
	}
	return h, nil
}

// findHook returns the hook called name and the repository declaring it
func (c *Config) findHook(name string) (*Hook, *Repo) {
	var byID *Hook
	var byIDRepo *Repo
	for i := range c.Repos {
		for j := range c.Repos[i].Hooks {
			h := &c.Repos[i].Hooks[j]
			if h.Name == name {
				return h, &c.Repos[i]
			}
			if byID == nil && h.ID == name {
				byID, byIDRepo = h, &c.Repos[i]
			}
		}
	}
	return byID, byIDRepo
}

// ResolveHook is FindHook for a configuration whose remote hooks are
// completed from their manifests. Only the repository of the hook is
// loaded when the configuration names it; otherwise every remote
// repository is, since the name may come from a manifest. Repositories
// whose manifest cannot be loaded keep their configured values and are
// reported to onError when it is not nil.
func (c *Config) ResolveHook(ctx context.Context, name string, loader ManifestLoader, onError func(repo string, err error)) (*Hook, error) {
	if loader == nil {
		return c.FindHook(name)
	}

	apply := func(r *Repo) {
		if !r.IsRemote() {
			return
		}
		manifest, err := loader.LoadManifest(ctx, r.Repo, r.Rev)
		if err != nil {
			if onError != nil {
				onError(r.Repo, err)
			}
			return
		}
		r.ApplyManifest(manifest)
	}

	if h, r := c.findHook(name); h != nil {
		apply(r)
		return h, nil
	}
	for i := range c.Repos {
		apply(&c.Repos[i])
	}
	return c.FindHook(name)
}
