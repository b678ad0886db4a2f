package precommit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/go-git/go-git/v5"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/parser"
	ignore "github.com/sabhiram/go-gitignore"
)

// Repository lists candidate files of a project
type Repository struct {
	// Root is the top-level directory; listed files are relative to it
	Root string
	// Tracked is true when files come from a git index
	Tracked bool
}

// OpenRepository finds the git repository containing dir. Outside a
// repository dir itself becomes the root and files are found by walking it.
func OpenRepository(dir string) (*Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, domain.NewIOError(fmt.Sprintf("failed to resolve %s", dir), err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return &Repository{Root: abs}, nil
	}
	if err != nil {
		return nil, domain.NewIOError(fmt.Sprintf("failed to open git repository at %s", dir), err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, domain.NewIOError("bare repositories are not supported", err)
	}
	return &Repository{Root: wt.Filesystem.Root(), Tracked: true}, nil
}

// ListFiles returns existing files in slash form, sorted
func (r *Repository) ListFiles() ([]string, error) {
	var files []string
	var err error
	if r.Tracked {
		files, err = r.indexFiles()
	} else {
		files, err = r.walkFiles()
	}
	if err != nil {
		return nil, err
	}

	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Lstat(filepath.Join(r.Root, filepath.FromSlash(f))); err == nil {
			existing = append(existing, f)
		}
	}
	sort.Strings(existing)
	return existing, nil
}

// indexFiles lists the files staged in the git index
func (r *Repository) indexFiles() ([]string, error) {
	repo, err := git.PlainOpen(r.Root)
	if err != nil {
		return nil, domain.NewIOError(fmt.Sprintf("failed to open git repository at %s", r.Root), err)
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, domain.NewIOError("failed to read git index", err)
	}

	seen := make(map[string]bool, len(idx.Entries))
	files := make([]string, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		// merge conflicts keep one entry per stage
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		files = append(files, e.Name)
	}
	return files, nil
}

// walkFiles lists files under Root honouring its .gitignore
func (r *Repository) walkFiles() ([]string, error) {
	var matcher *ignore.GitIgnore
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(r.Root, ".gitignore")); err == nil {
		matcher = gi
	}

	var files []string
	err := filepath.WalkDir(r.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(r.Root, p)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || (matcher != nil && matcher.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, domain.NewIOError(fmt.Sprintf("failed to walk %s", r.Root), err)
	}
	return files, nil
}

// Classifier filters files for hooks
type Classifier struct {
	files []string
}

// NewClassifier applies the global files and exclude patterns of cfg
func NewClassifier(files []string, cfg *Config) (*Classifier, error) {
	filtered, err := filterIncludeExclude(files, cfg.Files, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	return &Classifier{files: filtered}, nil
}

// FilesForHook returns the files a hook checks
func (c *Classifier) FilesForHook(hook *Hook) ([]string, error) {
	filtered, err := filterIncludeExclude(c.files, hook.Files, hook.Exclude)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(filtered))
	for _, f := range filtered {
		if matchesTypes(f, hook) {
			out = append(out, f)
		}
	}
	return out, nil
}

// Options controls how FilesForHook completes remote hooks
type Options struct {
	// Manifests completes remote hooks; configured values alone are used when nil
	Manifests ManifestLoader
	// OnManifestError receives repositories whose manifest could not be loaded
	OnManifestError func(repo string, err error)
}

// FilesForHook lists the files of the hook called hookName, as configured
// in the pre-commit configuration at configPath, for the project in dir.
func FilesForHook(ctx context.Context, dir, configPath, hookName string, opts Options) ([]string, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	hook, err := cfg.ResolveHook(ctx, hookName, opts.Manifests, opts.OnManifestError)
	if err != nil {
		return nil, err
	}

	repo, err := OpenRepository(dir)
	if err != nil {
		return nil, err
	}
	files, err := repo.ListFiles()
	if err != nil {
		return nil, err
	}

	classifier, err := NewClassifier(files, cfg)
	if err != nil {
		return nil, err
	}
	return classifier.FilesForHook(hook)
}

// filterIncludeExclude keeps files matched by include and not by exclude,
// searching anywhere in the path
func filterIncludeExclude(files []string, include, exclude string) ([]string, error) {
	includeRe, err := compileFilter("files", include)
	if err != nil {
		return nil, err
	}
	excludeRe, err := compileFilter("exclude", exclude)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(files))
	for _, f := range files {
		in, err := includeRe.MatchString(f)
		if err != nil {
			return nil, domain.NewConfigError("files pattern timed out", err)
		}
		if !in {
			continue
		}
		ex, err := excludeRe.MatchString(f)
		if err != nil {
			return nil, domain.NewConfigError("exclude pattern timed out", err)
		}
		if !ex {
			out = append(out, f)
		}
	}
	return out, nil
}

func compileFilter(key, pattern string) (*regexp2.Regexp, error) {
	re, err := parser.CompilePattern(pattern, 0)
	if err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("invalid %s pattern %q", key, pattern), err)
	}
	return re, nil
}

// extensionTags maps file extensions to identify tags
var extensionTags = map[string][]string{
	".py":   {"python", "text"},
	".pyi":  {"python", "pyi", "text"},
	".pyx":  {"cython", "text"},
	".yaml": {"yaml", "text"},
	".yml":  {"yaml", "text"},
	".json": {"json", "text"},
	".toml": {"toml", "text"},
	".ini":  {"ini", "text"},
	".cfg":  {"ini", "text"},
	".md":   {"markdown", "text"},
	".rst":  {"rst", "text"},
	".txt":  {"plain-text", "text"},
	".sh":   {"shell", "bash", "text"},
	".go":   {"go", "text"},
	".js":   {"javascript", "text"},
	".ts":   {"ts", "text"},
}

// tagsForPath returns the identify tags derived from a file name
func tagsForPath(f string) map[string]bool {
	tags := map[string]bool{"file": true}
	for _, tag := range extensionTags[strings.ToLower(path.Ext(f))] {
		tags[tag] = true
	}
	return tags
}

// matchesTypes applies types (all), types_or (any) and exclude_types (none)
func matchesTypes(f string, hook *Hook) bool {
	tags := tagsForPath(f)
	for _, t := range hook.Types {
		if !tags[t] {
			return false
		}
	}
	if len(hook.TypesOr) > 0 {
		matched := false
		for _, t := range hook.TypesOr {
			if tags[t] {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, t := range hook.ExcludeTypes {
		if tags[t] {
			return false
		}
	}
	return true
}
