// Package parser turns raw linter output into findings.
//
// Parsers are looked up by name in a registry of presets, or built from a
// user supplied lint format. Every Parse call owns its own state.
package parser

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ludo-technologies/linthell/domain"
	"github.com/spf13/afero"
)

// Options configures parser construction
type Options struct {
	// Fs is read to resolve source lines; the OS file system when nil
	Fs afero.Fs
	// MatchTimeout bounds a single regex match; DefaultMatchTimeout when zero
	MatchTimeout time.Duration
}

func (o Options) fs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

func (o Options) matchTimeout() time.Duration {
	if o.MatchTimeout <= 0 {
		return DefaultMatchTimeout
	}
	return o.MatchTimeout
}

// Factory builds a registered parser
type Factory func(opts Options) (domain.Parser, error)

// Entry describes a registered parser
type Entry struct {
	Name        string
	Description string
	Factory     Factory
}

var registry = map[string]Entry{}

// Register adds a parser to the registry, replacing any parser of the same name
func Register(name, description string, factory Factory) {
	registry[name] = Entry{Name: name, Description: description, Factory: factory}
}

func init() {
	for _, preset := range presets {
		preset := preset
		Register(preset.name, preset.description, func(opts Options) (domain.Parser, error) {
			return newNamedPatternParser(preset.name, preset.pattern, opts)
		})
	}

	Register("black-check", "files listed by 'black --check'", func(opts Options) (domain.Parser, error) {
		return NewBlackCheckParser(), nil
	})
	Register(BlackDiff.Name, "lines changed by 'black --diff --check'", func(opts Options) (domain.Parser, error) {
		return NewDiffParser(BlackDiff), nil
	})
	Register(IsortDiff.Name, "lines changed by 'isort --diff --check-only'", func(opts Options) (domain.Parser, error) {
		return NewDiffParser(IsortDiff), nil
	})
}

// Names returns the registered parser names, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the registered parsers sorted by name
func Describe() []Entry {
	entries := make([]Entry, 0, len(registry))
	for _, name := range Names() {
		entries = append(entries, registry[name])
	}
	return entries
}

// New builds the registered parser called name
func New(name string, opts Options) (domain.Parser, error) {
	entry, ok := registry[name]
	if !ok {
		return nil, domain.NewConfigError(
			fmt.Sprintf("cannot find parser %q (available: %s)", name, strings.Join(Names(), ", ")), nil)
	}
	return entry.Factory(opts)
}

// Select builds the parser chosen by a lint format or a parser name.
// Exactly one of the two must be set.
func Select(selection domain.ParserSelection, opts Options) (domain.Parser, error) {
	switch {
	case selection.Format != "" && selection.Plugin != "":
		return nil, domain.NewConfigError("lint format and parser are mutually exclusive", nil)
	case selection.Format != "":
		return NewPatternParser(selection.Format, opts)
	case selection.Plugin != "":
		return New(selection.Plugin, opts)
	default:
		return nil, domain.NewConfigError("either a lint format or a parser must be provided", nil)
	}
}

// Label describes a parser for log output
func Label(p domain.Parser) string {
	switch p := p.(type) {
	case *PatternParser:
		return fmt.Sprintf("%s %q", p.name, p.Pattern())
	case *DiffParser:
		return p.Dialect().Name
	case *BlackCheckParser:
		return "black-check"
	default:
		return fmt.Sprintf("%T", p)
	}
}
