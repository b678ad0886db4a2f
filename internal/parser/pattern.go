package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/fingerprint"
	"github.com/spf13/afero"
)

// Required capture groups of a lint format
const (
	GroupPath    = "path"
	GroupLine    = "line"
	GroupMessage = "message"
)

// DefaultMatchTimeout bounds a single match attempt
const DefaultMatchTimeout = 5 * time.Second

// PatternParser extracts findings with a regular expression declaring the
// path, line and message groups. Matches may span several lines.
type PatternParser struct {
	name    string
	pattern string
	re      *regexp2.Regexp
	fs      afero.Fs
}

// NewPatternParser compiles a lint format written in Python regular
// expression syntax.
func NewPatternParser(pattern string, opts Options) (*PatternParser, error) {
	return newNamedPatternParser("regex", pattern, opts)
}

func newNamedPatternParser(name, pattern string, opts Options) (*PatternParser, error) {
	if pattern == "" {
		return nil, domain.NewConfigError("lint format must not be empty", nil)
	}

	re, err := CompilePattern(pattern, opts.matchTimeout())
	if err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("invalid lint format %q", pattern), err)
	}

	if err := requireGroups(re, GroupPath, GroupLine, GroupMessage); err != nil {
		return nil, err
	}

	return &PatternParser{
		name:    name,
		pattern: pattern,
		re:      re,
		fs:      opts.fs(),
	}, nil
}

func requireGroups(re *regexp2.Regexp, names ...string) error {
	declared := make(map[string]bool)
	for _, n := range re.GetGroupNames() {
		declared[n] = true
	}
	for _, n := range names {
		if !declared[n] {
			return domain.NewConfigError(fmt.Sprintf("lint format must declare a %q group", n), nil)
		}
	}
	return nil
}

// Pattern returns the lint format as given
func (p *PatternParser) Pattern() string {
	return p.pattern
}

// Parse returns one finding per match, in input order
func (p *PatternParser) Parse(output string) ([]domain.Finding, error) {
	resolver := fingerprint.NewLineResolver(p.fs)
	workDir := fingerprint.WorkDir()
	findings := make([]domain.Finding, 0)

	m, err := p.re.FindStringMatch(output)
	for ; m != nil && err == nil; m, err = p.re.FindNextMatch(m) {
		path := groupText(m, GroupPath)
		message := groupText(m, GroupMessage)
		lineNumber := parseLineNumber(groupText(m, GroupLine))

		identity := fingerprint.IdentityFrom(workDir, path, resolver.Line(path, lineNumber), message)
		findings = append(findings, domain.NewFinding(identity, m.String()))
	}
	if err != nil {
		return nil, domain.NewParseError(p.name, err)
	}

	return findings, nil
}

// parseLineNumber converts a line group. Positive numbers too large for an
// int resolve past the end of any file; anything else unparsable is 0.
func parseLineNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err == nil {
		return n
	}
	if errors.Is(err, strconv.ErrRange) && s[0] != '-' {
		return math.MaxInt
	}
	return 0
}

// groupText returns the last capture of a group, or "" when it did not participate
func groupText(m *regexp2.Match, name string) string {
	g := m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}
