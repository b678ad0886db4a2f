package parser

import (
	"github.com/dlclark/regexp2"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/fingerprint"
)

var wouldReformatPattern = regexp2.MustCompile(`would reformat (.+)`, regexp2.None)

// BlackCheckParser treats every file black would reformat as one finding.
// A baselined file suppresses every later formatting issue in it.
type BlackCheckParser struct{}

// NewBlackCheckParser creates a BlackCheckParser
func NewBlackCheckParser() *BlackCheckParser {
	return &BlackCheckParser{}
}

// Parse returns one finding per "would reformat" line
func (p *BlackCheckParser) Parse(output string) ([]domain.Finding, error) {
	workDir := fingerprint.WorkDir()
	findings := make([]domain.Finding, 0)

	m, err := wouldReformatPattern.FindStringMatch(output)
	for ; m != nil && err == nil; m, err = wouldReformatPattern.FindNextMatch(m) {
		path := m.GroupByNumber(1).String()
		findings = append(findings, domain.NewFinding(fingerprint.NormalizePathFrom(path, workDir), m.String()))
	}
	if err != nil {
		return nil, domain.NewParseError("black-check", err)
	}
	return findings, nil
}
