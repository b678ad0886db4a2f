package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/fingerprint"
)

// Diff line markers
const (
	oldFileMarker = "--- "
	newFileMarker = "+++ "
	hunkMarker    = "@"
	removedMarker = "-"
	addedMarker   = "+"
	contextMarker = " "
)

var (
	// --- package/module.py 2023-08-24 09:29:48.256318 +0000
	filePathPattern = regexp2.MustCompile(`^(?:-{3}|\+{3})\s(?<path>[\w/.-]+).*$`, regexp2.None)
	// @@ -10,20 +10,20 @@ optional section heading
	hunkPattern = regexp2.MustCompile(`^@@ -(?<old>\d+)(?:,\d+)? \+(?<new>\d+)(?:,\d+)? @@(?: .*)?$`, regexp2.None)
)

// Diff error kinds, matched with errors.Is
var (
	ErrInvalidFilePath   = errors.New("expected line to contain file path but it does not match expected pattern")
	ErrInvalidLineNumber = errors.New("expected line to contain line number but it does not match expected pattern")
	ErrInvalidLineOrder  = errors.New("expected lines with file path and line number before lines with code")
)

// DiffError reports malformed or out-of-order diff output
type DiffError struct {
	Dialect    string
	Kind       error
	Line       string
	LineNumber int
}

// Error implements the error interface
func (e *DiffError) Error() string {
	return fmt.Sprintf("invalid %s output (%v): %s", e.Dialect, e.Kind, e.Line)
}

// Unwrap returns the error kind
func (e *DiffError) Unwrap() error {
	return e.Kind
}

// DiffDialect names a formatter whose violations are reported as a unified diff
type DiffDialect struct {
	// Name is used in error messages
	Name string
}

var (
	// BlackDiff parses 'black --diff --check'
	BlackDiff = DiffDialect{Name: "black-diff"}
	// IsortDiff parses 'isort --diff --check-only'
	IsortDiff = DiffDialect{Name: "isort-diff"}
)

// DiffParser replays a unified diff and emits one finding per removed or
// added line, attributed to its line number in the old or new file.
type DiffParser struct {
	dialect DiffDialect
}

// NewDiffParser creates a diff parser for a dialect
func NewDiffParser(dialect DiffDialect) *DiffParser {
	return &DiffParser{dialect: dialect}
}

// Dialect returns the dialect the parser was created with
func (p *DiffParser) Dialect() DiffDialect {
	return p.dialect
}

// diffState is owned by a single Parse call
type diffState struct {
	workDir  string
	path     string
	hasPath  bool
	oldLine  int
	newLine  int
	hasLines bool
	findings []domain.Finding
}

// Parse replays output. Any malformed line aborts the parse and no
// findings are returned.
func (p *DiffParser) Parse(output string) ([]domain.Finding, error) {
	st := &diffState{
		workDir:  fingerprint.WorkDir(),
		findings: make([]domain.Finding, 0),
	}

	for i, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if err := p.step(st, line); err != nil {
			err.LineNumber = i + 1
			return nil, err
		}
	}
	return st.findings, nil
}

func (p *DiffParser) step(st *diffState, line string) *DiffError {
	switch {
	case strings.HasPrefix(line, oldFileMarker), strings.HasPrefix(line, newFileMarker):
		m, _ := filePathPattern.FindStringMatch(line)
		if m == nil {
			return p.fail(ErrInvalidFilePath, line)
		}
		st.path = m.GroupByName("path").String()
		st.hasPath = true
		st.hasLines = false

	case strings.HasPrefix(line, hunkMarker):
		m, _ := hunkPattern.FindStringMatch(line)
		if m == nil {
			return p.fail(ErrInvalidLineNumber, line)
		}
		oldLine, errOld := strconv.Atoi(m.GroupByName("old").String())
		newLine, errNew := strconv.Atoi(m.GroupByName("new").String())
		if errOld != nil || errNew != nil {
			return p.fail(ErrInvalidLineNumber, line)
		}
		st.oldLine, st.newLine = oldLine, newLine
		st.hasLines = true

	case strings.HasPrefix(line, removedMarker):
		if !st.hasPath || !st.hasLines {
			return p.fail(ErrInvalidLineOrder, line)
		}
		st.findings = append(st.findings, p.finding(st, st.oldLine, line))
		st.oldLine++

	case strings.HasPrefix(line, addedMarker):
		if !st.hasPath || !st.hasLines {
			return p.fail(ErrInvalidLineOrder, line)
		}
		st.findings = append(st.findings, p.finding(st, st.newLine, line))
		st.newLine++

	case strings.HasPrefix(line, contextMarker):
		if !st.hasLines {
			return p.fail(ErrInvalidLineOrder, line)
		}
		st.oldLine++
		st.newLine++
	}
	return nil
}

func (p *DiffParser) finding(st *diffState, lineNumber int, line string) domain.Finding {
	identity := fingerprint.NormalizePathFrom(st.path, st.workDir) + fingerprint.Separator + line
	display := fmt.Sprintf("%s:%d: %s", st.path, lineNumber, line)
	return domain.NewFinding(identity, display)
}

func (p *DiffParser) fail(kind error, line string) *DiffError {
	return &DiffError{Dialect: p.dialect.Name, Kind: kind, Line: line}
}
