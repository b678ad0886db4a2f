package domain

// Finding is one violation reported by a linter, reduced to the key used
// for deduplication and the text shown when the violation is not suppressed.
type Finding struct {
	// Identity is path:source-line:message; it does not embed a line number
	// so it survives unrelated edits that shift the line.
	Identity string `json:"identity" yaml:"identity"`

	// Display is the human-readable text printed for a new finding
	Display string `json:"display" yaml:"display"`
}

// NewFinding creates a Finding
func NewFinding(identity, display string) Finding {
	return Finding{Identity: identity, Display: display}
}

// Digest is a fixed-length hash of an identity string
type Digest string

// DigestSet maps the digest of every baseline identity to the identity itself
type DigestSet map[Digest]string

// Contains reports whether d is part of the set
func (s DigestSet) Contains(d Digest) bool {
	_, ok := s[d]
	return ok
}

// Len returns the number of distinct digests
func (s DigestSet) Len() int {
	return len(s)
}

// Parser turns raw linter output into an ordered list of findings.
// Implementations keep no state between calls.
type Parser interface {
	Parse(output string) ([]Finding, error)
}

// ParserSelection chooses how linter output is parsed: either a regex with
// path/line/message groups or a registered parser name, never both.
type ParserSelection struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Plugin string `json:"plugin,omitempty" yaml:"plugin,omitempty"`
}

// IsEmpty reports whether neither a format nor a plugin was chosen
func (s ParserSelection) IsEmpty() bool {
	return s.Format == "" && s.Plugin == ""
}

// Name returns a short label for logs and errors
func (s ParserSelection) Name() string {
	if s.Plugin != "" {
		return s.Plugin
	}
	return "regex"
}
