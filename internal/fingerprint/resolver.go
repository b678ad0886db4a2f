package fingerprint

import (
	"strings"

	"github.com/spf13/afero"
)

// LineResolver returns the literal text of a source line. It never fails:
// missing files and line numbers degrade to an empty string or the last
// line, so fingerprinting stays best effort when sources changed.
//
// A resolver caches file contents and is meant to live for a single parse.
type LineResolver struct {
	fs    afero.Fs
	cache map[string][]string
}

// NewLineResolver creates a resolver reading from fs
func NewLineResolver(fs afero.Fs) *LineResolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &LineResolver{
		fs:    fs,
		cache: make(map[string][]string),
	}
}

// Line returns the 1-based lineNumber of path.
//   - lineNumber <= 0 returns ""
//   - an unreadable or empty file returns ""
//   - a lineNumber past the end returns the last line
func (r *LineResolver) Line(path string, lineNumber int) string {
	if lineNumber <= 0 {
		return ""
	}

	lines := r.lines(path)
	if len(lines) == 0 {
		return ""
	}
	if lineNumber > len(lines) {
		return lines[len(lines)-1]
	}
	return lines[lineNumber-1]
}

func (r *LineResolver) lines(path string) []string {
	if lines, ok := r.cache[path]; ok {
		return lines
	}

	var lines []string
	if data, err := afero.ReadFile(r.fs, path); err == nil {
		lines = splitLines(string(data))
	}
	r.cache[path] = lines
	return lines
}

// splitLines splits on "\n", drops a trailing "\r" from every line and
// ignores the empty element after a final newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	parts := strings.Split(content, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}
