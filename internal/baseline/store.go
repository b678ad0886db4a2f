// Package baseline persists the identities of known findings.
//
// A baseline file starts with the Header line and holds one escaped
// identity per line, sorted and deduplicated. Identities are escaped with
// Go string literal rules so that newlines and other control characters
// never appear raw. Files without the header are legacy baselines whose
// lines are identities taken as is.
package baseline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/fingerprint"
	"github.com/spf13/afero"
)

// Header marks a baseline whose entries are escaped. It contains no colon,
// so it never collides with an identity.
const Header = "# linthell-baseline v2"

// Escape encodes an identity as a single line
func Escape(identity string) string {
	quoted := strconv.Quote(identity)
	return quoted[1 : len(quoted)-1]
}

// Unescape decodes a line written by Escape. Lines that are not valid
// escaped text, such as hand-edited entries, are returned verbatim.
func Unescape(line string) string {
	identity, err := strconv.Unquote(`"` + line + `"`)
	if err != nil {
		return line
	}
	return identity
}

// Generate returns the sorted, deduplicated identities of findings
func Generate(findings []domain.Finding) []string {
	identities := make([]string, 0, len(findings))
	for _, f := range findings {
		identities = append(identities, f.Identity)
	}
	return normalize(identities)
}

// Digests maps the digest of every identity to the identity
func Digests(identities []string) domain.DigestSet {
	set := make(domain.DigestSet, len(identities))
	for _, id := range identities {
		set[fingerprint.DigestOf(id)] = id
	}
	return set
}

func normalize(identities []string) []string {
	sorted := append([]string(nil), identities...)
	sort.Strings(sorted)

	out := make([]string, 0, len(sorted))
	for i, id := range sorted {
		// an empty identity cannot be told apart from a blank line
		if id == "" || (i > 0 && id == sorted[i-1]) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Store reads and writes baseline files
type Store struct {
	fs afero.Fs
}

// NewStore creates a Store over fs, the OS file system when nil
func NewStore(fs afero.Fs) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{fs: fs}
}

// Save replaces the baseline at path. The file is written to a temporary
// file in the same directory and renamed into place.
func (s *Store) Save(path string, identities []string) error {
	entries := normalize(identities)

	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteByte('\n')
	for _, id := range entries {
		sb.WriteString(Escape(id))
		sb.WriteByte('\n')
	}

	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return domain.NewIOError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return domain.NewIOError(fmt.Sprintf("failed to create temporary file for %s", path), err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(sb.String()); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return domain.NewIOError(fmt.Sprintf("failed to write baseline %s", path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return domain.NewIOError(fmt.Sprintf("failed to write baseline %s", path), err)
	}
	if err := s.fs.Chmod(tmpName, 0o644); err != nil {
		_ = s.fs.Remove(tmpName)
		return domain.NewIOError(fmt.Sprintf("failed to set permissions on %s", path), err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return domain.NewIOError(fmt.Sprintf("failed to replace baseline %s", path), err)
	}
	return nil
}

// Load returns the identities stored at path in file order. Entries are
// unescaped only when the file starts with Header.
func (s *Store) Load(path string) ([]string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewIOError(fmt.Sprintf("failed to read baseline %s", path), err)
	}

	lines := strings.Split(string(data), "\n")
	escaped := len(lines) > 0 && strings.TrimSuffix(lines[0], "\r") == Header
	if escaped {
		lines = lines[1:]
	}

	identities := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if escaped {
			line = Unescape(line)
		}
		identities = append(identities, line)
	}
	return identities, nil
}

// LoadDigests loads the baseline at path as a digest set
func (s *Store) LoadDigests(path string) (domain.DigestSet, error) {
	identities, err := s.Load(path)
	if err != nil {
		return nil, err
	}
	return Digests(identities), nil
}
