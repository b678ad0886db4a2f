// Package fingerprint builds the line-drift insensitive identity of a
// linter finding and its digest.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/linthell/domain"
)

// Separator joins the parts of an identity
const Separator = ":"

// Identity returns path:lineContent:message with the path normalized
func Identity(path, lineContent, message string) string {
	return IdentityFrom(WorkDir(), path, lineContent, message)
}

// IdentityFrom is Identity with an explicit working directory
func IdentityFrom(workDir, path, lineContent, message string) string {
	return NormalizePathFrom(path, workDir) + Separator + lineContent + Separator + message
}

// DigestOf returns the lowercase hex MD5 of the UTF-8 identity
func DigestOf(identity string) domain.Digest {
	sum := md5.Sum([]byte(identity))
	return domain.Digest(hex.EncodeToString(sum[:]))
}

// NormalizePath rewrites path with forward slashes, relative to the
// current working directory when it is absolute.
func NormalizePath(path string) string {
	return NormalizePathFrom(path, WorkDir())
}

// WorkDir returns the current working directory, or "" when it is unknown
func WorkDir() string {
	workDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return workDir
}

// NormalizePathFrom is NormalizePath with an explicit working directory.
// Absolute paths outside workDir are kept absolute.
func NormalizePathFrom(path, workDir string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) && workDir != "" {
		if rel, err := filepath.Rel(workDir, path); err == nil && !escapesDir(rel) {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}

func escapesDir(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
