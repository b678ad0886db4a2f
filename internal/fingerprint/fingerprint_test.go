package fingerprint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		line     string
		message  string
		expected string
	}{
		{
			name:     "relative path",
			path:     "pkg/mod.py",
			line:     "import os",
			message:  "F401 'os' imported but unused",
			expected: "pkg/mod.py:import os:F401 'os' imported but unused",
		},
		{
			name:     "file level finding",
			path:     "pkg/mod.py",
			line:     "",
			message:  "D100 Missing docstring",
			expected: "pkg/mod.py::D100 Missing docstring",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Identity(tc.path, tc.line, tc.message))
		})
	}
}

func TestDigestOf(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", string(DigestOf("")))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", string(DigestOf("abc")))

	id := Identity("a.py", "x = 1", "E225 missing whitespace")
	assert.Equal(t, DigestOf(id), DigestOf(id), "digest must be deterministic")
	assert.Len(t, string(DigestOf(id)), 32)
	assert.NotEqual(t, DigestOf(id), DigestOf(id+" "))
}

func TestNormalizePathFrom(t *testing.T) {
	workDir := filepath.FromSlash("/home/user/project")

	testCases := []struct {
		name     string
		path     string
		expected string
	}{
		{"empty", "", ""},
		{"relative unchanged", "pkg/mod.py", "pkg/mod.py"},
		{"absolute inside work dir", filepath.Join(workDir, "pkg", "mod.py"), "pkg/mod.py"},
		{"absolute outside work dir", filepath.FromSlash("/tmp/other.py"), filepath.ToSlash(filepath.FromSlash("/tmp/other.py"))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizePathFrom(tc.path, workDir))
		})
	}
}

func TestIdentity_LineDriftInvariance(t *testing.T) {
	before := Identity("a.py", "    return x", "R1705 unnecessary else")
	// Same content and message, the finding moved from line 10 to line 42.
	after := Identity("a.py", "    return x", "R1705 unnecessary else")
	assert.Equal(t, before, after)
	assert.Equal(t, DigestOf(before), DigestOf(after))
}

func TestIdentityFrom(t *testing.T) {
	workDir := filepath.FromSlash("/work/project")
	abs := filepath.Join(workDir, "pkg", "a.py")

	assert.Equal(t, "pkg/a.py:x = 1:E225", IdentityFrom(workDir, abs, "x = 1", "E225"))
	assert.Equal(t, Identity("pkg/a.py", "x = 1", "E225"), IdentityFrom(WorkDir(), "pkg/a.py", "x = 1", "E225"))
}
