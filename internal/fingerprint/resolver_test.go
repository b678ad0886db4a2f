package fingerprint

import (
	"testing"

	"github.com/ludo-technologies/linthell/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	return testutil.NewMemFs(t, files)
}

func TestLineResolver_Line(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"three.py": "first\nsecond\nthird\n",
		"crlf.py":  "alpha\r\nbeta\r\n",
		"empty.py": "",
		"nonl.py":  "only",
	})
	r := NewLineResolver(fs)

	testCases := []struct {
		name     string
		path     string
		line     int
		expected string
	}{
		{"first line", "three.py", 1, "first"},
		{"middle line", "three.py", 2, "second"},
		{"last line", "three.py", 3, "third"},
		{"beyond last line", "three.py", 999, "third"},
		{"zero line", "three.py", 0, ""},
		{"negative line", "three.py", -1, ""},
		{"missing file", "missing.py", 1, ""},
		{"empty file", "empty.py", 1, ""},
		{"crlf stripped", "crlf.py", 2, "beta"},
		{"no trailing newline", "nonl.py", 1, "only"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, r.Line(tc.path, tc.line))
		})
	}
}

func TestLineResolver_CachesPerFile(t *testing.T) {
	fs := newTestFs(t, map[string]string{"a.py": "one\ntwo\n"})
	r := NewLineResolver(fs)

	assert.Equal(t, "two", r.Line("a.py", 2))

	// A change on disk is not observed within the same resolver.
	require.NoError(t, afero.WriteFile(fs, "a.py", []byte("changed\n"), 0o644))
	assert.Equal(t, "two", r.Line("a.py", 2))

	assert.Equal(t, "changed", NewLineResolver(fs).Line("a.py", 2))
}
