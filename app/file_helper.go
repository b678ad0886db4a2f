package app

import (
	"io"
	"os"

	"github.com/ludo-technologies/linthell/domain"
	"github.com/mattn/go-isatty"
)

// FileHelper provides file and standard input utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// ReadInput reads r to the end. Linter output is read as a whole so
// multi-line patterns can span lines.
func (h *FileHelper) ReadInput(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", domain.NewIOError("failed to read linter output", err)
	}
	return string(data), nil
}

// IsTerminal reports whether f is attached to a terminal rather than a pipe
func (h *FileHelper) IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// FileExists checks if a regular file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
