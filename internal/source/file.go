// Package source loads source files and splits them into lines.
package source

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnreadable indicates the source file is missing or cannot be read.
var ErrUnreadable = errors.New("source file unreadable")

// File is an immutable source file. Lines keep their original terminators so
// that slicing reproduces the file verbatim.
type File struct {
	Path  string
	Text  string
	Lines []string
}

// Load reads the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	return New(path, string(data)), nil
}

// New wraps already loaded text.
func New(path, text string) *File {
	return &File{
		Path:  path,
		Text:  text,
		Lines: SplitLines(text),
	}
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.Lines)
}

// SplitLines splits text after every "\n". A trailing empty segment (text
// ending in a newline) is not counted as a line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
