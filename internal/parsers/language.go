package parsers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// LanguageSelector maps file paths to a grammar using glob patterns.
type LanguageSelector struct {
	cppPatterns []compiledPattern
}

// NewLanguageSelector compiles the C++ patterns. Patterns use '/' as the
// separator and are matched against slash-normalized paths.
func NewLanguageSelector(cppPatterns []string) (*LanguageSelector, error) {
	s := &LanguageSelector{}
	for _, pattern := range cppPatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid language pattern %q: %w", pattern, err)
		}
		s.cppPatterns = append(s.cppPatterns, compiledPattern{pattern: pattern, glob: g})
	}
	return s, nil
}

// Select returns LangCPP when filePath matches a C++ pattern, LangC otherwise.
func (s *LanguageSelector) Select(filePath string) string {
	normalized := filepath.ToSlash(filePath)
	rooted := "/" + strings.TrimPrefix(normalized, "/")
	base := filepath.Base(filePath)
	for _, p := range s.cppPatterns {
		// The rooted form lets "**/*.cpp" match a bare "a.cpp".
		if p.glob.Match(normalized) || p.glob.Match(rooted) || p.glob.Match(base) {
			return LangCPP
		}
	}
	return LangC
}
