package tailer

import (
	"path/filepath"

	"github.com/gobwas/glob"
)

// Matcher decides which files in the watched directory are discovered as sources
type Matcher interface {
	Match(name string) bool
}

// matcher implements the Matcher interface
type matcher struct {
	pattern glob.Glob
	ignores []glob.Glob
}

// NewMatcher creates a Matcher from a discovery pattern and ignore patterns.
// An empty pattern matches nothing
func NewMatcher(pattern string, ignores []string) (Matcher, error) {
	m := &matcher{
		ignores: make([]glob.Glob, 0, len(ignores)),
	}

	if pattern != "" {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}

		m.pattern = g
	}

	for _, p := range ignores {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}

		m.ignores = append(m.ignores, g)
	}

	return m, nil
}

// Match returns true if the base name matches the pattern and is not ignored
func (m *matcher) Match(name string) bool {
	if m.pattern == nil {
		return false
	}

	name = filepath.Base(name)

	for _, ignore := range m.ignores {
		if ignore.Match(name) {
			return false
		}
	}

	return m.pattern.Match(name)
}
