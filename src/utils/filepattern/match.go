// Package filepattern matches file paths against the source path globs of a
// workspace folder.
package filepattern

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.lsp.dev/uri"

	"mxls/src/internal/common"
)

// Set is a list of globs evaluated relative to a root directory. A path
// matches when any glob matches. An empty set matches everything below root.
type Set struct {
	root     string
	patterns []string
}

// NewSet validates patterns and anchors them at root. Patterns use forward
// slashes; a trailing slash matches a whole directory tree.
func NewSet(root string, patterns []string) (*Set, error) {
	s := &Set{root: filepath.Clean(root)}
	for _, p := range patterns {
		p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, "/") {
			p += "**"
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid source path pattern %q", p)
		}
		s.patterns = append(s.patterns, p)
	}
	return s, nil
}

// Patterns returns the normalized globs
func (s *Set) Patterns() []string {
	return s.patterns
}

// Match reports whether pathOrURI lies below the root and matches the set
func (s *Set) Match(pathOrURI string) bool {
	rel, ok := s.relative(pathOrURI)
	if !ok {
		return false
	}
	if len(s.patterns) == 0 {
		return true
	}
	for _, p := range s.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (s *Set) relative(pathOrURI string) (string, bool) {
	path := pathOrURI
	if strings.HasPrefix(path, "file://") {
		path = common.URIToFilePath(uri.URI(path))
	}
	rel, err := filepath.Rel(s.root, filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Match reports whether path matches pattern relative to root
func Match(root, pattern, path string) bool {
	s, err := NewSet(root, []string{pattern})
	if err != nil {
		return false
	}
	return s.Match(path)
}
