package filepattern

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMatch(t *testing.T) {
	root := filepath.FromSlash("/work/app")
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"empty set matches below root", nil, "/work/app/src/Main.as", true},
		{"empty set rejects outside root", nil, "/work/other/Main.as", false},
		{"recursive glob", []string{"src/**/*.as"}, "/work/app/src/ui/Main.as", true},
		{"recursive glob wrong extension", []string{"src/**/*.as"}, "/work/app/src/ui/Main.mxml", false},
		{"directory prefix", []string{"src/"}, "/work/app/src/ui/View.mxml", true},
		{"second pattern", []string{"lib/*.as", "src/**"}, "/work/app/src/Main.as", true},
		{"sibling prefix is not inside", []string{"src/**"}, "/work/app-old/src/Main.as", false},
		{"file uri", []string{"src/**"}, "file:///work/app/src/Main.as", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSet(root, tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Match(filepath.FromSlash(tt.path)))
		})
	}
}

func TestNewSetRejectsInvalidPattern(t *testing.T) {
	_, err := NewSet("/work", []string{"src/[a"})
	assert.Error(t, err)
}

func TestMatchSinglePattern(t *testing.T) {
	assert.True(t, Match("/work", "**/*.mxml", "/work/a/b/View.mxml"))
	assert.False(t, Match("/work", "*.mxml", "/work/a/View.mxml"))
}
