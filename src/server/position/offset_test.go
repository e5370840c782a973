package position

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"mxls/src/internal/errors"
	"mxls/src/internal/models/semantic"
)

func TestToOffset(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		pos      protocol.Position
		expected int
	}{
		{"origin", "ab\ncd", protocol.Position{Line: 0, Character: 0}, 0},
		{"second line", "ab\ncd", protocol.Position{Line: 1, Character: 1}, 4},
		{"end of text", "ab\ncd", protocol.Position{Line: 1, Character: 2}, 5},
		{"column runs past newline", "ab\ncd", protocol.Position{Line: 0, Character: 4}, 4},
		{"crlf counts carriage return as a column", "ab\r\ncd", protocol.Position{Line: 1, Character: 0}, 4},
		{"surrogate pair is two columns", "a😀b", protocol.Position{Line: 0, Character: 3}, 5},
		{"multibyte bmp rune is one column", "é=1", protocol.Position{Line: 0, Character: 1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, err := ToOffset(strings.NewReader(tt.text), tt.pos, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, offset)
		})
	}
}

func TestToOffsetPastEnd(t *testing.T) {
	positions := []protocol.Position{
		{Line: 0, Character: 6},
		{Line: 2, Character: 0},
		{Line: 99, Character: 99},
	}
	for _, pos := range positions {
		_, err := ToOffset(strings.NewReader("ab\ncd"), pos, nil)
		assert.ErrorIs(t, err, errors.ErrNoOffsetFound, "position %+v", pos)
	}
}

func TestToOffsetIncludeMap(t *testing.T) {
	inc := &semantic.IncludeMap{
		ParentPath: "/src/Main.as",
		Cues: []semantic.OffsetCue{
			{Local: 0, Adjustment: 100},
			{Local: 10, Adjustment: 250},
		},
	}
	text := "0123456789\n0123456789"

	offset, err := ToOffset(strings.NewReader(text), protocol.Position{Line: 0, Character: 4}, inc)
	require.NoError(t, err)
	assert.Equal(t, 104, offset)

	offset, err = ToOffset(strings.NewReader(text), protocol.Position{Line: 1, Character: 1}, inc)
	require.NoError(t, err)
	assert.Equal(t, 262, offset)
}

func TestLineIndex(t *testing.T) {
	text := "package {\r\n\tvar s:String = \"😀x\";\n}"
	li := NewLineIndex(text)

	assert.Equal(t, 3, li.LineCount())

	x := strings.Index(text, "x\"")
	pos := li.PositionAt(x)
	assert.Equal(t, protocol.Position{Line: 1, Character: 19}, pos)

	back, ok := li.OffsetAt(pos)
	require.True(t, ok)
	assert.Equal(t, x, back)

	eol, ok := li.OffsetAt(protocol.Position{Line: 0, Character: 80})
	require.True(t, ok)
	assert.Equal(t, strings.Index(text, "\r"), eol)

	_, ok = li.OffsetAt(protocol.Position{Line: 3, Character: 0})
	assert.False(t, ok)

	assert.Equal(t, protocol.Position{Line: 2, Character: 1}, li.PositionAt(len(text)+10))
}
