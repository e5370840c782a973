package lspconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func edit(sl, sc, el, ec uint32, text string) protocol.TextEdit {
	return protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: sl, Character: sc},
			End:   protocol.Position{Line: el, Character: ec},
		},
		NewText: text,
	}
}

func TestApplyEdits(t *testing.T) {
	text := "alpha\nbeta\ngamma\n"
	out, err := ApplyEdits(text, []protocol.TextEdit{
		edit(2, 0, 2, 5, "GAMMA"),
		edit(0, 0, 0, 0, "// "),
		edit(1, 4, 1, 4, "!"),
		edit(0, 0, 0, 0, "x "),
	})
	require.NoError(t, err)
	assert.Equal(t, "// x alpha\nbeta!\nGAMMA\n", out)
}

func TestApplyEditsRejectsOverlap(t *testing.T) {
	_, err := ApplyEdits("abcdef", []protocol.TextEdit{
		edit(0, 0, 0, 4, ""),
		edit(0, 2, 0, 5, ""),
	})
	assert.Error(t, err)
}

func TestApplyEditsRejectsPositionsPastEnd(t *testing.T) {
	_, err := ApplyEdits("one line", []protocol.TextEdit{edit(3, 0, 3, 0, "x")})
	assert.Error(t, err)
}

func TestLocations(t *testing.T) {
	locs := NewLocations()
	assert.Empty(t, locs.Result())
	assert.NotNil(t, locs.Result())

	locs.Add("/src/A.as", "class A\n{\n}\n", 6, 7)
	got := locs.Result()
	require.Len(t, got, 1)
	assert.Equal(t, protocol.DocumentURI("file:///src/A.as"), got[0].URI)
	assert.Equal(t, protocol.Position{Line: 0, Character: 6}, got[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 7}, got[0].Range.End)
}
