package common

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"mxls/src/config"
	"mxls/src/internal/errors"
	"mxls/src/server/workspace"
)

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition("3", "7")
	require.NoError(t, err)
	assert.Equal(t, protocol.Position{Line: 2, Character: 6}, pos)

	for _, args := range [][2]string{{"0", "1"}, {"1", "0"}, {"x", "1"}, {"1", ""}} {
		_, err := ParsePosition(args[0], args[1])
		assert.True(t, errors.IsValidationError(err), "%v", args)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestCommandContextOpen(t *testing.T) {
	dir := t.TempDir()
	onDisk := filepath.Join(dir, "src", "A.as")
	require.NoError(t, os.MkdirAll(filepath.Dir(onDisk), 0755))
	require.NoError(t, os.WriteFile(onDisk, []byte("var a:int;"), 0644))

	inline := "var b:int;"
	record := &workspace.SnapshotRecord{Units: []workspace.UnitRecord{
		{Path: "src/A.as", Kind: "script"},
		{Path: "src/B.as", Kind: "script", Text: &inline},
	}}
	data, err := workspace.EncodeSnapshot(record, false)
	require.NoError(t, err)
	snapshot := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(snapshot, data, 0644))

	cfg := &config.Config{Folders: []config.FolderConfig{{Root: dir, Snapshot: snapshot}}}
	cc, err := NewCommandContextFor(cfg, time.Minute)
	require.NoError(t, err)
	defer cc.Cleanup()

	_, text, err := cc.Open(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "var a:int;", text)

	uri, text, err := cc.Open(filepath.Join(dir, "src", "B.as"))
	require.NoError(t, err)
	assert.Equal(t, inline, text)
	assert.True(t, cc.Handler.Documents().IsOpen(filepath.Join(dir, "src", "B.as")), uri)

	_, _, err = cc.Open(filepath.Join(dir, "src", "C.as"))
	assert.Error(t, err)
}
