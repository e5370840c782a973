package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mxls/src/config"
	"mxls/src/server/workspace"
)

func TestLoadOrDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("default config when nothing exists", func(t *testing.T) {
		cfg, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Len(t, cfg.Folders, 1)
	})

	t.Run("default path respected", func(t *testing.T) {
		path := filepath.Join(home, ".mxls", "config.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("log_level: warn\nfolders: []\n"), 0644))
		defer os.Remove(path)

		cfg, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Empty(t, cfg.Folders)
	})

	t.Run("server default has no folders", func(t *testing.T) {
		cfg, err := LoadForServer("")
		require.NoError(t, err)
		assert.Empty(t, cfg.Folders)
	})

	t.Run("explicit path errors surface", func(t *testing.T) {
		_, err := LoadOrDefault(filepath.Join(home, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestBuildWorkspace(t *testing.T) {
	dir := t.TempDir()
	text := "package a { public class A {} }"
	record := &workspace.SnapshotRecord{
		Definitions: []workspace.DefinitionRecord{{ID: 1, Kind: "class", Name: "A", Package: "a", Path: "src/a/A.as"}},
		Units:       []workspace.UnitRecord{{Path: "src/a/A.as", Kind: "script", Text: &text, Definitions: []int{1}}},
	}
	data, err := workspace.EncodeSnapshot(record, false)
	require.NoError(t, err)
	snapshot := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(snapshot, data, 0644))

	cfg := &config.Config{Folders: []config.FolderConfig{
		{Name: "app", Root: dir, Snapshot: snapshot, SourcePaths: []string{"src/**"}},
		{Name: "broken", Root: filepath.Join(dir, "other"), Snapshot: filepath.Join(dir, "missing.json")},
	}}
	ws, err := BuildWorkspace(cfg)
	require.NoError(t, err)

	app, ok := ws.FolderForFile(filepath.Join(dir, "src", "a", "A.as"))
	require.True(t, ok)
	assert.Equal(t, "app", app.Name)
	require.NotNil(t, app.Project())
	assert.Len(t, app.Project().CompilationUnits(), 1)

	broken, ok := ws.FolderForFile(filepath.Join(dir, "other", "B.as"))
	require.True(t, ok)
	assert.Nil(t, broken.Project())

	_, err = BuildWorkspace(&config.Config{Folders: []config.FolderConfig{{Snapshot: snapshot}}})
	assert.Error(t, err)
}
