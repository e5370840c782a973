package configloader

import (
	"os"

	"mxls/src/config"
	"mxls/src/internal/common"
	"mxls/src/server/workspace"
)

// LoadOrDefault loads the explicit config, else the one at the default path,
// else the default configuration
func LoadOrDefault(configPath string) (*config.Config, error) {
	return load(configPath, config.GetDefaultConfig)
}

// LoadForServer is LoadOrDefault without default folders, leaving the
// editor's workspace folders to be served
func LoadForServer(configPath string) (*config.Config, error) {
	return load(configPath, func() *config.Config {
		return &config.Config{LogLevel: "info"}
	})
}

func load(configPath string, fallback func() *config.Config) (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}

	defaultPath := config.GetDefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		loaded, err := config.LoadConfig(defaultPath)
		if err == nil {
			return loaded, nil
		}
		common.CLILogger.Warn("Ignoring %s: %v", defaultPath, err)
	}

	common.CLILogger.Debug("Using default config")
	return fallback(), nil
}

// ApplyLogLevel sets the global log level from the config unless verbose
// output was requested
func ApplyLogLevel(cfg *config.Config, verbose bool) {
	if verbose {
		common.SetGlobalLevel(common.LogDebug)
		return
	}
	if cfg == nil || cfg.LogLevel == "" {
		return
	}
	if level, err := common.ParseLogLevel(cfg.LogLevel); err == nil {
		common.SetGlobalLevel(level)
	}
}

// BuildWorkspace registers the configured folders and loads their
// snapshots. A folder whose snapshot fails to load is kept without a project.
func BuildWorkspace(cfg *config.Config) (*workspace.Manager, error) {
	ws := workspace.NewManager()
	for _, folder := range cfg.Folders {
		if _, err := ws.AddFolder(workspace.FolderOptions{
			Name:        folder.Name,
			Root:        folder.Root,
			Snapshot:    folder.Snapshot,
			SourcePaths: folder.SourcePaths,
			Watch:       folder.Watch,
		}); err != nil {
			return nil, err
		}
	}
	ws.ReloadAll()
	return ws, nil
}
