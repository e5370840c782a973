package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mxls/src/internal/common"
	"mxls/src/internal/constants"
)

// Config contains the server configuration
type Config struct {
	LogLevel string         `yaml:"log_level,omitempty"`
	Search   *SearchConfig  `yaml:"search,omitempty"`
	Folders  []FolderConfig `yaml:"folders"`
}

// SearchConfig tunes the symbol search engine
type SearchConfig struct {
	// Workers bounds how many compilation units are scanned at once, 0 means GOMAXPROCS
	Workers int `yaml:"workers"`
}

// FolderConfig describes one workspace folder and its semantic snapshot
type FolderConfig struct {
	Name        string   `yaml:"name,omitempty"`
	Root        string   `yaml:"root"`
	Snapshot    string   `yaml:"snapshot"`
	SourcePaths []string `yaml:"source_paths,omitempty"`
	Watch       bool     `yaml:"watch,omitempty"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Relative roots are taken from the config file's directory
	base := filepath.Dir(path)
	for i := range config.Folders {
		if root := config.Folders[i].Root; root != "" && !filepath.IsAbs(root) {
			config.Folders[i].Root = filepath.Join(base, root)
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateDefaultConfig writes the default configuration to path
func GenerateDefaultConfig(path string) error {
	return SaveConfig(GetDefaultConfig(), path)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.LogLevel != "" {
		if _, err := common.ParseLogLevel(config.LogLevel); err != nil {
			return err
		}
	}
	if config.Search != nil && config.Search.Workers < 0 {
		return fmt.Errorf("search.workers must not be negative")
	}

	roots := make(map[string]string, len(config.Folders))
	for i, folder := range config.Folders {
		if folder.Root == "" {
			return fmt.Errorf("root is required for folder %d", i)
		}
		if folder.Snapshot == "" {
			return fmt.Errorf("snapshot is required for folder %s", folder.Root)
		}
		root := filepath.Clean(folder.Root)
		if other, ok := roots[root]; ok {
			return fmt.Errorf("folder root %s is listed twice (%s)", root, other)
		}
		roots[root] = folder.Name
	}

	return nil
}

// Workers returns the configured search concurrency
func (c *Config) Workers() int {
	if c == nil || c.Search == nil {
		return 0
	}
	return c.Search.Workers
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, constants.ConfigDirName, "config.yaml")
}

// GetDefaultConfig returns a configuration serving the current directory
// from its .mxls snapshot
func GetDefaultConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		common.CLILogger.Warn("Failed to get working directory: %v", err)
		wd = "."
	}
	return &Config{
		LogLevel: "info",
		Search:   &SearchConfig{Workers: 0},
		Folders: []FolderConfig{
			{
				Name:        filepath.Base(wd),
				Root:        wd,
				Snapshot:    filepath.Join(wd, constants.ConfigDirName, constants.DefaultSnapshotName),
				SourcePaths: []string{"src/**"},
				Watch:       true,
			},
		},
	}
}
