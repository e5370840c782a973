package cli

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"mxls/src/config"
	"mxls/src/internal/common"
	"mxls/src/utils/configloader"
)

// InitConfig writes the default configuration to path or the default location
func InitConfig(w io.Writer, path string, overwrite bool) error {
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	if common.FileExists(path) && !overwrite {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
	}
	if err := config.GenerateDefaultConfig(path); err != nil {
		return err
	}
	common.CLILogger.Debug("Wrote %s", path)
	fmt.Fprintf(w, "Configuration written to %s\n", path)
	return nil
}

// ShowConfig prints the configuration queries would run with
func ShowConfig(w io.Writer, path string) error {
	cfg, err := configloader.LoadOrDefault(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
