package cli

import (
	"fmt"
	"os"

	"github.com/shibukawa/mdomml"
)

// DefaultConfigPath is the configuration file looked up when --config is not given
const DefaultConfigPath = "mdomml.yaml"

// LoadConfig loads configuration from the specified file. A missing default file yields
// the default configuration; a missing explicit file is an error.
func LoadConfig(configPath string) (*mdomml.Config, error) {
	if configPath != DefaultConfigPath {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", mdomml.ErrConfigFileNotFound, configPath)
		}
	}

	return mdomml.LoadConfig(configPath)
}
