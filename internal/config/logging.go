package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/mediactl/internal/logging"
)

// LoadLoggingConfig reads the [logging] section of a TOML config file.
// It is the loader used when watching the config file for runtime level
// changes.
func LoadLoggingConfig(path string) (logging.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return logging.Config{}, err
	}

	var file struct {
		Logging struct {
			Level   string `toml:"level"`
			Format  string `toml:"format"`
			Devices string `toml:"devices"`
			API     string `toml:"api"`
			HTTP    string `toml:"http"`
		} `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return logging.Config{}, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	cfg := logging.Config{
		Level:   file.Logging.Level,
		Format:  file.Logging.Format,
		Modules: make(map[string]string),
	}
	for module, level := range map[string]string{
		"devices": file.Logging.Devices,
		"api":     file.Logging.API,
		"http":    file.Logging.HTTP,
	} {
		if level != "" {
			cfg.Modules[module] = level
		}
	}
	return cfg, nil
}
