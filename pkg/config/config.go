// Package config loads the fwbrowse TOML config file, creating it with
// defaults on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"fwbrowse/pkg/catalog"
	"fwbrowse/pkg/navigator"
)

type Config struct {
	BaseURL string `toml:"base_url"`
	Dataset string `toml:"dataset"`
	Cache   bool   `toml:"cache"`
}

func defaults() Config {
	return Config{
		BaseURL: catalog.DefaultBaseURL,
		Dataset: navigator.DefaultDataset,
		Cache:   true,
	}
}

const defaultConfigTOML = `# fwbrowse configuration

# Firmware distribution origin to browse.
base_url = "%s"

# Dataset file fetched when none is given on the command line.
dataset = "%s"

# Cache fetched dataset files under the user cache directory.
cache = true
`

// Dir returns the fwbrowse config directory, following the platform
// user config dir convention.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "fwbrowse"), nil
}

// DefaultPath returns the full path to config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config at path, writing the default file first when it
// does not exist yet. Missing keys keep their default values.
func Load(path string) (Config, error) {
	cfg := defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefault(path); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = catalog.DefaultBaseURL
	}
	if cfg.Dataset == "" {
		cfg.Dataset = navigator.DefaultDataset
	}
	return cfg, nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	d := defaults()
	content := fmt.Sprintf(defaultConfigTOML, d.BaseURL, d.Dataset)
	return os.WriteFile(path, []byte(content), 0644)
}
