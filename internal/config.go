package internal

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tbukov/mdeco/internal/api"
	"github.com/tbukov/mdeco/internal/crawl"
	"github.com/tbukov/mdeco/internal/service"
)

// MdecoConfig is the struct used to contain the various user config
// supplied by file or environment.
type MdecoConfig struct {
	Service service.Config `yaml:"service"`
	Scan    crawl.Config   `yaml:"scan"`
	Api     api.RestConfig `yaml:"api"`
}

// LoadFromFile loads a configuration file formatted in YAML in to a
// MdecoConfig struct, applying environment variable overrides on top.
func (config *MdecoConfig) LoadFromFile(configPath string) error {
	if err := cleanenv.ReadConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to load configuration from '%s': %w", configPath, err)
	}

	return nil
}

// LoadFromEnv populates the config purely from environment variables
// and tag defaults, for use when no config file is supplied.
func (config *MdecoConfig) LoadFromEnv() error {
	if err := cleanenv.ReadEnv(config); err != nil {
		return fmt.Errorf("failed to load configuration from environment: %w", err)
	}

	return nil
}
