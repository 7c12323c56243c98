package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML contains the embedded minimal configuration file
//
//go:embed default_config.yaml
var DefaultConfigYAML string

// LoadDefaultConfig parses the embedded config on top of DefaultConfig
func LoadDefaultConfig() (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(DefaultConfigYAML), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
