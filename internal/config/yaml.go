// Package config resolves the process configuration: compiled defaults
// overlaid with a YAML file, with runtime overrides handled at the
// settings layer.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// LoadYAMLConfig unmarshals filename over cfg, leaving absent keys at
// their current values.
func LoadYAMLConfig(filename string, cfg interface{}) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// InitConfig returns the defaults overlaid with configPath.
func InitConfig(configPath string) (*Config, error) {
	conf := DefaultConfig()
	if err := LoadYAMLConfig(configPath, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
