package rules

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// DefaultConfig returns the built-in scoring configuration. It is used to
// seed the config store on first boot and as the rollback target in tests.
func DefaultConfig() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(seedYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse seed config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("seed config invalid: %w", err)
	}
	return cfg, nil
}

// MustDefaultConfig is DefaultConfig for composition roots where a broken
// seed is unrecoverable.
func MustDefaultConfig() Config {
	cfg, err := DefaultConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}
