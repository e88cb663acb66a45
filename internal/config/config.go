// Package config loads the YAML configuration used by the hs command.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Product       string            `yaml:"product"`
	RedirectLimit int               `yaml:"redirect_limit"`
	Headers       map[string]string `yaml:"headers"`
	RateLimit     float64           `yaml:"rate_limit"`
	ChunkSize     int               `yaml:"chunk_size"`
}

// Load reads the configuration from path.  An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.RedirectLimit == 0 {
		cfg.RedirectLimit = 5
	}
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 4096
	}
}
