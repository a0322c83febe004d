package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig models the optional YAML configuration file.
type FileConfig struct {
	API struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout,omitempty"`
	} `yaml:"api"`
	Database struct {
		Path string `yaml:"path,omitempty"`
	} `yaml:"database"`
	LLM struct {
		Provider string `yaml:"provider,omitempty"`
	} `yaml:"llm"`
	LogPath string `yaml:"log_path,omitempty"`
}

// LoadFile reads and parses a YAML config file. A missing file yields an
// empty FileConfig.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if fc.API.Timeout != "" {
		if _, err := time.ParseDuration(fc.API.Timeout); err != nil {
			return nil, fmt.Errorf("config: invalid api.timeout %q: %w", fc.API.Timeout, err)
		}
	}
	return &fc, nil
}

// Apply copies every non-empty file setting onto cfg.
func (fc *FileConfig) Apply(cfg *Config) {
	if fc.API.URL != "" {
		cfg.APIURL = fc.API.URL
	}
	if fc.API.Timeout != "" {
		if d, err := time.ParseDuration(fc.API.Timeout); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if fc.Database.Path != "" {
		cfg.DatabasePath = fc.Database.Path
	}
	if fc.LLM.Provider != "" {
		cfg.LLMProvider = fc.LLM.Provider
	}
	if fc.LogPath != "" {
		cfg.LogPath = fc.LogPath
	}
}
