package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envPlaceholder = regexp.MustCompile(`\$\{[^}]+\}`)

func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = expandEnv(data)

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads the file when a path is given and falls back to
// defaults when it is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// expandEnv resolves ${VAR} placeholders in raw config text from the
// environment. Unset variables stay as written so validation can point
// at them instead of a silently emptied field.
func expandEnv(raw []byte) []byte {
	return envPlaceholder.ReplaceAllFunc(raw, func(placeholder []byte) []byte {
		name := string(placeholder[2 : len(placeholder)-1])
		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		return placeholder
	})
}
