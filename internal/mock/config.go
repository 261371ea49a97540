package mock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tables served by the mock
var Tables = []string{"projects", "areas", "content", "catalog"}

// LoadConfig loads a mock configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	// Validate config
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// validateConfig validates the mock configuration
func validateConfig(config *Config) error {
	for name, rows := range config.Tables {
		if !knownTable(name) {
			return fmt.Errorf("unknown table %q (use one of %s)", name, strings.Join(Tables, ", "))
		}
		seen := make(map[int64]bool)
		for i, row := range rows {
			id, ok := asInt(row["id"])
			if !ok {
				return fmt.Errorf("table %s row %d: numeric id is required", name, i)
			}
			if seen[id] {
				return fmt.Errorf("table %s row %d: duplicate id %d", name, i, id)
			}
			seen[id] = true
		}
	}

	for i, u := range config.Users {
		if u.Email == "" || u.Password == "" {
			return fmt.Errorf("user %d: email and password are required", i)
		}
	}

	return nil
}

// SaveConfig saves a mock configuration to a file
func SaveConfig(config *Config, path string) error {
	var data []byte
	var err error

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a small seeded catalog
func DefaultConfig() *Config {
	return &Config{
		Port:    54321,
		Host:    "localhost",
		Logging: true,
		Users:   []User{{Email: "demo@example.com", Password: "demo", Name: "Demo Editor"}},
		Tables: map[string][]Row{
			"projects": {
				{"id": 1, "title": "Solar Survey", "desc": "Measuring the inner planets", "order": 1},
				{"id": 2, "title": "Cell Atlas", "desc": "Microscopy of tissue samples", "order": 2},
			},
			"areas": {
				{"id": 1, "title": "-6", "category": "Scale", "format": "Exponential", "order": 1},
				{"id": 2, "title": "0", "category": "Scale", "format": "Exponential", "order": 2},
				{"id": 3, "title": "11", "category": "Scale", "format": "Exponential", "order": 3},
				{"id": 4, "title": "Biology", "category": "Field", "order": 1},
				{"id": 5, "title": "Astronomy", "category": "Field", "order": 2},
			},
			"content": {
				{"id": 1, "project_id": 1, "text": "# Solar Survey\n\nOrbital data for **Mercury** and **Venus**.\n"},
			},
			"catalog": {
				{"id": 1, "project_id": 1, "area_id": 3},
				{"id": 2, "project_id": 1, "area_id": 5},
				{"id": 3, "project_id": 2, "area_id": 1},
				{"id": 4, "project_id": 2, "area_id": 4},
			},
		},
	}
}

func knownTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}
