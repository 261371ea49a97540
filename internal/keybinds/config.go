package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
)

// FileName is the keybinding file looked up in the config directory
const FileName = "keybinds.jsonc"

// Config represents the user's keybinding configuration. Each context maps
// an action to a comma separated list of keys that replace its defaults.
type Config struct {
	Version  string                       `json:"version"`
	Contexts map[Context]map[Action]string `json:"contexts"`
}

// LoadConfig loads keybinding configuration from a JSON file. Comments and
// trailing commas are allowed.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", filepath.Base(path), err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SplitKeys splits a comma separated key list. A lone "," is kept as a key.
func SplitKeys(s string) []string {
	if strings.TrimSpace(s) == "," {
		return []string{","}
	}
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ApplyConfig applies user configuration to a registry.
// Configured actions lose their default keys in that context.
func ApplyConfig(registry *Registry, config *Config) error {
	if result := NewValidator().ValidateConfig(config); result.HasErrors() {
		return fmt.Errorf("invalid keybindings:\n%s", result.String())
	}

	for context, actions := range config.Contexts {
		for action, keys := range actions {
			registry.Unbind(context, action)
			registry.RegisterMultiple(context, SplitKeys(keys), action)
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", FileName, err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// Export writes every binding of the registry as a config, so users can see
// what can be customized
func Export(registry *Registry) *Config {
	config := &Config{
		Version:  "1.0",
		Contexts: make(map[Context]map[Action]string),
	}

	for context, bindings := range registry.bindings {
		byAction := make(map[Action][]string)
		for key, action := range bindings {
			byAction[action] = append(byAction[action], key)
		}
		actions := make(map[Action]string, len(byAction))
		for action, keys := range byAction {
			sort.Strings(keys)
			actions[action] = strings.Join(keys, ",")
		}
		config.Contexts[context] = actions
	}

	return config
}
