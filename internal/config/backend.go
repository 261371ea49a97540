package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/catalog/internal/types"
)

const (
	// DefaultURL points at the local mock server
	DefaultURL = "http://localhost:54321"
	// DefaultTimeout bounds every backend request
	DefaultTimeout = 30 * time.Second

	EnvURL     = "CATALOG_URL"
	EnvAPIKey  = "CATALOG_API_KEY"
	EnvTimeout = "CATALOG_TIMEOUT"
)

// Backend is the PostgREST/Supabase endpoint the client talks to
type Backend struct {
	URL     string        `json:"url" yaml:"url"`
	APIKey  string        `json:"apiKey" yaml:"apiKey"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// IsJWT reports whether the API key is a JWT (anon or service key) that may
// also be sent as a bearer token
func (b Backend) IsJWT() bool {
	return strings.HasPrefix(b.APIKey, "eyJ")
}

// Validate checks the backend before use
func (b Backend) Validate() error {
	if b.URL == "" {
		return fmt.Errorf("backend url is required (set %s or a profile url)", EnvURL)
	}
	u, err := url.Parse(b.URL)
	if err != nil {
		return fmt.Errorf("invalid backend url %q: %w", b.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend url %q: scheme must be http or https", b.URL)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", b.Timeout)
	}
	return nil
}

// File is the optional config.yaml / config.json(c) in ConfigDir
type File struct {
	Backend FileBackend `json:"backend" yaml:"backend"`
	Log     struct {
		Level string `json:"level" yaml:"level"`
	} `json:"log" yaml:"log"`
}

// FileBackend is the backend section of a config file. The timeout is a
// duration string such as "10s".
type FileBackend struct {
	URL     string `json:"url" yaml:"url"`
	APIKey  string `json:"apiKey" yaml:"apiKey"`
	Timeout string `json:"timeout" yaml:"timeout"`
}

func (fb FileBackend) backend() (Backend, error) {
	b := Backend{URL: fb.URL, APIKey: fb.APIKey}
	if fb.Timeout != "" {
		d, err := time.ParseDuration(fb.Timeout)
		if err != nil {
			return b, fmt.Errorf("invalid timeout %q: %w", fb.Timeout, err)
		}
		b.Timeout = d
	}
	return b, nil
}

// FindFile returns the first config file present in ConfigDir, or ""
func FindFile() string {
	for _, name := range []string{"config.yaml", "config.yml", "config.jsonc", "config.json"} {
		path := filepath.Join(ConfigDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadFile reads a YAML or JSON config file. JSON files may contain
// comments and trailing commas.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s (use .yaml, .yml, .json, or .jsonc)", ext)
	}

	if _, err := f.Backend.backend(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &f, nil
}

// Resolve builds the effective backend. Later sources win: the config file,
// then the active profile, then the environment.
func Resolve(file *File, profile *types.Profile) Backend {
	b := Backend{URL: DefaultURL, Timeout: DefaultTimeout}

	if file != nil {
		// LoadFile already rejected a bad timeout.
		fb, _ := file.Backend.backend()
		merge(&b, fb)
	}
	if profile != nil {
		merge(&b, Backend{URL: profile.URL, APIKey: profile.APIKey})
	}
	ApplyEnv(&b)

	b.URL = strings.TrimRight(b.URL, "/")
	return b
}

// ApplyEnv overrides the backend from CATALOG_* environment variables
func ApplyEnv(b *Backend) {
	if v := os.Getenv(EnvURL); v != "" {
		b.URL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		b.APIKey = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			b.Timeout = d
		}
	}
}

func merge(dst *Backend, src Backend) {
	if src.URL != "" {
		dst.URL = src.URL
	}
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
	if src.Timeout > 0 {
		dst.Timeout = src.Timeout
	}
}
