package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"guidekit/internal/common/fsutil"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr                  string   `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel              string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	SitesFile             string   `json:"sites_file" yaml:"sites_file" toml:"sites_file"`
	DataDir               string   `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	APIBaseURL            string   `json:"api_base_url" yaml:"api_base_url" toml:"api_base_url"`
	DefaultSite           string   `json:"default_site" yaml:"default_site" toml:"default_site"`
	Locale                string   `json:"locale" yaml:"locale" toml:"locale"`
	RequestTimeoutSeconds int      `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`
	CORSEnabled           bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins           []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Defaults used when neither the file nor flags set a value.
const (
	DefaultAddr           = ":8080"
	DefaultLogLevel       = "info"
	DefaultDataDir        = "~/.guidekit" // CLI flag default
	DefaultSite           = "dozuki"
	DefaultLocale         = "en"
	DefaultRequestTimeout = 30 * time.Second
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	switch ext := fsutil.Ext(p); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return cfg, fmt.Errorf("request_timeout_seconds must be >= 0, got %d", cfg.RequestTimeoutSeconds)
	}
	return cfg, nil
}

// WithDefaults fills unspecified fields. DataDir stays empty when unset,
// which disables saved state.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DefaultSite == "" {
		c.DefaultSite = DefaultSite
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	return c
}

// RequestTimeout returns the network request timeout.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
