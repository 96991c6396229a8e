// Package config loads the console configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file or individual keys are absent.
const (
	DefaultAPIURL          = "http://localhost:8000"
	DefaultTimeout         = 30 * time.Second
	DefaultRefreshInterval = 10 * time.Minute
	DefaultStorageDirName  = ".maas"
	DefaultFileName        = "config.yaml"
)

// Duration wraps time.Duration so YAML values like "30s" parse. Bare
// integers are taken as nanoseconds, matching time.Duration's underlying
// representation.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("invalid duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the complete console configuration.
type Config struct {
	// APIURL is the base URL of the platform API, without the /api/v1 prefix.
	APIURL string `yaml:"api_url"`

	// Timeout bounds each API request.
	Timeout Duration `yaml:"timeout"`

	// RefreshInterval is how often the access token is refreshed proactively.
	RefreshInterval Duration `yaml:"refresh_interval"`

	// StorageDir holds the persisted session. Defaults to ~/.maas.
	StorageDir string `yaml:"storage_dir"`

	Log LogConfig `yaml:"log"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		APIURL:          DefaultAPIURL,
		Timeout:         Duration(DefaultTimeout),
		RefreshInterval: Duration(DefaultRefreshInterval),
		StorageDir:      defaultStorageDir(),
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultPath returns the expected config file location (~/.maas/config.yaml).
func DefaultPath() string {
	return filepath.Join(defaultStorageDir(), DefaultFileName)
}

func defaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultStorageDirName
	}
	return filepath.Join(home, DefaultStorageDirName)
}

// Load reads the configuration from path. A missing file is not an error:
// defaults are returned. Environment variables referenced in the file are
// expanded, and MAAS_API_URL overrides api_url regardless of source.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MAAS_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("MAAS_STORAGE_DIR"); v != "" {
		cfg.StorageDir = v
	}
	if v := os.Getenv("MAAS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url must be an absolute URL, got %q", c.APIURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval must be non-negative")
	}
	if c.StorageDir == "" {
		return fmt.Errorf("storage_dir is required")
	}
	return nil
}
