// ABOUTME: Configuration loading and parsing for the sigil console
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete console configuration.
type Config struct {
	Gateway GatewayConfig `yaml:"gateway"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
	State   StateConfig   `yaml:"state"`
}

// GatewayConfig holds the gateway endpoint configuration.
type GatewayConfig struct {
	URL          string        `yaml:"url"`
	Timeout      time.Duration `yaml:"-"`
	ExpiryLeeway time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	TimeoutRaw      string `yaml:"timeout"`
	ExpiryLeewayRaw string `yaml:"expiry_leeway"`
}

// CacheConfig holds the GET response cache configuration.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	MaxEntries int           `yaml:"max_entries"`
	TTL        time.Duration `yaml:"-"`

	TTLRaw string `yaml:"ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StateConfig overrides where console state lives.
type StateConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when no file exists. The
// gateway URL comes from SIGIL_GATEWAY_URL when set.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			URL:          os.Getenv("SIGIL_GATEWAY_URL"),
			Timeout:      30 * time.Second,
			ExpiryLeeway: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 256,
			TTL:        30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a configuration file from the given path. Environment
// variables in the format ${VAR_NAME} are expanded, duration strings
// are parsed, and SIGIL_GATEWAY_URL overrides the file's gateway URL.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if envURL := os.Getenv("SIGIL_GATEWAY_URL"); envURL != "" {
		cfg.Gateway.URL = envURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads the config file at path, falling back to
// defaults when the file does not exist. Any other failure is an
// error: a present but broken config should never be silently skipped.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validating config: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to the empty
// string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks configuration fields. The gateway URL may be empty
// at load time so commands that never dial still work; commands that
// do dial check for it themselves.
func (c *Config) Validate() error {
	if c.Gateway.URL != "" {
		u, err := url.Parse(c.Gateway.URL)
		if err != nil {
			return fmt.Errorf("gateway.url is not a valid URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("gateway.url must use http or https scheme")
		}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}

	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration
// values, keeping defaults where no raw value was given.
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Gateway.TimeoutRaw != "" {
		cfg.Gateway.Timeout, err = time.ParseDuration(cfg.Gateway.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing gateway.timeout %q: %w", cfg.Gateway.TimeoutRaw, err)
		}
	}

	if cfg.Gateway.ExpiryLeewayRaw != "" {
		cfg.Gateway.ExpiryLeeway, err = time.ParseDuration(cfg.Gateway.ExpiryLeewayRaw)
		if err != nil {
			return fmt.Errorf("parsing gateway.expiry_leeway %q: %w", cfg.Gateway.ExpiryLeewayRaw, err)
		}
	}

	if cfg.Cache.TTLRaw != "" {
		cfg.Cache.TTL, err = time.ParseDuration(cfg.Cache.TTLRaw)
		if err != nil {
			return fmt.Errorf("parsing cache.ttl %q: %w", cfg.Cache.TTLRaw, err)
		}
	}

	return nil
}
