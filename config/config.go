// Package config provides YAML configuration parsing for the htinter binary.
//
// The library itself is configured with functional options; this package
// lets the standalone binary serve a directory from a configuration file.
//
// Example configuration:
//
//	address: 127.0.0.1
//	port: 5080
//	root: ./www
//	max_requests: 0
//	read_timeout: 100ms
//
//	log_level: info
//	log_format: text
//	metrics_address: 127.0.0.1:9090
//
// String values support environment variable substitution: ${VAR} or
// ${VAR:-default}.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAddress     = "127.0.0.1"
	defaultPort        = 5080
	defaultRoot        = "."
	defaultReadTimeout = 100 * time.Millisecond
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"

	// maxReadTimeout bounds read_timeout. Requests are served one at a time,
	// so a slow client blocks every other one for that long.
	maxReadTimeout = 10 * time.Second
)

// Config is the root configuration structure.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Address is the interface to listen on. Defaults to 127.0.0.1.
	Address string `yaml:"address"`

	// Port is the TCP port. Defaults to 5080.
	Port int `yaml:"port"`

	// MaxRequests stops the server after that many answered requests.
	// Zero means no limit.
	MaxRequests int `yaml:"max_requests"`

	// Root is the directory static files are served from.
	// Defaults to the working directory.
	Root string `yaml:"root"`

	// ReadTimeout bounds the wait for a request line.
	// Accepts duration strings like "100ms" or "1s". Defaults to 100ms.
	ReadTimeout Duration `yaml:"read_timeout"`

	// LogLevel is one of debug, info, warn or error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// LogFormat is text or json. Defaults to text.
	LogFormat string `yaml:"log_format"`

	// MetricsAddress is the host:port the Prometheus metrics are exposed on.
	// Empty disables the metrics listener.
	MetricsAddress string `yaml:"metrics_address"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in address, root and metrics_address.
// Defaults are applied to every unset field. An empty document is valid and
// yields the defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = defaultAddress
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Root == "" {
		c.Root = defaultRoot
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = Duration(defaultReadTimeout)
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"address", &c.Address},
		{"root", &c.Root},
		{"metrics_address", &c.MetricsAddress},
	} {
		expanded, err := expandEnvVars(*field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}

	return c.Validate()
}

// Validate checks every field. It is called by [Parse]; call it again after
// overriding fields, for example from command line flags.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.MaxRequests < 0 {
		return fmt.Errorf("max_requests cannot be negative, got %d", c.MaxRequests)
	}

	if strings.TrimSpace(c.Root) == "" {
		return errors.New("root cannot be blank")
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %q is not a directory", c.Root)
	}

	if rt := c.ReadTimeout.Duration(); rt <= 0 || rt > maxReadTimeout {
		return fmt.Errorf("read_timeout must be positive and at most %s, got %s", maxReadTimeout, rt)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}

	if c.MetricsAddress != "" {
		host, port, err := net.SplitHostPort(c.MetricsAddress)
		if err != nil {
			return fmt.Errorf("metrics_address: %w", err)
		}
		if port == strconv.Itoa(c.Port) && (host == c.Address || host == "" || host == "0.0.0.0") {
			return fmt.Errorf("metrics_address %q conflicts with the server port %d", c.MetricsAddress, c.Port)
		}
	}

	return nil
}

// SlogLevel maps log_level to a [slog.Level].
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}
