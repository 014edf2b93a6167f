package utils

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/benmeehan/push-agent/internal/constants"
	"github.com/benmeehan/push-agent/pkg/file"
)

// Config represents the structure of the configuration file.
type Config struct {
	Push struct {
		URL      string `yaml:"url"`      // Push monitor URL
		Token    string `yaml:"token"`    // Value of the X-Push-Token header, omitted when empty
		Interval int    `yaml:"interval"` // Seconds between heartbeats, 0 means the default of 60
		Timeout  int    `yaml:"timeout"`  // Request timeout in seconds, 0 keeps the transport default
		Method   string `yaml:"method"`   // POST (form body) or GET (query string); unset picks POST with a token, GET without
	} `yaml:"push"`

	Services struct {
		Heartbeat struct {
			Enabled *bool `yaml:"enabled"` // Enable/disable the heartbeat pusher, enabled when unset
		} `yaml:"heartbeat"`
	} `yaml:"services"`

	Log struct {
		Level  string `yaml:"level"`  // zerolog level name, defaults to info
		Pretty bool   `yaml:"pretty"` // Human readable console output instead of JSON
	} `yaml:"log"`
}

// Environment variables that override values from the configuration file.
const (
	EnvPushURL      = "PUSH_URL"
	EnvPushToken    = "PUSH_TOKEN"
	EnvPushInterval = "PUSH_INTERVAL"
	EnvLogLevel     = "LOG_LEVEL"
)

// MaxDurationSeconds is the largest second count that still fits a time.Duration.
const MaxDurationSeconds = math.MaxInt64 / int64(time.Second)

// PushInterval returns the configured interval as a duration.
func (c *Config) PushInterval() time.Duration {
	return time.Duration(c.Push.Interval) * time.Second
}

// HeartbeatEnabled reports whether the heartbeat pusher should run.
func (c *Config) HeartbeatEnabled() bool {
	return c.Services.Heartbeat.Enabled == nil || *c.Services.Heartbeat.Enabled
}

// PushTimeout returns the configured request timeout as a duration.
func (c *Config) PushTimeout() time.Duration {
	return time.Duration(c.Push.Timeout) * time.Second
}

// LoadConfig loads the YAML configuration from the specified file, applies
// environment overrides and defaults, and validates the result.
// It returns a pointer to the Config struct and an error if loading fails.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	err := fileClient.ReadYamlFile(filename, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	config.Normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadEnvFile loads variables from a dotenv file into the process environment.
// Variables that are already set are left untouched.
func LoadEnvFile(path string, fileClient file.FileOperations) error {
	exists, err := fileClient.IsFileExists(path)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("env file %s does not exist", path)
	}

	data, err := fileClient.ReadFileRaw(path)
	if err != nil {
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	vars, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse env file %s: %w", path, err)
	}

	for key, value := range vars {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// ApplyEnv overrides configuration values with set environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvPushURL); ok {
		c.Push.URL = v
	}
	if v, ok := os.LookupEnv(EnvPushToken); ok {
		c.Push.Token = v
	}
	if v, ok := os.LookupEnv(EnvPushInterval); ok {
		interval, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvPushInterval, v, err)
		}
		c.Push.Interval = interval
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	return nil
}

// Normalize fills unset fields with their defaults.
func (c *Config) Normalize() {
	if c.Push.Interval == 0 {
		c.Push.Interval = int(constants.DefaultInterval / time.Second)
	}
	if c.Push.Method == "" {
		if c.Push.Token == "" {
			c.Push.Method = constants.TokenlessMethod
		} else {
			c.Push.Method = constants.DefaultMethod
		}
	}
	c.Push.Method = strings.ToUpper(c.Push.Method)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks configuration correctness. It never mutates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Push.URL) == "" {
		return errors.New("push url is required")
	}

	u, err := url.Parse(c.Push.URL)
	if err != nil {
		return fmt.Errorf("push url %q is malformed: %w", c.Push.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("push url %q must use http or https", c.Push.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("push url %q has no host", c.Push.URL)
	}

	if c.Push.Interval < 0 {
		return fmt.Errorf("push interval must not be negative, got %d", c.Push.Interval)
	}
	if int64(c.Push.Interval) > MaxDurationSeconds {
		return fmt.Errorf("push interval must not exceed %d seconds, got %d", MaxDurationSeconds, c.Push.Interval)
	}
	if c.Push.Timeout < 0 {
		return fmt.Errorf("push timeout must not be negative, got %d", c.Push.Timeout)
	}
	if int64(c.Push.Timeout) > MaxDurationSeconds {
		return fmt.Errorf("push timeout must not exceed %d seconds, got %d", MaxDurationSeconds, c.Push.Timeout)
	}

	switch c.Push.Method {
	case "GET", "POST":
	default:
		return fmt.Errorf("push method must be GET or POST, got %q", c.Push.Method)
	}

	return nil
}
