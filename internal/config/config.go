package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvBackendURL   = "AD2VIDEO_BACKEND_URL"
	EnvPollInterval = "AD2VIDEO_POLL_INTERVAL"
)

// Config represents the application configuration
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// BackendConfig describes how to reach the video backend
type BackendConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// DefaultsConfig holds default values
type DefaultsConfig struct {
	PollInterval string `yaml:"poll_interval"`
	DownloadDir  string `yaml:"download_dir"`
	CacheTTL     string `yaml:"cache_ttl"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "http://localhost:8000",
			Timeout: "2m",
		},
		Defaults: DefaultsConfig{
			PollInterval: "5s",
			DownloadDir:  ".",
			CacheTTL:     "7d",
		},
	}
}

// AppDir returns the application directory (~/.ad2video)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ad2video"
	}
	return filepath.Join(home, ".ad2video")
}

// CacheDir returns the download cache directory
func CacheDir() string {
	return filepath.Join(AppDir(), "cache")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// LogPath returns the log file used while the dashboard owns the terminal
func LogPath() string {
	return filepath.Join(AppDir(), "ad2video.log")
}

// EnsureDirs creates all required directories
func EnsureDirs() error {
	dirs := []string{AppDir(), CacheDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads config from file, returns default if not exists
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads config from default path and applies environment overrides
func LoadDefault() (*Config, error) {
	cfg, err := Load(ConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when set
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		c.Backend.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPollInterval)); v != "" {
		c.Defaults.PollInterval = v
	}
}

// Save writes config to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the values that would otherwise fail late
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend url: %q", c.Backend.URL)
	}
	if _, err := c.GetPollInterval(); err != nil {
		return err
	}
	if _, err := c.GetTimeout(); err != nil {
		return err
	}
	if _, err := c.GetCacheTTL(); err != nil {
		return err
	}
	return nil
}

// BackendURL returns the backend base URL without a trailing slash
func (c *Config) BackendURL() string {
	return strings.TrimRight(c.Backend.URL, "/")
}

// GetPollInterval returns the list refresh interval as a duration
func (c *Config) GetPollInterval() (time.Duration, error) {
	return ParseDuration(c.Defaults.PollInterval)
}

// GetTimeout returns the backend request timeout as a duration
func (c *Config) GetTimeout() (time.Duration, error) {
	return ParseDuration(c.Backend.Timeout)
}

// GetCacheTTL returns the cache TTL as a duration
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return ParseDuration(c.Defaults.CacheTTL)
}

var durationPattern = regexp.MustCompile(`^(\d+)(s|m|h|d)$`)

// ParseDuration parses duration strings like "5s", "2m", "24h", "7d"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 5s, 2m, 24h, 7d)", s)
	}

	value, _ := strconv.Atoi(matches[1])
	if value == 0 {
		return 0, fmt.Errorf("duration must be positive: %s", s)
	}

	switch matches[2] {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", matches[2])
	}
}
