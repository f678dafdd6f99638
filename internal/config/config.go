// Package config handles configuration for synapse-chat.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Endpoint variants supported by the backend.
const (
	EndpointChat  = "chat"
	EndpointAgent = "agent"
)

// Default request paths for each endpoint variant.
const (
	PathChat  = "/api/chat"
	PathAgent = "/api/v1/agent"
)

// HomeEnv overrides the configuration directory.
const HomeEnv = "SYNAPSE_CHAT_HOME"

// Config represents the user configuration
type Config struct {
	BaseURL string `json:"base_url" env:"BASE_URL"`
	// Endpoint selects the backend contract: "chat" posts {message} to
	// /api/chat, "agent" posts {message, user_id} to /api/v1/agent.
	Endpoint string `json:"endpoint" env:"ENDPOINT"`
	// EndpointPath overrides the path implied by Endpoint.
	EndpointPath string `json:"endpoint_path,omitempty" env:"ENDPOINT_PATH"`
	// IncludeUserID overrides whether the client identifier is sent.
	// When unset it follows the endpoint variant.
	IncludeUserID *bool  `json:"include_user_id,omitempty" env:"INCLUDE_USER_ID"`
	Locale        string `json:"locale" env:"LOCALE"`
	// RequestTimeoutSeconds bounds a single exchange at the transport layer.
	// Zero means no timeout: a hung request keeps its placeholder.
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" env:"REQUEST_TIMEOUT_SECONDS"`
	TUITheme              string `json:"tui_theme,omitempty" env:"TUI_THEME"`
	CopyToClipboard       bool   `json:"copy_to_clipboard" env:"COPY_TO_CLIPBOARD"`
	LogLevel              string `json:"log_level" env:"LOG_LEVEL"`
	LogFile               string `json:"log_file,omitempty" env:"LOG_FILE"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:               "http://localhost:8000",
		Endpoint:              EndpointChat,
		Locale:                "zh-CN",
		RequestTimeoutSeconds: 0,
		TUITheme:              "sakura",
		CopyToClipboard:       false,
		LogLevel:              "info",
	}
}

// AvailableEndpoints returns the supported endpoint variants
func AvailableEndpoints() []string {
	return []string{EndpointChat, EndpointAgent}
}

// AvailableLocales returns the locales that have a message catalog
func AvailableLocales() []string {
	return []string{"zh-CN", "en"}
}

// Path returns the request path for the configured endpoint
func (c Config) Path() string {
	if c.EndpointPath != "" {
		return c.EndpointPath
	}
	if c.Endpoint == EndpointAgent {
		return PathAgent
	}
	return PathChat
}

// SendsUserID reports whether requests carry the user_id field
func (c Config) SendsUserID() bool {
	if c.IncludeUserID != nil {
		return *c.IncludeUserID
	}
	return c.Endpoint == EndpointAgent
}

// RequestTimeout returns the transport timeout, zero for none
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Validate checks the configuration for values the client cannot use
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: unsupported scheme %q", c.BaseURL, u.Scheme)
	}

	if !contains(AvailableEndpoints(), c.Endpoint) {
		return fmt.Errorf("invalid endpoint %q: must be one of %s", c.Endpoint, strings.Join(AvailableEndpoints(), ", "))
	}

	if c.EndpointPath != "" && !strings.HasPrefix(c.EndpointPath, "/") {
		return fmt.Errorf("invalid endpoint_path %q: must start with /", c.EndpointPath)
	}

	if !contains(AvailableLocales(), c.Locale) {
		return fmt.Errorf("invalid locale %q: must be one of %s", c.Locale, strings.Join(AvailableLocales(), ", "))
	}

	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("invalid request_timeout_seconds %d: must not be negative", c.RequestTimeoutSeconds)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".synapse-chat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the client identifier
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetStoragePath returns the path to the local storage file
func GetStoragePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "storage.json"), nil
}

// GetLogPath returns the log file path from config, defaulting to the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "synapse-chat.log"), nil
}

// LoadConfig loads the configuration from disk and applies environment
// overrides (SYNAPSE_CHAT_*).
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ApplyEnv overlays SYNAPSE_CHAT_* environment variables onto cfg
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SYNAPSE_CHAT_"}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
