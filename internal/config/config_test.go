package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL 'http://localhost:8000', got '%s'", cfg.BaseURL)
	}

	if cfg.Endpoint != EndpointChat {
		t.Errorf("Expected default endpoint %q, got %q", EndpointChat, cfg.Endpoint)
	}

	if cfg.RequestTimeoutSeconds != 0 {
		t.Errorf("Expected no request timeout by default, got %d", cfg.RequestTimeoutSeconds)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_PathAndUserID(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantPath   string
		wantUserID bool
	}{
		{
			name:       "chat variant",
			cfg:        Config{Endpoint: EndpointChat},
			wantPath:   PathChat,
			wantUserID: false,
		},
		{
			name:       "agent variant",
			cfg:        Config{Endpoint: EndpointAgent},
			wantPath:   PathAgent,
			wantUserID: true,
		},
		{
			name:       "agent without user id",
			cfg:        Config{Endpoint: EndpointAgent, IncludeUserID: boolPtr(false)},
			wantPath:   PathAgent,
			wantUserID: false,
		},
		{
			name:       "chat with user id and custom path",
			cfg:        Config{Endpoint: EndpointChat, EndpointPath: "/chat", IncludeUserID: boolPtr(true)},
			wantPath:   "/chat",
			wantUserID: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Path(); got != tt.wantPath {
				t.Errorf("Path() = %q, want %q", got, tt.wantPath)
			}
			if got := tt.cfg.SendsUserID(); got != tt.wantUserID {
				t.Errorf("SendsUserID() = %v, want %v", got, tt.wantUserID)
			}
		})
	}
}

func TestConfig_RequestTimeout(t *testing.T) {
	cfg := Config{RequestTimeoutSeconds: 30}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout() = %v", cfg.RequestTimeout())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"agent", func(c *Config) { c.Endpoint = EndpointAgent }, false},
		{"https", func(c *Config) { c.BaseURL = "https://synapse.example.com" }, false},
		{"relative base url", func(c *Config) { c.BaseURL = "/api" }, true},
		{"ftp base url", func(c *Config) { c.BaseURL = "ftp://example.com" }, true},
		{"unknown endpoint", func(c *Config) { c.Endpoint = "v2" }, true},
		{"path without slash", func(c *Config) { c.EndpointPath = "api/chat" }, true},
		{"unknown locale", func(c *Config) { c.Locale = "fr" }, true},
		{"negative timeout", func(c *Config) { c.RequestTimeoutSeconds = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetConfigDir_HomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if got != dir {
		t.Errorf("GetConfigDir() = %s, want %s", got, dir)
	}

	storage, err := GetStoragePath()
	if err != nil {
		t.Fatalf("GetStoragePath() returned error: %v", err)
	}
	if storage != filepath.Join(dir, "storage.json") {
		t.Errorf("GetStoragePath() = %s", storage)
	}
}

func TestGetConfigDir_Default(t *testing.T) {
	t.Setenv(HomeEnv, "")

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("GetConfigDir() returned relative path: %s", dir)
	}
	if filepath.Base(dir) != ".synapse-chat" {
		t.Errorf("GetConfigDir() = %s, want a .synapse-chat directory", dir)
	}
}

func TestGetLogPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	path, err := GetLogPath(DefaultConfig())
	if err != nil {
		t.Fatalf("GetLogPath() returned error: %v", err)
	}
	if path != filepath.Join(dir, "synapse-chat.log") {
		t.Errorf("GetLogPath() = %s", path)
	}

	cfg := DefaultConfig()
	cfg.LogFile = "/var/log/synapse.log"
	path, _ = GetLogPath(cfg)
	if path != "/var/log/synapse.log" {
		t.Errorf("GetLogPath() = %s, want configured file", path)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	t.Setenv(HomeEnv, dir)

	cfg := DefaultConfig()
	cfg.Endpoint = EndpointAgent
	cfg.BaseURL = "http://localhost:2333"
	cfg.Locale = "en"
	cfg.IncludeUserID = boolPtr(true)

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if loaded.Endpoint != EndpointAgent || loaded.BaseURL != "http://localhost:2333" || loaded.Locale != "en" {
		t.Errorf("loaded config mismatch: %+v", loaded)
	}
	if loaded.IncludeUserID == nil || !*loaded.IncludeUserID {
		t.Error("IncludeUserID should round-trip as true")
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	data, _ := json.Marshal(map[string]any{"endpoint": "agent"})
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Endpoint != EndpointAgent {
		t.Errorf("Endpoint = %q, want agent", cfg.Endpoint)
	}
	if cfg.BaseURL != DefaultConfig().BaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg != DefaultConfig() {
		t.Error("parse error should return defaults")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	t.Setenv("SYNAPSE_CHAT_BASE_URL", "http://backend:9000")
	t.Setenv("SYNAPSE_CHAT_ENDPOINT", "agent")
	t.Setenv("SYNAPSE_CHAT_INCLUDE_USER_ID", "false")
	t.Setenv("SYNAPSE_CHAT_REQUEST_TIMEOUT_SECONDS", "15")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if cfg.BaseURL != "http://backend:9000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Endpoint != EndpointAgent {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.SendsUserID() {
		t.Error("env override should disable user_id")
	}
	if cfg.RequestTimeoutSeconds != 15 {
		t.Errorf("RequestTimeoutSeconds = %d", cfg.RequestTimeoutSeconds)
	}
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	t.Setenv("SYNAPSE_CHAT_REQUEST_TIMEOUT_SECONDS", "soon")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for non-numeric timeout")
	}
}
