package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
data:
  base_url: https://example.com/data
  timeout: 10s
  cache_ttl: 2m
server:
  listen: ":9090"
  static_dir: web/dist
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Data.BaseURL != "https://example.com/data" {
		t.Errorf("Data.BaseURL = %q", cfg.Data.BaseURL)
	}
	if got := cfg.Data.GetTimeout(); got != 10*time.Second {
		t.Errorf("GetTimeout() = %v, want 10s", got)
	}
	if got := cfg.Data.GetCacheTTL(); got != 2*time.Minute {
		t.Errorf("GetCacheTTL() = %v, want 2m", got)
	}
	if got := cfg.Server.GetListen(); got != ":9090" {
		t.Errorf("GetListen() = %q", got)
	}
	if got := cfg.Server.GetStaticDir(); got != "web/dist" {
		t.Errorf("GetStaticDir() = %q", got)
	}
	if got := cfg.Log.GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %q", got)
	}
	if got := cfg.Log.GetFormat(); got != "json" {
		t.Errorf("GetFormat() = %q", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, "data:\n  base_url: https://example.com/data\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if got := cfg.Data.GetTimeout(); got != DefaultTimeout {
		t.Errorf("GetTimeout() = %v, want %v", got, DefaultTimeout)
	}
	if got := cfg.Data.GetCacheTTL(); got != DefaultCacheTTL {
		t.Errorf("GetCacheTTL() = %v, want %v", got, DefaultCacheTTL)
	}
	if got := cfg.Server.GetListen(); got != DefaultListen {
		t.Errorf("GetListen() = %q, want %q", got, DefaultListen)
	}
	if got := cfg.Server.GetStaticDir(); got != DefaultStaticDir {
		t.Errorf("GetStaticDir() = %q, want %q", got, DefaultStaticDir)
	}
	if got := cfg.Log.GetLevel(); got != "info" {
		t.Errorf("GetLevel() = %q, want info", got)
	}
	if got := cfg.Log.GetFormat(); got != "text" {
		t.Errorf("GetFormat() = %q, want text", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() expected error for missing file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "data: [broken\n")

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "empty config is valid",
			config: Config{},
		},
		{
			name: "valid durations",
			config: Config{
				Data: DataConfig{Timeout: "15s", CacheTTL: "10m"},
			},
		},
		{
			name: "broken timeout",
			config: Config{
				Data: DataConfig{Timeout: "soon"},
			},
			wantErr: ErrInvalidTimeout,
		},
		{
			name: "broken cache ttl",
			config: Config{
				Data: DataConfig{CacheTTL: "whenever"},
			},
			wantErr: ErrInvalidCacheTTL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetTimeoutIgnoresBrokenValue(t *testing.T) {
	d := DataConfig{Timeout: "soon"}
	if got := d.GetTimeout(); got != DefaultTimeout {
		t.Errorf("GetTimeout() = %v, want %v", got, DefaultTimeout)
	}
}
