package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
[defaults]
algorithm = "circular"
router = "curved"
width = 2.0
height = 1.5
seed = 7

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[server]
addr = ":9090"
`)

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if cfg.Defaults.Algorithm != "circular" || cfg.Defaults.Router != "curved" {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Defaults.Width != 2.0 || cfg.Defaults.Height != 1.5 || cfg.Defaults.Seed != 7 {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Cache.Backend != CacheBackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("got %+v, want zero config", cfg)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid toml",
			content: `[cache`,
			wantErr: "parse",
		},
		{
			name:    "unknown backend",
			content: "[cache]\nbackend = \"memcached\"\n",
			wantErr: `unknown cache backend "memcached"`,
		},
		{
			name:    "redis without addr",
			content: "[cache]\nbackend = \"redis\"\n",
			wantErr: "requires redis_addr",
		},
		{
			name:    "mongo without uri",
			content: "[cache]\nbackend = \"mongo\"\n",
			wantErr: "requires mongo_uri",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := loadConfigFile(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigPathRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	path, err := configPath()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/tmp/xdg-config", appName, "config.toml")
	if path != want {
		t.Errorf("configPath = %q, want %q", path, want)
	}
}
