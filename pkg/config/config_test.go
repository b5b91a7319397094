package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/molcanon/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.LogLevel() != log.InfoLevel {
		t.Errorf("LogLevel() = %v, want info", cfg.LogLevel())
	}
	if !slices.Equal(cfg.Canon.Priorities, []string{"lt", "gt", "eq"}) {
		t.Errorf("default priorities = %v", cfg.Canon.Priorities)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[canon]
root = 2
priorities = ["gt", "lt", "eq"]

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "24h"

[registry]
backend = "memory"

[server]
addr = "127.0.0.1:9000"
read_timeout = "5s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", cfg.LogLevel())
	}
	if cfg.Canon.Root != 2 {
		t.Errorf("root = %d, want 2", cfg.Canon.Root)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("ttl = %v, want 24h", cfg.Cache.TTL)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("read_timeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	// untouched keys keep defaults
	if cfg.Server.WriteTimeout.Duration != 30*time.Second {
		t.Errorf("write_timeout = %v, want default 30s", cfg.Server.WriteTimeout)
	}

	opts, err := cfg.CanonOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Root != 2 || len(opts.Priorities) != 3 {
		t.Errorf("CanonOptions() = %+v", opts)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file: %v, want FILE_NOT_FOUND", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should yield defaults: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `[log`},
		{"unknown key", "[log]\ncolour = true\n"},
		{"bad level", "[log]\nlevel = \"loud\"\n"},
		{"negative root", "[canon]\nroot = -1\n"},
		{"bad priority", "[canon]\npriorities = [\"lt\", \"lt\", \"eq\"]\n"},
		{"bad cache backend", "[cache]\nbackend = \"memcached\"\n"},
		{"bad ttl", "[cache]\nttl = \"forever\"\n"},
		{"mongo without uri", "[registry]\nbackend = \"mongo\"\n"},
		{"bad registry backend", "[registry]\nbackend = \"sqlite\"\n"},
		{"zero workers", "[server]\nworkers = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "cfg"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))

	if got, want := DefaultPath(), filepath.Join(base, "cfg", "molcanon", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
	if got, want := CacheDir(), filepath.Join(base, "cache", "molcanon"); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}
	if got, want := DataDir(), filepath.Join(base, "data", "molcanon"); got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}
