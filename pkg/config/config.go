// Package config loads molcanon settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/molcanon/config.toml unless a path is
// given explicitly. Missing keys keep their [Default] values, unknown keys are
// rejected:
//
//	[log]
//	level = "debug"
//
//	[canon]
//	root = 0
//	priorities = ["lt", "gt", "eq"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[registry]
//	backend = "badger"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/molcanon/pkg/canon"
	"github.com/matzehuels/molcanon/pkg/errors"
)

const appName = "molcanon"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Registry backends.
const (
	RegistryMemory = "memory"
	RegistryBadger = "badger"
	RegistryMongo  = "mongo"
)

// Config is the complete configuration.
type Config struct {
	Log      Log      `toml:"log"`
	Canon    Canon    `toml:"canon"`
	Cache    Cache    `toml:"cache"`
	Registry Registry `toml:"registry"`
	Server   Server   `toml:"server"`
}

// Log configures the charmbracelet logger.
type Log struct {
	Level string `toml:"level"`
}

// Canon holds the default canonicalization options.
type Canon struct {
	Root       int      `toml:"root"`
	Priorities []string `toml:"priorities"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// Registry selects and configures the molecule registry.
type Registry struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	// Workers bounds concurrent canonicalizations per batch request.
	Workers int `toml:"workers"`
}

// Duration is a time.Duration written as "10s" or "168h" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: Log{Level: "info"},
		Canon: Canon{
			Root:       0,
			Priorities: slices.Clone(canon.DefaultPriorityNames),
		},
		Cache: Cache{
			Backend:   CacheFile,
			Dir:       CacheDir(),
			TTL:       Duration{7 * 24 * time.Hour},
			RedisAddr: "localhost:6379",
		},
		Registry: Registry{
			Backend:       RegistryBadger,
			Path:          filepath.Join(DataDir(), "registry"),
			MongoDatabase: appName,
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			Workers:      4,
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path reads [DefaultPath] and tolerates its absence.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return cfg, cfg.Validate()
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	if c.Canon.Root < 0 {
		return invalid("canon.root must be non-negative, got %d", c.Canon.Root)
	}
	if _, err := canon.ParsePriorities(c.Canon.Priorities); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "canon.priorities")
	}

	switch c.Cache.Backend {
	case CacheFile:
		if c.Cache.Dir == "" {
			return invalid("cache.dir is required for the file backend")
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return invalid("cache.redis_addr is required for the redis backend")
		}
	case CacheNone:
	default:
		return invalid("cache.backend %q: want file, redis or none", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return invalid("cache.ttl must not be negative")
	}

	switch c.Registry.Backend {
	case RegistryMemory:
	case RegistryBadger:
		if c.Registry.Path == "" {
			return invalid("registry.path is required for the badger backend")
		}
	case RegistryMongo:
		if c.Registry.MongoURI == "" || c.Registry.MongoDatabase == "" {
			return invalid("registry.mongo_uri and registry.mongo_database are required for the mongo backend")
		}
	default:
		return invalid("registry.backend %q: want memory, badger or mongo", c.Registry.Backend)
	}

	if c.Server.Addr == "" {
		return invalid("server.addr is required")
	}
	if c.Server.ReadTimeout.Duration <= 0 || c.Server.WriteTimeout.Duration <= 0 {
		return invalid("server timeouts must be positive")
	}
	if c.Server.Workers < 1 {
		return invalid("server.workers must be at least 1, got %d", c.Server.Workers)
	}
	return nil
}

// LogLevel returns the configured level, falling back to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// CanonOptions converts the canon section into canonicalization options.
func (c *Config) CanonOptions() (canon.Options, error) {
	prio, err := canon.ParsePriorities(c.Canon.Priorities)
	if err != nil {
		return canon.Options{}, err
	}
	return canon.Options{Root: c.Canon.Root, Priorities: prio}, nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}
