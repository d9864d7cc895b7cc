// Package config loads Waymark's TOML configuration.
//
// The file lives at ~/.config/waymark/config.toml unless a path is given. A
// missing file is not an error: [Load] returns [Default]. Selected settings
// can be overridden with WAYMARK_* environment variables, which is how
// container deployments point the server at MongoDB and Redis.
//
//	[server]
//	addr = ":8080"
//	cors_origins = ["*"]
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[session]
//	backend = "redis"
//	ttl = "24h"
//
//	[layout]
//	box_width = 180
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/layout"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config is the complete configuration.
type Config struct {
	Server  ServerConfig   `toml:"server"`
	Store   StoreConfig    `toml:"store"`
	Session SessionConfig  `toml:"session"`
	Cache   CacheConfig    `toml:"cache"`
	Redis   RedisConfig    `toml:"redis"`
	Layout  layout.Options `toml:"layout"`
	Demo    DemoConfig     `toml:"demo"`
}

type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

type StoreConfig struct {
	Backend       string `toml:"backend"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

type SessionConfig struct {
	Backend string        `toml:"backend"`
	TTL     time.Duration `toml:"ttl"`
	Dir     string        `toml:"dir"`
}

type CacheConfig struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// URL returns the redis:// URL for the configured server.
func (r RedisConfig) URL() string {
	if r.Password != "" {
		return fmt.Sprintf("redis://:%s@%s/%d", r.Password, r.Addr, r.DB)
	}
	return fmt.Sprintf("redis://%s/%d", r.Addr, r.DB)
}

// DemoConfig tunes demo-only behavior.
type DemoConfig struct {
	// Latency is the artificial delay applied to login and profile loads.
	Latency time.Duration `toml:"latency"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8080", CORSOrigins: []string{"*"}},
		Store:   StoreConfig{Backend: BackendMemory, MongoURI: "mongodb://localhost:27017", MongoDatabase: "waymark"},
		Session: SessionConfig{Backend: BackendFile, TTL: 24 * time.Hour},
		Cache:   CacheConfig{Backend: BackendFile, TTL: 24 * time.Hour},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Layout:  layout.DefaultOptions(),
	}
}

// DefaultPath returns ~/.config/waymark/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Dir returns the configuration directory, ~/.config/waymark.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "waymark"), nil
}

// Load reads the file at path (the default path when empty) over the
// defaults, applies environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg.applyEnv(os.Getenv)
	cfg.Layout.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults without reading the environment.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	cfg.Layout.SetDefaults()
	return cfg, cfg.Validate()
}

// Validate rejects unknown backends and unusable geometry.
func (c Config) Validate() error {
	if err := oneOf("store.backend", c.Store.Backend, BackendMemory, BackendMongo); err != nil {
		return err
	}
	if err := oneOf("session.backend", c.Session.Backend, BackendFile, BackendMemory, BackendRedis); err != nil {
		return err
	}
	if err := oneOf("cache.backend", c.Cache.Backend, BackendFile, BackendMemory, BackendRedis, BackendNone); err != nil {
		return err
	}
	if c.Session.TTL <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "session.ttl must be positive")
	}
	if c.Cache.TTL < 0 || c.Demo.Latency < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "durations cannot be negative")
	}
	if c.Store.Backend == BackendMongo && c.Store.MongoURI == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
	}
	return c.Layout.Validate()
}

func oneOf(field, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return errs.New(errs.ErrCodeInvalidConfig, "unknown %s %q (allowed: %v)", field, value, allowed)
}

// applyEnv overrides settings from WAYMARK_* variables.
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set("WAYMARK_ADDR", &c.Server.Addr)
	set("WAYMARK_STORE", &c.Store.Backend)
	set("WAYMARK_MONGO_URI", &c.Store.MongoURI)
	set("WAYMARK_SESSION_STORE", &c.Session.Backend)
	set("WAYMARK_CACHE", &c.Cache.Backend)
	set("WAYMARK_REDIS_ADDR", &c.Redis.Addr)
	set("WAYMARK_REDIS_PASSWORD", &c.Redis.Password)

	if v := getenv("WAYMARK_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = n
		}
	}
	if v := getenv("WAYMARK_LATENCY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Demo.Latency = d
		}
	}
}
