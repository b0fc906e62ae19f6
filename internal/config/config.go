// Package config loads catalogtree settings from a TOML file.
//
// The file is found, in order, at the --config flag, $CATALOGTREE_CONFIG,
// or $XDG_CONFIG_HOME/catalogtree/config.toml (~/.config when unset). A
// missing default file is not an error; every setting has a default.
//
//	[tree]
//	id_field = "nodeUri"
//	parent_field = "parentUri"
//	duplicates = "last"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "12h"
//
//	[store]
//	backend = "sqlite"
//	path = "/var/lib/catalogtree/nodes.db"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/catalogtree/pkg/errors"
	"github.com/matzehuels/catalogtree/pkg/store"
	"github.com/matzehuels/catalogtree/pkg/tree"
)

// AppName names the config, cache and data directories.
const AppName = "catalogtree"

// EnvConfig overrides the default config file location.
const EnvConfig = "CATALOGTREE_CONFIG"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full configuration file.
type Config struct {
	Tree   tree.Options `toml:"tree"`
	Cache  Cache        `toml:"cache"`
	Store  Store        `toml:"store"`
	Server Server       `toml:"server"`
}

// Cache selects and configures the artifact cache.
type Cache struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

// Store selects and configures the glossary node store.
type Store struct {
	Backend    string `toml:"backend"`
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Path       string `toml:"path"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default values.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultRedisAddr    = "localhost:6379"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills every empty field.
func (c *Config) SetDefaults() {
	c.Tree = c.Tree.WithDefaults()

	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = CacheDir()
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = DefaultRedisAddr
	}

	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendSQLite
	}
	if c.Store.Backend == store.BackendSQLite && c.Store.Path == "" {
		c.Store.Path = filepath.Join(DataDir(), "nodes.db")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
}

// Validate checks enumerated values and field names.
func (c *Config) Validate() error {
	if err := errors.ValidateFieldName(c.Tree.IDField); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "[tree] id_field")
	}
	if err := errors.ValidateFieldName(c.Tree.ParentField); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "[tree] parent_field")
	}
	if !tree.ValidDuplicatePolicies[c.Tree.Duplicates] {
		return errors.New(errors.ErrCodeInvalidInput, "[tree] duplicates: %q (must be one of: last, first)", c.Tree.Duplicates)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "[cache] backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case store.BackendSQLite, store.BackendMemory:
	case store.BackendMongo:
		if c.Store.URI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "[store] uri is required for the mongo backend")
		}
		if err := errors.ValidateURL(c.Store.URI, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "[store] uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "[store] backend: %q (must be one of: sqlite, mongo, memory)", c.Store.Backend)
	}
	return nil
}

// Load reads the file at path, or the default location when path is empty,
// and returns a validated configuration with defaults applied.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfig); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultPath()
		}
	}

	c := &Config{}
	if _, err := toml.DecodeFile(path, c); err != nil {
		if os.IsNotExist(err) && !explicit {
			c = &Config{}
		} else if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		} else {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/catalogtree/config.toml.
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), AppName, "config.toml")
}

// CacheDir returns the cache directory using XDG standard (~/.cache/catalogtree/).
func CacheDir() string {
	return filepath.Join(xdgDir("XDG_CACHE_HOME", ".cache"), AppName)
}

// DataDir returns the data directory (~/.local/share/catalogtree/).
func DataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), AppName)
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), fallback)
	}
	return filepath.Join(home, fallback)
}
