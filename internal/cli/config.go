package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pkgmirror/pkg/deps"
	pkgerrors "github.com/matzehuels/pkgmirror/pkg/errors"
	"github.com/matzehuels/pkgmirror/pkg/integrations/npm"
)

const (
	defaultCacheTTL  = 24 * time.Hour
	defaultCacheSize = 4096

	envRegistry  = "PKGMIRROR_REGISTRY"
	envRedisAddr = "PKGMIRROR_REDIS_ADDR"
)

// Cache backends selectable in the config file or with --cache.
const (
	backendFile   = "file"
	backendMemory = "memory"
	backendRedis  = "redis"
	backendNone   = "none"
)

// Config is the on-disk configuration (config.toml).
type Config struct {
	Registry     string      `toml:"registry"`
	Concurrency  int         `toml:"concurrency"`
	FetchTimeout duration    `toml:"fetch_timeout"`
	Deadline     duration    `toml:"deadline"`
	DepTypes     []string    `toml:"dep_types"`
	CacheTTL     duration    `toml:"cache_ttl"`
	Cache        CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the response cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	Size          int    `toml:"size"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// duration reads Go duration strings such as "30s" or "1h30m".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

func (d duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

func defaultConfig() Config {
	return Config{
		Registry:     npm.DefaultRegistry,
		Concurrency:  deps.DefaultConcurrency,
		FetchTimeout: duration(deps.DefaultFetchTimeout),
		CacheTTL:     duration(defaultCacheTTL),
		Cache: CacheConfig{
			Backend: backendFile,
			Size:    defaultCacheSize,
		},
	}
}

// loadConfig reads the config file at path over the defaults. A missing
// file is only an error when the path was given explicitly. Environment
// overrides are applied afterwards.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case errors.Is(err, fs.ErrNotExist):
			return cfg, pkgerrors.Wrap(pkgerrors.ErrCodeFileNotFound, err, "config file %s", path)
		case err != nil:
			return cfg, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfig, err, "parse config %s", path)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return cfg, pkgerrors.New(pkgerrors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
			}
		}
	}

	if v := os.Getenv(envRegistry); v != "" {
		cfg.Registry = v
	}
	if v := os.Getenv(envRedisAddr); v != "" {
		cfg.Cache.RedisAddr = v
	}
	return cfg, nil
}

// validate checks value ranges and returns the parsed dependency types.
func (c Config) validate() ([]deps.DepType, error) {
	if err := pkgerrors.ValidateURL(c.Registry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfig, err, "registry")
	}
	if c.Concurrency < 1 {
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidConfig, "concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.FetchTimeout <= 0 {
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidConfig, "fetch_timeout must be positive")
	}
	if c.Deadline < 0 {
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidConfig, "deadline cannot be negative")
	}
	switch c.Cache.Backend {
	case backendFile, backendMemory, backendNone:
	case backendRedis:
		if c.Cache.RedisAddr == "" {
			return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidConfig, "redis cache needs redis_addr or %s", envRedisAddr)
		}
	default:
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, memory, redis or none)", c.Cache.Backend)
	}

	if len(c.DepTypes) == 0 {
		return deps.DefaultDepTypes, nil
	}
	types, err := deps.ParseDepTypes(c.DepTypes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfig, err, "dep_types")
	}
	return types, nil
}

// configPath returns the default config file location using XDG standard
// (~/.config/pkgmirror/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
