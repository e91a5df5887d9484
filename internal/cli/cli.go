package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgmirror/pkg/buildinfo"
	"github.com/matzehuels/pkgmirror/pkg/cache"
	"github.com/matzehuels/pkgmirror/pkg/deps"
	"github.com/matzehuels/pkgmirror/pkg/integrations"
	"github.com/matzehuels/pkgmirror/pkg/integrations/npm"
	"github.com/matzehuels/pkgmirror/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pkgmirror"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	flags globalFlags
	stats *cacheStats
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	config       string
	registry     string
	concurrency  int
	fetchTimeout time.Duration
	deadline     time.Duration
	depTypes     []string
	cache        string
	noCache      bool
	refresh      bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		stats:  &cacheStats{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pkgmirror computes the npm package versions a project needs",
		Long: `pkgmirror scans package.json manifests, resolves every version range,
dist-tag and URL they declare against an npm registry, and prints the exact
package versions (and tarball URLs) a mirror has to hold.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.SetResolveHooks(&logHooks{logger: c.Logger})
			observability.SetCacheHooks(c.stats)
			observability.SetHTTPHooks(c.stats)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	f := root.PersistentFlags()
	f.StringVar(&c.flags.config, "config", "", "config file (default $XDG_CONFIG_HOME/pkgmirror/config.toml)")
	f.StringVar(&c.flags.registry, "registry", "", "registry base URL (default "+npm.DefaultRegistry+")")
	f.IntVarP(&c.flags.concurrency, "concurrency", "j", 0, "parallel metadata fetches")
	f.DurationVar(&c.flags.fetchTimeout, "fetch-timeout", 0, "timeout for one metadata fetch")
	f.DurationVar(&c.flags.deadline, "deadline", 0, "timeout for the whole resolution (0 = none)")
	f.StringSliceVarP(&c.flags.depTypes, "dep-type", "d", nil, "manifest sections to read (dependencies, devDependencies, peerDependencies, optionalDependencies)")
	f.StringVar(&c.flags.cache, "cache", "", "cache backend: file, memory, redis or none")
	f.BoolVar(&c.flags.noCache, "no-cache", false, "disable the response cache")
	f.BoolVar(&c.flags.refresh, "refresh", false, "bypass cached responses")

	root.AddCommand(c.demandCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// settings is the effective configuration of one command run.
type settings struct {
	Config
	depTypes []deps.DepType
}

// settings merges defaults, the config file, the environment and flags, in
// increasing order of precedence.
func (c *CLI) settings(cmd *cobra.Command) (settings, error) {
	path, explicit := c.flags.config, c.flags.config != ""
	if !explicit {
		if p, err := configPath(); err == nil {
			path = p
		}
	}

	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return settings{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("registry") {
		cfg.Registry = c.flags.registry
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = c.flags.concurrency
	}
	if flags.Changed("fetch-timeout") {
		cfg.FetchTimeout = duration(c.flags.fetchTimeout)
	}
	if flags.Changed("deadline") {
		cfg.Deadline = duration(c.flags.deadline)
	}
	if flags.Changed("dep-type") {
		cfg.DepTypes = c.flags.depTypes
	}
	if flags.Changed("cache") {
		cfg.Cache.Backend = c.flags.cache
	}
	if c.flags.noCache {
		cfg.Cache.Backend = backendNone
	}

	types, err := cfg.validate()
	if err != nil {
		return settings{}, err
	}
	return settings{Config: cfg, depTypes: types}, nil
}

// =============================================================================
// Resolver Factory
// =============================================================================

// newResolver wires the cache, the registry transport and the resolver for
// one command run. The returned close function releases the cache.
func (c *CLI) newResolver(ctx context.Context, s settings) (*deps.Resolver, func(), error) {
	backend, err := newCache(ctx, s.Cache)
	if err != nil {
		return nil, nil, err
	}

	client := npm.NewClient(backend, time.Duration(s.CacheTTL), integrations.WithRefresh(c.flags.refresh))
	logger := loggerFromContext(ctx)
	r := deps.NewResolver(client, deps.Options{
		Concurrency:  s.Concurrency,
		FetchTimeout: time.Duration(s.FetchTimeout),
		Deadline:     time.Duration(s.Deadline),
		DepTypes:     s.depTypes,
		Logger:       func(msg string, args ...any) { logger.Debugf(msg, args...) },
	})
	return r, func() { _ = backend.Close() }, nil
}

func newCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendMemory:
		return cache.NewMemoryCache(cfg.Size)
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   appName + ":",
		})
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			loggerFromContext(ctx).Warnf("Cache disabled: %v", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pkgmirror/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
