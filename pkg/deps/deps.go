package deps

import (
	"context"
	"time"

	"github.com/matzehuels/pkgmirror/pkg/versions"
)

const (
	DefaultConcurrency  = 16               // Default parallel metadata fetches
	DefaultFetchTimeout = 30 * time.Second // Default limit for one metadata fetch
)

// Downloader fetches raw documents from a registry.
// integrations.Client is the production implementation.
type Downloader interface {
	// Download returns the body found at url.
	Download(ctx context.Context, url string) ([]byte, error)
}

// Versioning validates exact versions and matches ranges.
// versions.Semver is the production implementation.
type Versioning interface {
	// IsValidExact reports whether s is a concrete version.
	IsValidExact(s string) bool
	// MaxSatisfying returns the highest version in published matching spec.
	MaxSatisfying(published []string, spec string) (string, bool)
}

// Options configures version resolution behavior.
type Options struct {
	Concurrency  int                  // Maximum parallel resolutions (default: 16)
	FetchTimeout time.Duration        // Limit for one metadata fetch (default: 30s)
	Deadline     time.Duration        // Limit for a whole batch (default: none)
	DepTypes     []DepType            // Manifest sections to read (default: DefaultDepTypes)
	Versions     Versioning           // Version scheme (default: versions.Semver)
	Logger       func(string, ...any) // Progress/debug callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Deadline < 0 {
		opts.Deadline = 0
	}
	if len(opts.DepTypes) == 0 {
		opts.DepTypes = DefaultDepTypes
	}
	if opts.Versions == nil {
		opts.Versions = versions.Semver{}
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}
