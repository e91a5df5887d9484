package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgmirror/pkg/deps"
	pkgerrors "github.com/matzehuels/pkgmirror/pkg/errors"
	"github.com/matzehuels/pkgmirror/pkg/integrations"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		in     inputFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "resolve [path...]",
		Short: "Resolve declared specifiers to concrete versions",
		Long: `Resolve every version range, dist-tag and URL declared by the scanned
manifests against the registry and print the concrete versions per package.

Packages whose specifiers match no published version are kept with an
empty version list and reported as warnings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := c.runResolve(cmd, args, &in)
			if err != nil {
				return err
			}
			data, err := formatPairs(resolved, resolved.Pairs(), format)
			if err != nil {
				return err
			}
			return writeOutput(cmd, in.output, data)
		},
	}

	in.register(cmd, true)
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or text")
	return cmd
}

// runResolve collects demand and resolves it, reporting progress on the
// status output.
func (c *CLI) runResolve(cmd *cobra.Command, args []string, in *inputFlags) (deps.ResolvedSet, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, err := c.settings(cmd)
	if err != nil {
		return nil, err
	}
	demand, err := c.demand(cmd, args, in, s)
	if err != nil {
		return nil, err
	}

	resolver, closeCache, err := c.newResolver(ctx, s)
	if err != nil {
		return nil, err
	}
	defer closeCache()

	logger.Debug("Resolving", "registry", s.Registry, "packages", len(demand), "specifiers", demand.Len())
	hits, misses, requests := c.stats.hits.Load(), c.stats.misses.Load(), c.stats.requests.Load()
	prog := newProgress(logger)

	// The spinner only runs above debug level.
	spinner := newSpinner(statusOut, func() string {
		return "Resolving " + plural(len(demand), "package") + " · " +
			plural(int(c.stats.requests.Load()-requests), "request")
	})
	if logger.GetLevel() > LogDebug {
		spinner.Start(ctx)
	}

	resolved, err := resolver.ResolveAll(ctx, s.Registry, demand)
	spinner.Stop()
	if err != nil {
		err = classifyTransport(err, s.Registry)
		if hint := transportHint(err); hint != "" {
			printInfo("%s", hint)
		}
		return nil, err
	}

	prog.done("Resolved %s", plural(len(resolved), "package"))
	printStats(runStats{
		packages: len(resolved),
		versions: resolved.Len(),
		hits:     int(c.stats.hits.Load() - hits),
		misses:   int(c.stats.misses.Load() - misses),
	})
	if empty := unresolved(resolved); len(empty) > 0 {
		printWarning("%s without a matching version", plural(len(empty), "package"))
		for _, name := range empty {
			printDetail("%s", name)
		}
	}
	return resolved, nil
}

// classifyTransport gives uncoded registry failures an error code.
func classifyTransport(err error, registry string) error {
	switch {
	case pkgerrors.GetCode(err) != "" || !integrations.IsTransportError(err):
		return err
	case errors.Is(err, integrations.ErrNotFound):
		return pkgerrors.Wrap(pkgerrors.ErrCodePackageNotFound, err, "registry %s", registry)
	default:
		return pkgerrors.Wrap(pkgerrors.ErrCodeNetwork, err, "registry %s", registry)
	}
}

// transportHint suggests a next step after a failed registry exchange.
func transportHint(err error) string {
	if !pkgerrors.IsTransport(err) {
		return ""
	}
	switch pkgerrors.GetCode(err) {
	case pkgerrors.ErrCodeTimeout:
		return "Slow registry: raise --fetch-timeout or --deadline"
	case pkgerrors.ErrCodeMalformedMetadata:
		return "Cached or served metadata is corrupt: retry with --refresh"
	default:
		return "Check --registry and network access, then retry"
	}
}

// unresolved returns the names that resolved to no version, sorted.
func unresolved(r deps.ResolvedSet) []string {
	var names []string
	for _, name := range r.Names() {
		if r[name].Len() == 0 {
			names = append(names, name)
		}
	}
	return names
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
