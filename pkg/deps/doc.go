// Package deps computes the concrete package versions a tree of npm
// manifests requires.
//
// # Overview
//
// Mirroring an npm dependency graph starts from the loose specifiers
// written in package.json files ("^1.2.0", "latest", git URLs, local
// paths) and ends with the exact (name, version) pairs to download. This
// package implements the steps in between:
//
//  1. [Extract] reads the requested sections of one [Manifest] into a
//     [DemandSet]
//  2. [Merge] combines the per-manifest sets and drops local file references
//  3. [Resolver.ResolveAll] resolves every specifier concurrently into a
//     [ResolvedSet]
//  4. [Targets] turns the ResolvedSet into tarball download targets
//
// # Specifiers
//
// [Classify] sorts a specifier into exactly one [Kind]:
//
//   - KindExact: "1.2.3", returned as-is
//   - KindFile: "file:../lib", "./vendor/x", never fetched
//   - KindWeb: "https://example.com/x.tgz", passed through as the version
//   - KindGit: "git+ssh://...", "github:owner/repo", "owner/repo#v1"
//   - KindAlias: "npm:other@^1.0.0", resolved against "other" and
//     recorded as "npm:other@1.4.2"
//   - KindRange: ranges and dist-tags, resolved against registry metadata
//
// # Resolving
//
//	client := npm.NewClient(c, 24*time.Hour)
//	r := deps.NewResolver(client, deps.Options{Concurrency: 8})
//	resolved, err := r.ResolveAll(ctx, npm.DefaultRegistry, demand)
//
// Only ranges and dist-tags cost a registry request. A specifier no
// published version satisfies is not an error: it produces no version, is
// logged through Options.Logger and reported to
// observability.ResolveHooks.OnUnsatisfiable. Transport failures abort the
// whole batch with the first error.
//
// # Options
//
// [Options] controls resolution behavior:
//
//   - Concurrency: Maximum parallel resolutions (default 16)
//   - FetchTimeout: Limit for one metadata request (default 30s)
//   - Deadline: Limit for a whole batch (default none)
//   - DepTypes: Manifest sections to read (default dependencies,
//     devDependencies, peerDependencies)
//   - Versions: Version scheme (default [versions.Semver])
//   - Logger: Progress callback
//
// [versions.Semver]: github.com/matzehuels/pkgmirror/pkg/versions.Semver
package deps
