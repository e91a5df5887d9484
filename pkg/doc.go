// Package pkg provides the core libraries for pkgmirror.
//
// # Overview
//
// pkgmirror answers one question for an npm mirror: which concrete package
// versions does a set of package.json manifests require? The pkg directory
// is organized into these areas:
//
//  1. [deps] - Demand extraction, specifier classification and resolution
//  2. [versions] - Semantic version range matching
//  3. [integrations] - Registry transport and the npm document format
//  4. [cache] - Response caching backends (file, memory, Redis)
//  5. [errors], [httputil], [observability] - Shared infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	package.json files
//	         ↓
//	    [deps/javascript] package (load manifests)
//	         ↓
//	    [deps] Extract + Merge (DemandSet: name → specifiers)
//	         ↓
//	    [deps] Resolver.ResolveAll (ResolvedSet: name → versions)
//	         ↓
//	    [deps] Targets (tarball URLs and git references)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "time"
//
//	    "github.com/matzehuels/pkgmirror/pkg/cache"
//	    "github.com/matzehuels/pkgmirror/pkg/deps"
//	    "github.com/matzehuels/pkgmirror/pkg/deps/javascript"
//	    "github.com/matzehuels/pkgmirror/pkg/integrations/npm"
//	)
//
//	paths, _ := javascript.FindManifests(".")
//	demand, _ := javascript.Demand(paths, javascript.DemandOptions{})
//
//	c, _ := cache.NewMemoryCache(1024)
//	r := deps.NewResolver(npm.NewClient(c, time.Hour), deps.Options{})
//	resolved, err := r.ResolveAll(context.Background(), npm.DefaultRegistry, demand)
//
// Resolution never recurses into the dependencies of resolved versions;
// callers that want the full graph feed the resolved versions' manifests
// back in.
//
// [deps]: https://pkg.go.dev/github.com/matzehuels/pkgmirror/pkg/deps
// [versions]: https://pkg.go.dev/github.com/matzehuels/pkgmirror/pkg/versions
// [integrations]: https://pkg.go.dev/github.com/matzehuels/pkgmirror/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/matzehuels/pkgmirror/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/pkgmirror/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/pkgmirror/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/pkgmirror/pkg/observability
//
// [deps/javascript]: https://pkg.go.dev/github.com/matzehuels/pkgmirror/pkg/deps/javascript
package pkg
