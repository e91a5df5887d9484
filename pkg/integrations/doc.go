// Package integrations provides the HTTP transport for package registry APIs.
//
// # Overview
//
// The [Client] type is shared by the registry subpackages. It downloads
// documents with:
//
//   - Response caching through any [cache.Cache] backend
//   - Retry with exponential backoff for 5xx, 429 and connection failures
//   - Collapsing of concurrent requests for the same URL; a caller that
//     cancels stops waiting without failing the others
//   - A response size limit
//
// Each registry has its own subpackage:
//
//   - [npm]: the npm registry (metadata documents and tarball URLs)
//
// # Client Pattern
//
//	c, _ := cache.NewFileCache(dir)
//	client := integrations.NewClient(c, "npm:", 24*time.Hour, nil)
//	body, err := client.Download(ctx, "https://registry.npmjs.org/lodash")
//
// Errors wrap [ErrNotFound] or [ErrNetwork], so callers can
// distinguish registry failures from context cancellation with [errors.Is].
//
// [npm]: github.com/matzehuels/pkgmirror/pkg/integrations/npm
// [cache.Cache]: github.com/matzehuels/pkgmirror/pkg/cache.Cache
package integrations
