// Package npm knows the npm registry's document shapes and path conventions.
//
// # URLs
//
// [MetadataURL] and [TarballURL] build registry URLs from a host, a package
// name and a version:
//
//	npm.MetadataURL("https://registry.npmjs.org", "express", "")
//	// https://registry.npmjs.org/express
//	npm.TarballURL("https://registry.npmjs.org", "express", "4.18.2")
//	// https://registry.npmjs.org/express/4.18.2/express-4.18.2.tgz
//
// # Metadata
//
// [ParseMetadata] decodes the package-root document. [Metadata.VersionList]
// lists every published version and [Metadata.Tag] follows dist-tags such
// as "latest" or "next".
//
// # Transport
//
// [NewClient] returns an [integrations.Client] that asks for the abbreviated
// install document and caches it under the "npm:" namespace.
//
// [integrations.Client]: github.com/matzehuels/pkgmirror/pkg/integrations.Client
package npm
