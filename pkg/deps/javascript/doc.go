// Package javascript reads npm package.json manifests from disk.
//
// # Discovery
//
// [FindManifests] walks a project tree and returns every package.json,
// including the manifests of packages installed under node_modules, so a
// single scan of an installed project covers its transitive dependencies.
// VCS metadata directories are skipped.
//
// # Loading
//
// [LoadManifest] parses one file into a [deps.Manifest]. [Demand] loads a
// list of manifests and returns their merged [deps.DemandSet]:
//
//	paths, _ := javascript.FindManifests(".")
//	demand, err := javascript.Demand(paths, javascript.DemandOptions{
//	    DepTypes:    []deps.DepType{deps.Dependencies},
//	    SkipInvalid: true,
//	})
//
// [deps.Manifest]: github.com/matzehuels/pkgmirror/pkg/deps.Manifest
// [deps.DemandSet]: github.com/matzehuels/pkgmirror/pkg/deps.DemandSet
package javascript
