package javascript

import (
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/matzehuels/pkgmirror/pkg/deps"
	pkgerrors "github.com/matzehuels/pkgmirror/pkg/errors"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{".git": true, ".hg": true, ".svn": true}

// FindManifests returns every package.json below root, including those of
// installed packages under node_modules, in lexical order. Symbolic links
// are not followed.
func FindManifests(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && Supports(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidPath, err, "scan %s", root)
	}
	slices.Sort(paths)
	return paths, nil
}

// DemandOptions configures [Demand].
type DemandOptions struct {
	DepTypes    []deps.DepType       // Sections to read (default: deps.DefaultDepTypes)
	SkipInvalid bool                 // Log and skip unreadable manifests instead of failing
	Logger      func(string, ...any) // Progress/error callback (optional)
}

// Demand loads every manifest in paths, extracts the requested sections and
// merges the result. Local file references are dropped by the merge.
func Demand(paths []string, opts DemandOptions) (deps.DemandSet, error) {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger
	}

	sets := make([]deps.DemandSet, 0, len(paths))
	for _, p := range paths {
		m, err := loadManifest(p, logger)
		if err != nil {
			if opts.SkipInvalid {
				logger("skip %s: %v", p, err)
				continue
			}
			return nil, err
		}
		d := deps.Extract(m, opts.DepTypes...)
		logger("%s: %d specifiers for %d packages", p, d.Len(), len(d))
		sets = append(sets, d)
	}
	return deps.Merge(sets...), nil
}
