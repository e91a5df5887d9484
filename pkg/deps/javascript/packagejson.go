package javascript

import (
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/pkgmirror/pkg/deps"
	pkgerrors "github.com/matzehuels/pkgmirror/pkg/errors"
)

// ManifestName is the file name of an npm manifest.
const ManifestName = "package.json"

// Supports reports whether name is a package.json file name.
func Supports(name string) bool { return strings.EqualFold(name, ManifestName) }

// LoadManifest reads and parses the package.json at path.
func LoadManifest(path string) (*deps.Manifest, error) {
	return loadManifest(path, nopLogger)
}

func loadManifest(path string, logger func(string, ...any)) (*deps.Manifest, error) {
	if !Supports(filepath.Base(path)) {
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidManifest, "not a %s file: %s", ManifestName, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidPath, err, "read manifest %s", path)
	}
	return parseManifest(path, data, logger)
}

// ParseManifest decodes package.json contents. path is recorded on the
// result and used in error messages.
//
// Only a document that is not a JSON object is an error. A dependency
// section that is not an object is treated as undeclared, and entries whose
// value is not a string are dropped.
func ParseManifest(path string, data []byte) (*deps.Manifest, error) {
	return parseManifest(path, data, nopLogger)
}

func parseManifest(path string, data []byte, logger func(string, ...any)) (*deps.Manifest, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidManifest, err, "parse %s", path)
	}

	m := &deps.Manifest{Path: path}
	_ = json.Unmarshal(doc["name"], &m.Name)
	_ = json.Unmarshal(doc["version"], &m.Version)
	for _, t := range deps.AllDepTypes {
		raw, ok := doc[string(t)]
		if !ok {
			continue
		}
		*section(m, t) = parseSection(path, t, raw, logger)
	}
	return m, nil
}

// parseSection keeps the string-valued entries of one dependency section.
// It returns nil when raw is null or not an object.
func parseSection(path string, t deps.DepType, raw json.RawMessage, logger func(string, ...any)) map[string]string {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger("%s: skip %s: not an object", path, t)
		return nil
	}
	if entries == nil {
		return nil
	}

	sec := make(map[string]string, len(entries))
	for _, name := range slices.Sorted(maps.Keys(entries)) {
		var spec string
		if err := json.Unmarshal(entries[name], &spec); err != nil || string(entries[name]) == "null" {
			logger("%s: skip %s.%s: specifier is not a string", path, t, name)
			continue
		}
		sec[name] = spec
	}
	return sec
}

func section(m *deps.Manifest, t deps.DepType) *map[string]string {
	switch t {
	case deps.DevDependencies:
		return &m.DevDependencies
	case deps.PeerDependencies:
		return &m.PeerDependencies
	case deps.OptionalDependencies:
		return &m.OptionalDependencies
	default:
		return &m.Dependencies
	}
}

func nopLogger(string, ...any) {}
