package deps

import (
	"fmt"
	"slices"
	"strings"
)

// DepType names a dependency section of a package.json manifest.
type DepType string

const (
	Dependencies         DepType = "dependencies"
	DevDependencies      DepType = "devDependencies"
	PeerDependencies     DepType = "peerDependencies"
	OptionalDependencies DepType = "optionalDependencies"
)

// DefaultDepTypes are the sections read when none are requested.
var DefaultDepTypes = []DepType{Dependencies, DevDependencies, PeerDependencies}

// AllDepTypes lists every section a manifest can declare.
var AllDepTypes = []DepType{Dependencies, DevDependencies, PeerDependencies, OptionalDependencies}

// ParseDepType maps a section name to its DepType. Matching ignores case and
// accepts the short forms "prod", "dev", "peer" and "optional".
func ParseDepType(s string) (DepType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dependencies", "prod":
		return Dependencies, nil
	case "devdependencies", "dev":
		return DevDependencies, nil
	case "peerdependencies", "peer":
		return PeerDependencies, nil
	case "optionaldependencies", "optional":
		return OptionalDependencies, nil
	}
	return "", fmt.Errorf("unknown dependency type %q (want one of %s)", s, strings.Join(depTypeNames(), ", "))
}

// ParseDepTypes parses a list of section names, dropping duplicates.
func ParseDepTypes(names []string) ([]DepType, error) {
	out := make([]DepType, 0, len(names))
	for _, n := range names {
		t, err := ParseDepType(n)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func depTypeNames() []string {
	names := make([]string, len(AllDepTypes))
	for i, t := range AllDepTypes {
		names[i] = string(t)
	}
	return names
}

// Manifest is the dependency-relevant part of a package.json document.
type Manifest struct {
	Path                 string            `json:"-"`
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// Section returns the dependency map for t and whether the manifest
// declares that section. A declared but empty section is present.
func (m *Manifest) Section(t DepType) (map[string]string, bool) {
	if m == nil {
		return nil, false
	}
	var sec map[string]string
	switch t {
	case Dependencies:
		sec = m.Dependencies
	case DevDependencies:
		sec = m.DevDependencies
	case PeerDependencies:
		sec = m.PeerDependencies
	case OptionalDependencies:
		sec = m.OptionalDependencies
	}
	return sec, sec != nil
}
