package npm

import (
	"encoding/json"
	"slices"
)

// Metadata is the registry's package-root document. Only the fields needed
// for version selection are decoded; per-version manifests stay raw.
type Metadata struct {
	Name     string                     `json:"name"`
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
}

// ParseMetadata decodes a package-root document. A document without a
// versions field (for example an unpublished package) parses to an empty
// version list.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// VersionList returns the published version identifiers in lexical order.
func (m *Metadata) VersionList() []string {
	out := make([]string, 0, len(m.Versions))
	for v := range m.Versions {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Tag returns the version a dist-tag points at, if the tag exists and its
// version is published.
func (m *Metadata) Tag(name string) (string, bool) {
	v, ok := m.DistTags[name]
	if !ok || v == "" {
		return "", false
	}
	if _, published := m.Versions[v]; !published {
		return "", false
	}
	return v, true
}
