package deps

import (
	pkgerrors "github.com/matzehuels/pkgmirror/pkg/errors"
	"github.com/matzehuels/pkgmirror/pkg/integrations/npm"
)

// Target is one artifact the mirror needs.
type Target struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Kind    Kind   `json:"-"`
	Source  string `json:"source"`
	URL     string `json:"url,omitempty"`
}

// Targets expands a ResolvedSet into download targets sorted by name and
// version. Registry versions get their tarball URL on host; an alias gets
// the tarball of the package it names; web URLs are their own download
// URL; git references carry no URL and must be cloned.
//
// Registry package names are validated before they become URL paths.
func Targets(host string, resolved ResolvedSet) ([]Target, error) {
	out := make([]Target, 0, resolved.Len())
	for _, p := range resolved.Pairs() {
		t := Target{Name: p.Name, Version: p.Value}
		switch {
		case IsGitURL(p.Value):
			t.Kind = KindGit
		case IsWebURL(p.Value):
			t.Kind = KindWeb
			t.URL = p.Value
		case IsAlias(p.Value):
			name, version, _ := ParseAlias(p.Value)
			u, err := tarballURL(host, name, version)
			if err != nil {
				return nil, err
			}
			t.Kind = KindAlias
			t.URL = u
		default:
			u, err := tarballURL(host, p.Name, p.Value)
			if err != nil {
				return nil, err
			}
			t.Kind = KindExact
			t.URL = u
		}
		t.Source = t.Kind.String()
		out = append(out, t)
	}
	return out, nil
}

func tarballURL(host, name, version string) (string, error) {
	if err := pkgerrors.ValidateNpmPackageName(name); err != nil {
		return "", err
	}
	if version == "" {
		return "", pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "%s: no version to download", name)
	}
	u, err := npm.TarballURL(host, name, version)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "registry host %q", host)
	}
	return u, nil
}
