package npm

import "net/url"

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// MetadataURL returns the registry URL of a package document:
// {host}/{pkg} for the package root, or {host}/{pkg}/{version} when version
// is non-empty. A base path on host is preserved, so proxy registries such
// as https://proxy.example.com/npm work unchanged.
func MetadataURL(host, pkg, version string) (string, error) {
	u, err := url.Parse(host)
	if err != nil {
		return "", err
	}
	if version == "" {
		return u.JoinPath(pkg).String(), nil
	}
	return u.JoinPath(pkg, version).String(), nil
}

// TarballURL returns the download URL of a published tarball:
// {host}/{pkg}/{version}/{pkg}-{version}.tgz.
func TarballURL(host, pkg, version string) (string, error) {
	u, err := url.Parse(host)
	if err != nil {
		return "", err
	}
	return u.JoinPath(pkg, version, pkg+"-"+version+".tgz").String(), nil
}
