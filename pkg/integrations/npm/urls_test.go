package npm

import "testing"

func TestMetadataURL(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		pkg     string
		version string
		want    string
	}{
		{"package root", "https://registry.npmjs.org", "lodash", "", "https://registry.npmjs.org/lodash"},
		{"with version", "https://registry.npmjs.org", "lodash", "4.17.21", "https://registry.npmjs.org/lodash/4.17.21"},
		{"trailing slash", "https://registry.npmjs.org/", "lodash", "", "https://registry.npmjs.org/lodash"},
		{"base path kept", "https://proxy.example.com/npm", "react", "", "https://proxy.example.com/npm/react"},
		{"scoped", "https://registry.npmjs.org", "@types/node", "", "https://registry.npmjs.org/@types/node"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MetadataURL(tt.host, tt.pkg, tt.version)
			if err != nil {
				t.Fatalf("MetadataURL() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("MetadataURL(%q, %q, %q) = %q, want %q", tt.host, tt.pkg, tt.version, got, tt.want)
			}
		})
	}
}

func TestTarballURL(t *testing.T) {
	host := "https://registry.npmjs.org"
	got, err := TarballURL(host, "foo", "1.0.0")
	if err != nil {
		t.Fatalf("TarballURL() error: %v", err)
	}
	if want := host + "/foo/1.0.0/foo-1.0.0.tgz"; got != want {
		t.Errorf("TarballURL() = %q, want %q", got, want)
	}

	got, err = TarballURL("http://localhost:4873/mirror/", "left-pad", "1.3.0")
	if err != nil {
		t.Fatalf("TarballURL() error: %v", err)
	}
	if want := "http://localhost:4873/mirror/left-pad/1.3.0/left-pad-1.3.0.tgz"; got != want {
		t.Errorf("TarballURL() = %q, want %q", got, want)
	}
}

func TestURLBuildersRejectMalformedHost(t *testing.T) {
	if _, err := MetadataURL("http://[::1", "lodash", ""); err == nil {
		t.Error("MetadataURL() should fail for a malformed host")
	}
	if _, err := TarballURL("http://[::1", "lodash", "1.0.0"); err == nil {
		t.Error("TarballURL() should fail for a malformed host")
	}
}
