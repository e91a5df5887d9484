package npm

import (
	"slices"
	"testing"
)

const lodashDoc = `{
  "name": "lodash",
  "dist-tags": {"latest": "4.17.21", "next": "5.0.0-beta.1", "stale": "0.0.1"},
  "versions": {
    "4.17.20": {"name": "lodash", "version": "4.17.20"},
    "4.17.21": {"name": "lodash", "version": "4.17.21"},
    "5.0.0-beta.1": {}
  }
}`

func TestParseMetadata(t *testing.T) {
	m, err := ParseMetadata([]byte(lodashDoc))
	if err != nil {
		t.Fatalf("ParseMetadata() error: %v", err)
	}
	if m.Name != "lodash" {
		t.Errorf("Name = %q, want lodash", m.Name)
	}

	want := []string{"4.17.20", "4.17.21", "5.0.0-beta.1"}
	if got := m.VersionList(); !slices.Equal(got, want) {
		t.Errorf("VersionList() = %v, want %v", got, want)
	}
}

func TestParseMetadataWithoutVersions(t *testing.T) {
	m, err := ParseMetadata([]byte(`{"name":"gone","time":{"unpublished":{}}}`))
	if err != nil {
		t.Fatalf("ParseMetadata() error: %v", err)
	}
	if len(m.VersionList()) != 0 {
		t.Errorf("VersionList() = %v, want empty", m.VersionList())
	}
}

func TestParseMetadataMalformed(t *testing.T) {
	for _, doc := range []string{"", "<html>", `{"versions": []}`} {
		if _, err := ParseMetadata([]byte(doc)); err == nil {
			t.Errorf("ParseMetadata(%q) should fail", doc)
		}
	}
}

func TestMetadataTag(t *testing.T) {
	m, _ := ParseMetadata([]byte(lodashDoc))

	tests := []struct {
		tag    string
		want   string
		wantOK bool
	}{
		{"latest", "4.17.21", true},
		{"next", "5.0.0-beta.1", true},
		{"stale", "", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		got, ok := m.Tag(tt.tag)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Tag(%q) = %q, %v; want %q, %v", tt.tag, got, ok, tt.want, tt.wantOK)
		}
	}
}
