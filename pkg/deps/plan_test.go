package deps

import (
	"testing"

	pkgerrors "github.com/matzehuels/pkgmirror/pkg/errors"
)

func TestTargets(t *testing.T) {
	resolved := ResolvedSet{
		"foo":      NewSet("1.0.0", "2.0.0"),
		"tarball":  NewSet("https://example.com/t-1.0.0.tgz"),
		"repo":     NewSet("git+ssh://git@github.com/org/repo.git"),
		"unpinned": NewSet(),
		"sw-cjs":   NewSet("npm:string-width@4.2.3"),
	}

	got, err := Targets(testHost, resolved)
	if err != nil {
		t.Fatalf("Targets() error: %v", err)
	}

	want := []Target{
		{Name: "foo", Version: "1.0.0", Kind: KindExact, Source: "exact", URL: testHost + "/foo/1.0.0/foo-1.0.0.tgz"},
		{Name: "foo", Version: "2.0.0", Kind: KindExact, Source: "exact", URL: testHost + "/foo/2.0.0/foo-2.0.0.tgz"},
		{Name: "repo", Version: "git+ssh://git@github.com/org/repo.git", Kind: KindGit, Source: "git"},
		{Name: "sw-cjs", Version: "npm:string-width@4.2.3", Kind: KindAlias, Source: "alias", URL: testHost + "/string-width/4.2.3/string-width-4.2.3.tgz"},
		{Name: "tarball", Version: "https://example.com/t-1.0.0.tgz", Kind: KindWeb, Source: "web", URL: "https://example.com/t-1.0.0.tgz"},
	}
	if len(got) != len(want) {
		t.Fatalf("Targets() = %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Targets()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTargetsBadHost(t *testing.T) {
	if _, err := Targets("http://[::1", ResolvedSet{"a": NewSet("1.0.0")}); err == nil {
		t.Error("Targets() should fail for a malformed host")
	}
}

func TestTargetsInvalidName(t *testing.T) {
	for _, resolved := range []ResolvedSet{
		{"../x": NewSet("1.0.0")},
		{".hidden": NewSet("1.0.0")},
		{"ok": NewSet("npm:../../x@1.0.0")},
	} {
		_, err := Targets(testHost+"/mirror", resolved)
		if !pkgerrors.Is(err, pkgerrors.ErrCodeInvalidPackage) {
			t.Errorf("Targets(%v) error = %v, want ErrCodeInvalidPackage", resolved, err)
		}
	}
}
