package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgmirror/pkg/deps"
	pkgerrors "github.com/matzehuels/pkgmirror/pkg/errors"
	"github.com/matzehuels/pkgmirror/pkg/integrations"
	"github.com/matzehuels/pkgmirror/pkg/observability"
)

var registryDocs = map[string]string{
	"lodash":      `{"name":"lodash","dist-tags":{"latest":"4.17.21"},"versions":{"4.17.0":{},"4.17.21":{},"5.0.0-beta.1":{}}}`,
	"react":       `{"name":"react","dist-tags":{"latest":"18.2.0","next":"19.0.0-rc.1"},"versions":{"17.0.2":{},"18.2.0":{},"19.0.0-rc.1":{}}}`,
	"jest":        `{"name":"jest","dist-tags":{"latest":"29.1.0"},"versions":{"29.0.0":{},"29.0.3":{},"29.1.0":{}}}`,
	"@types/node": `{"name":"@types/node","dist-tags":{"latest":"20.1.0"},"versions":{"18.0.0":{},"20.1.0":{}}}`,
}

const testManifest = `{
  "name": "app",
  "version": "1.0.0",
  "dependencies": {
    "lodash": "^4.17.0",
    "react": "latest",
    "local-lib": "file:../local-lib",
    "tool": "github:acme/tool#v1.2.0"
  },
  "devDependencies": {
    "jest": "~29.0.0",
    "@types/node": "18.0.0"
  }
}`

// newTestRegistry serves registryDocs and counts requests.
func newTestRegistry(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		doc, ok := registryDocs[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(doc))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

// writeProject creates a project directory with a package.json.
func writeProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRegistry, "")
	t.Setenv(envRedisAddr, "")

	oldStatus := statusOut
	statusOut = io.Discard
	t.Cleanup(func() {
		statusOut = oldStatus
		observability.Reset()
	})

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SilenceErrors = true

	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestResolveCommand(t *testing.T) {
	server, _ := newTestRegistry(t)
	project := writeProject(t, testManifest)

	out, err := execute(t, "resolve", project, "--registry", server.URL, "--cache", "none")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	var got map[string][]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	want := map[string][]string{
		"lodash":      {"4.17.21"},
		"react":       {"18.2.0"},
		"tool":        {"github:acme/tool#v1.2.0"},
		"jest":        {"29.0.3"},
		"@types/node": {"18.0.0"},
	}
	if len(got) != len(want) {
		t.Errorf("resolved %d packages, want %d: %v", len(got), len(want), got)
	}
	for name, versions := range want {
		if strings.Join(got[name], ",") != strings.Join(versions, ",") {
			t.Errorf("%s = %v, want %v", name, got[name], versions)
		}
	}
	if _, ok := got["local-lib"]; ok {
		t.Error("local file references should not be resolved")
	}
}

func TestResolveCommandDepTypes(t *testing.T) {
	server, _ := newTestRegistry(t)
	project := writeProject(t, testManifest)

	out, err := execute(t, "resolve", project, "--registry", server.URL, "--cache", "none", "--dep-type", "prod", "--format", "text")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if strings.Contains(out, "jest") {
		t.Errorf("devDependencies should be skipped:\n%s", out)
	}
	if !strings.Contains(out, "lodash 4.17.21\n") {
		t.Errorf("text output missing lodash line:\n%s", out)
	}
}

func TestResolveCommandUsesCache(t *testing.T) {
	server, requests := newTestRegistry(t)
	project := writeProject(t, testManifest)
	cacheDir := t.TempDir()
	config := writeConfig(t, "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n")

	for range 2 {
		if _, err := execute(t, "resolve", project, "--registry", server.URL, "--config", config); err != nil {
			t.Fatalf("resolve error: %v", err)
		}
	}
	// lodash, react, jest: the second run is served from the cache.
	if got := requests.Load(); got != 3 {
		t.Errorf("registry requests = %d, want 3", got)
	}
}

func TestResolveCommandNotFound(t *testing.T) {
	server, _ := newTestRegistry(t)
	project := writeProject(t, `{"dependencies": {"left-pad": "^1.0.0"}}`)

	_, err := execute(t, "resolve", project, "--registry", server.URL, "--cache", "none")
	if err == nil {
		t.Fatal("resolve should fail for a package the registry does not know")
	}
	if !strings.Contains(err.Error(), "left-pad") {
		t.Errorf("error should name the package: %v", err)
	}
	if !pkgerrors.Is(err, pkgerrors.ErrCodePackageNotFound) {
		t.Errorf("error = %v, want PACKAGE_NOT_FOUND", err)
	}
}

func TestResolveCommandFrom(t *testing.T) {
	server, _ := newTestRegistry(t)
	demand := filepath.Join(t.TempDir(), "demand.json")
	if err := os.WriteFile(demand, []byte(`{"react":["^17.0.0","next"],"x":["file:./x"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "resolve", "--from", demand, "--registry", server.URL, "--cache", "none")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	var got deps.ResolvedSet
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !got["react"].Has("17.0.2") || !got["react"].Has("19.0.0-rc.1") {
		t.Errorf("react = %v, want 17.0.2 and 19.0.0-rc.1", got["react"].Sorted())
	}
	if _, ok := got["x"]; ok {
		t.Error("file specifiers from a demand file should be dropped")
	}
}

func TestResolveCommandInvalidRegistry(t *testing.T) {
	project := writeProject(t, testManifest)

	_, err := execute(t, "resolve", project, "--registry", "registry.example.com")
	if !pkgerrors.Is(err, pkgerrors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestDemandCommand(t *testing.T) {
	project := writeProject(t, testManifest)
	nested := filepath.Join(project, "packages", "web")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "package.json"), []byte(`{"dependencies":{"lodash":"4.17.0"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "demand", project, "--format", "text")
	if err != nil {
		t.Fatalf("demand error: %v", err)
	}

	for _, line := range []string{"lodash 4.17.0", "lodash ^4.17.0", "react latest", "jest ~29.0.0"} {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("demand output missing %q:\n%s", line, out)
		}
	}
	if strings.Contains(out, "local-lib") {
		t.Errorf("local file references should be dropped:\n%s", out)
	}
}

func TestDemandCommandInvalidManifest(t *testing.T) {
	project := writeProject(t, `{not json`)

	if _, err := execute(t, "demand", project); !pkgerrors.Is(err, pkgerrors.ErrCodeInvalidManifest) {
		t.Errorf("error = %v, want INVALID_MANIFEST", err)
	}

	out, err := execute(t, "demand", project, "--skip-invalid")
	if err != nil {
		t.Fatalf("demand --skip-invalid error: %v", err)
	}
	if strings.TrimSpace(out) != "{}" {
		t.Errorf("demand output = %q, want an empty set", out)
	}
}

func TestDemandCommandOutputFile(t *testing.T) {
	project := writeProject(t, testManifest)
	path := filepath.Join(t.TempDir(), "demand.json")

	out, err := execute(t, "demand", project, "-o", path)
	if err != nil {
		t.Fatalf("demand error: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing when -o is set", out)
	}

	d, err := readDemand(path)
	if err != nil {
		t.Fatalf("readDemand() error: %v", err)
	}
	if !d["lodash"].Has("^4.17.0") {
		t.Errorf("lodash = %v", d["lodash"].Sorted())
	}
}

func TestPlanCommand(t *testing.T) {
	server, _ := newTestRegistry(t)
	project := writeProject(t, `{"dependencies": {"lodash": "^4.17.0", "tool": "github:acme/tool", "tarball": "https://example.com/t.tgz"}}`)

	out, err := execute(t, "plan", project, "--registry", server.URL, "--cache", "none", "--json")
	if err != nil {
		t.Fatalf("plan error: %v", err)
	}

	var targets []deps.Target
	if err := json.Unmarshal([]byte(out), &targets); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(targets) != 3 {
		t.Fatalf("got %d targets, want 3: %+v", len(targets), targets)
	}

	byName := make(map[string]deps.Target)
	for _, tg := range targets {
		byName[tg.Name] = tg
	}
	if got := byName["lodash"].URL; got != server.URL+"/lodash/4.17.21/lodash-4.17.21.tgz" {
		t.Errorf("lodash URL = %q", got)
	}
	if got := byName["tarball"].URL; got != "https://example.com/t.tgz" {
		t.Errorf("tarball URL = %q", got)
	}
	if byName["tool"].URL != "" || byName["tool"].Source != "git" {
		t.Errorf("tool = %+v, want a git target without URL", byName["tool"])
	}
}

func TestPlanCommandTable(t *testing.T) {
	server, _ := newTestRegistry(t)
	project := writeProject(t, `{"dependencies": {"lodash": "^4.17.0"}}`)

	out, err := execute(t, "plan", project, "--registry", server.URL, "--cache", "none", "--no-color")
	if err != nil {
		t.Fatalf("plan error: %v", err)
	}
	for _, s := range []string{"PACKAGE", "lodash", "4.17.21", "lodash-4.17.21.tgz"} {
		if !strings.Contains(out, s) {
			t.Errorf("table missing %q:\n%s", s, out)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	config := writeConfig(t, "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	out, err := execute(t, "cache", "path", "--config", config)
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	if _, err := execute(t, "cache", "path", "--cache", "memory"); !pkgerrors.Is(err, pkgerrors.ErrCodeUnsupported) {
		t.Errorf("error = %v, want UNSUPPORTED for the memory backend", err)
	}
}

func TestManifestPaths(t *testing.T) {
	project := writeProject(t, testManifest)

	paths, err := manifestPaths([]string{project, filepath.Join(project, "package.json")})
	if err != nil {
		t.Fatalf("manifestPaths() error: %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("manifestPaths() = %v, want the manifest twice", paths)
	}

	if _, err := manifestPaths([]string{filepath.Join(project, "missing")}); !pkgerrors.Is(err, pkgerrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}

	other := filepath.Join(project, "README.md")
	if err := os.WriteFile(other, []byte("# app"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := manifestPaths([]string{other}); !pkgerrors.Is(err, pkgerrors.ErrCodeInvalidManifest) {
		t.Errorf("error = %v, want INVALID_MANIFEST", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range completionShells {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error: %v", shell, err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("completion script for %s does not mention %s", shell, appName)
			}
		})
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shells should be rejected")
	}
}

func TestClassifyTransport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want pkgerrors.Code
	}{
		{name: "not found", err: fmt.Errorf("%w: npm package x", integrations.ErrNotFound), want: pkgerrors.ErrCodePackageNotFound},
		{name: "network", err: fmt.Errorf("%w: status 502", integrations.ErrNetwork), want: pkgerrors.ErrCodeNetwork},
		{name: "already coded", err: pkgerrors.New(pkgerrors.ErrCodeTimeout, "slow"), want: pkgerrors.ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyTransport(tt.err, "https://registry.test")
			if got := pkgerrors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q", got, tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("classified error should wrap the original")
			}
		})
	}
}

func TestTransportHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "timeout", err: pkgerrors.New(pkgerrors.ErrCodeTimeout, "slow"), want: "--fetch-timeout"},
		{name: "malformed", err: pkgerrors.New(pkgerrors.ErrCodeMalformedMetadata, "bad json"), want: "--refresh"},
		{name: "network", err: classifyTransport(fmt.Errorf("%w: status 502", integrations.ErrNetwork), "https://registry.test"), want: "--registry"},
		{name: "not found", err: classifyTransport(integrations.ErrNotFound, "https://registry.test"), want: ""},
		{name: "invalid package", err: pkgerrors.New(pkgerrors.ErrCodeInvalidPackage, "bad name"), want: ""},
		{name: "canceled", err: context.Canceled, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transportHint(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("transportHint() = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("transportHint() = %q, want mention of %s", got, tt.want)
			}
		})
	}
}
