package deps

import (
	"regexp"
	"strings"

	"github.com/matzehuels/pkgmirror/pkg/versions"
)

// Kind is the category of a version specifier.
type Kind int

const (
	KindRange Kind = iota // semver range or dist-tag, needs registry metadata
	KindExact             // concrete version
	KindFile              // local path, never fetched
	KindWeb               // tarball URL, passed through
	KindGit               // git reference, passed through
	KindAlias             // npm:name@range, resolved against the aliased package
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindFile:
		return "file"
	case KindWeb:
		return "web"
	case KindGit:
		return "git"
	case KindAlias:
		return "alias"
	default:
		return "range"
	}
}

var (
	filePrefixes = []string{"file:", "link:", "workspace:", "./", "../", "/", "~/"}
	webPrefixes  = []string{"http://", "https://"}
	gitPrefixes  = []string{
		"git:", "git+ssh:", "git+http:", "git+https:", "git+file:", "ssh://",
		"github:", "gitlab:", "bitbucket:", "gist:",
	}

	// user@host:path, as in git@github.com:org/repo.git
	scpLike = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[^/]`)
	// owner/repo with an optional #committish
	githubShorthand = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*/[A-Za-z0-9_.-]+(#.*)?$`)
	// http(s) URLs that point at a repository rather than a tarball
	gitOverHTTP = regexp.MustCompile(`^https?://.+\.git(#.*)?$`)
)

// IsFileURL reports whether s refers to the local filesystem.
func IsFileURL(s string) bool {
	if s == "." || s == ".." {
		return true
	}
	return hasAnyPrefix(s, filePrefixes)
}

// aliasPrefix introduces a dependency installed under another name.
const aliasPrefix = "npm:"

// IsAlias reports whether s installs another registry package, as in
// "npm:string-width@^4.2.0".
func IsAlias(s string) bool { return strings.HasPrefix(s, aliasPrefix) }

// ParseAlias splits an alias specifier into the aliased package name and
// its version specifier. The specifier is empty when s names no version.
func ParseAlias(s string) (name, spec string, ok bool) {
	rest, ok := strings.CutPrefix(s, aliasPrefix)
	if !ok || rest == "" {
		return "", "", false
	}
	// The name of a scoped package starts with its own '@'.
	at := strings.LastIndex(rest, "@")
	if at <= 0 {
		return rest, "", true
	}
	return rest[:at], rest[at+1:], true
}

// MakeAlias is the inverse of [ParseAlias].
func MakeAlias(name, spec string) string {
	if spec == "" {
		return aliasPrefix + name
	}
	return aliasPrefix + name + "@" + spec
}

// IsWebURL reports whether s is an http(s) URL of a tarball.
func IsWebURL(s string) bool {
	return hasAnyPrefix(s, webPrefixes) && !gitOverHTTP.MatchString(strings.ToLower(s))
}

// IsGitURL reports whether s refers to a git repository.
func IsGitURL(s string) bool {
	lower := strings.ToLower(s)
	switch {
	case hasAnyPrefix(lower, gitPrefixes):
		return true
	case gitOverHTTP.MatchString(lower):
		return true
	case scpLike.MatchString(s):
		return true
	}
	repo, _, _ := strings.Cut(s, "#")
	if strings.HasPrefix(repo, "@") || strings.Contains(repo, ":") {
		return false
	}
	return githubShorthand.MatchString(s)
}

// Classify returns the category of s. Categories are tested in the order
// exact, alias, file, web, git, so every specifier has exactly one Kind.
func Classify(s string) Kind {
	return classify(versions.Semver{}, s)
}

func classify(v Versioning, s string) Kind {
	switch {
	case v.IsValidExact(s):
		return KindExact
	case IsAlias(s):
		return KindAlias
	case IsFileURL(s):
		return KindFile
	case IsWebURL(s):
		return KindWeb
	case IsGitURL(s):
		return KindGit
	default:
		return KindRange
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	lower := strings.ToLower(s)
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
