// Package versions implements npm-style version checks on top of
// github.com/Masterminds/semver/v3.
//
// [Semver] answers two questions for the resolver: is a specifier already
// an exact version, and which published version is the highest one that
// satisfies a range. Range syntax follows the library, which covers the
// forms found in package.json files: caret, tilde, x-ranges, hyphen ranges,
// comparator sets joined by spaces or commas, and "||" alternatives.
//
// Pre-release versions only satisfy ranges that themselves name a
// pre-release, matching npm.
package versions

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Semver is the default version scheme. The zero value is ready to use.
type Semver struct{}

// IsValidExact reports whether s is a strict semantic version such as
// "1.2.3" or "2.0.0-rc.1+build.5". Loose forms like "v1.2" or "=1.2.3" are
// ranges, not exact versions.
func (Semver) IsValidExact(s string) bool {
	_, err := semver.StrictNewVersion(s)
	return err == nil
}

// MaxSatisfying returns the highest version in published that satisfies
// spec. An empty spec matches any release. Entries that are not valid
// versions are ignored. It reports false when spec is not a valid range or
// nothing matches.
func (Semver) MaxSatisfying(published []string, spec string) (string, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = "*"
	}
	c, err := semver.NewConstraint(spec)
	if err != nil {
		return "", false
	}

	var best *semver.Version
	for _, raw := range published {
		v, err := semver.StrictNewVersion(raw)
		if err != nil {
			continue
		}
		if !c.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if best == nil {
		return "", false
	}
	return best.Original(), true
}
