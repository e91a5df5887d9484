package deps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/matzehuels/pkgmirror/pkg/errors"
	"github.com/matzehuels/pkgmirror/pkg/integrations/npm"
	"github.com/matzehuels/pkgmirror/pkg/observability"
)

// Resolver turns version specifiers into concrete versions using registry
// metadata fetched through a Downloader. A Resolver is safe for concurrent
// use.
type Resolver struct {
	dl   Downloader
	opts Options
}

// NewResolver creates a Resolver that fetches metadata through dl.
func NewResolver(dl Downloader, opts Options) *Resolver {
	return &Resolver{dl: dl, opts: opts.WithDefaults()}
}

// Options returns the effective options, defaults applied.
func (r *Resolver) Options() Options { return r.opts }

// Resolve returns the concrete version spec selects for pkg on host.
//
// Exact versions and web or git URLs are returned unchanged without a
// registry request. Ranges and dist-tags are matched against the package's
// published versions; an empty spec matches any release. An alias such as
// "npm:other@^1.0.0" is matched against the versions of "other" and
// resolves to "npm:other@<version>". When nothing satisfies spec, Resolve
// returns ok == false and a nil error. Local file specifiers are never
// looked up and also report ok == false.
//
// Errors come from the transport (wrapped, so errors.Is matches the
// original), from a metadata document that cannot be parsed
// (ErrCodeMalformedMetadata), or from an invalid package name
// (ErrCodeInvalidPackage).
func (r *Resolver) Resolve(ctx context.Context, host, pkg, spec string) (string, bool, error) {
	switch classify(r.opts.Versions, spec) {
	case KindExact, KindWeb, KindGit:
		return spec, true, nil
	case KindFile:
		r.opts.Logger("skip %s@%s: local file reference", pkg, spec)
		return "", false, nil
	case KindAlias:
		return r.resolveAlias(ctx, host, pkg, spec)
	}
	return r.resolveRange(ctx, host, pkg, spec)
}

func (r *Resolver) resolveAlias(ctx context.Context, host, pkg, spec string) (string, bool, error) {
	target, rng, ok := ParseAlias(spec)
	if !ok {
		return "", false, pkgerrors.New(pkgerrors.ErrCodeInvalidPackage, "%s: alias %q names no package", pkg, spec)
	}
	if err := pkgerrors.ValidateNpmPackageName(target); err != nil {
		return "", false, err
	}

	var v string
	switch classify(r.opts.Versions, rng) {
	case KindExact:
		v, ok = rng, true
	case KindRange:
		var err error
		if v, ok, err = r.resolveRange(ctx, host, target, rng); err != nil || !ok {
			return "", false, err
		}
	default:
		r.opts.Logger("skip %s@%s: alias must name a registry version", pkg, spec)
		return "", false, nil
	}
	return MakeAlias(target, v), ok, nil
}

func (r *Resolver) resolveRange(ctx context.Context, host, pkg, spec string) (string, bool, error) {
	if err := pkgerrors.ValidateNpmPackageName(pkg); err != nil {
		return "", false, err
	}

	meta, err := r.fetchMetadata(ctx, host, pkg)
	if err != nil {
		return "", false, err
	}

	if v, ok := meta.Tag(spec); ok {
		r.opts.Logger("resolved %s@%s -> %s (dist-tag)", pkg, spec, v)
		return v, true, nil
	}

	rng := strings.TrimSpace(spec)
	if rng == "" {
		rng = "*"
	}
	if v, ok := r.opts.Versions.MaxSatisfying(meta.VersionList(), rng); ok {
		r.opts.Logger("resolved %s@%s -> %s", pkg, spec, v)
		return v, true, nil
	}

	r.opts.Logger("unsatisfiable: %s@%s matches none of %d published versions", pkg, spec, len(meta.Versions))
	observability.Resolve().OnUnsatisfiable(ctx, pkg, spec)
	return "", false, nil
}

func (r *Resolver) fetchMetadata(ctx context.Context, host, pkg string) (*npm.Metadata, error) {
	u, err := npm.MetadataURL(host, pkg, "")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "registry host %q", host)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.opts.FetchTimeout)
	defer cancel()

	data, err := r.dl.Download(fetchCtx, u)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeTimeout, err, "fetch %s metadata: no response within %s", pkg, r.opts.FetchTimeout)
		}
		return nil, fmt.Errorf("%w: npm package %s", err, pkg)
	}

	meta, err := npm.ParseMetadata(data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeMalformedMetadata, err, "parse %s metadata from %s", pkg, u)
	}
	return meta, nil
}
