package deps

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/matzehuels/pkgmirror/pkg/errors"
	"github.com/matzehuels/pkgmirror/pkg/observability"
)

// ResolveAll resolves every (name, specifier) pair of demand against host
// and returns the concrete versions per name.
//
// Pairs resolve concurrently, at most Options.Concurrency at a time. Every
// demanded name appears in the result; a name whose specifiers were all
// unsatisfiable maps to an empty Set. The first error cancels the pairs
// still in flight and is returned alone, without a partial result.
func (r *Resolver) ResolveAll(ctx context.Context, host string, demand DemandSet) (ResolvedSet, error) {
	out := make(ResolvedSet, len(demand))
	for name := range demand {
		out.Add(name)
	}

	pairs := demand.Pairs()
	if len(pairs) == 0 {
		return out, nil
	}

	batchID := uuid.NewString()
	start := time.Now()
	observability.Resolve().OnBatchStart(ctx, batchID, len(pairs))
	r.opts.Logger("batch %s: resolving %d specifiers for %d packages", batchID, len(pairs), len(demand))

	err := r.resolvePairs(ctx, host, pairs, out)

	n := 0
	if err == nil {
		n = out.Len()
	}
	observability.Resolve().OnBatchComplete(ctx, batchID, n, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.opts.Logger("batch %s: %d versions in %s", batchID, n, time.Since(start).Round(time.Millisecond))
	return out, nil
}

func (r *Resolver) resolvePairs(ctx context.Context, host string, pairs []Pair, out ResolvedSet) error {
	batchCtx := ctx
	if r.opts.Deadline > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, r.opts.Deadline)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(r.opts.Concurrency)

	var mu sync.Mutex
	launched := 0
	for _, p := range pairs {
		if gctx.Err() != nil {
			break
		}
		launched++
		g.Go(func() error {
			v, ok, err := r.Resolve(gctx, host, p.Name, p.Value)
			if err != nil {
				return err
			}
			if ok {
				mu.Lock()
				out.Add(p.Name, v)
				mu.Unlock()
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil && launched < len(pairs) {
		err = batchCtx.Err()
	}
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil && batchCtx.Err() != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeTimeout, err, "resolution did not finish within %s", r.opts.Deadline)
	}
	return err
}
