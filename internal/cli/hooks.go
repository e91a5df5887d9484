package cli

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports resolution events through the CLI logger.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnBatchStart(_ context.Context, batchID string, pairs int) {
	h.logger.Debug("Batch started", "batch", batchID, "pairs", pairs)
}

func (h *logHooks) OnBatchComplete(_ context.Context, batchID string, resolved int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Batch failed", "batch", batchID, "err", err)
		return
	}
	h.logger.Debug("Batch finished", "batch", batchID, "resolved", resolved, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnUnsatisfiable(_ context.Context, pkg, specifier string) {
	h.logger.Warnf("No published version of %s satisfies %q", pkg, specifier)
}

// cacheStats counts registry cache lookups and the requests that missed.
type cacheStats struct {
	hits     atomic.Int64
	misses   atomic.Int64
	writes   atomic.Int64
	requests atomic.Int64
}

func (s *cacheStats) OnCacheHit(context.Context, string)      { s.hits.Add(1) }
func (s *cacheStats) OnCacheMiss(context.Context, string)     { s.misses.Add(1) }
func (s *cacheStats) OnCacheSet(context.Context, string, int) { s.writes.Add(1) }

func (s *cacheStats) OnRequest(context.Context, string, string, string)                      { s.requests.Add(1) }
func (s *cacheStats) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (s *cacheStats) OnError(context.Context, string, string, string, error)                 {}
