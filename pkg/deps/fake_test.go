package deps

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/pkgmirror/pkg/integrations"
)

const testHost = "https://registry.test"

// fakeRegistry serves metadata documents keyed by URL and counts requests.
type fakeRegistry struct {
	mu    sync.Mutex
	docs  map[string][]byte
	errs  map[string]error
	calls map[string]int
	total atomic.Int32

	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	// delay holds every request until it elapses or the context ends.
	delay time.Duration
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		docs:  make(map[string][]byte),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeRegistry) publish(pkg string, versions []string, tags map[string]string) *fakeRegistry {
	vs := make(map[string]json.RawMessage, len(versions))
	for _, v := range versions {
		vs[v] = json.RawMessage(`{}`)
	}
	doc, _ := json.Marshal(map[string]any{"name": pkg, "dist-tags": tags, "versions": vs})
	f.docs[testHost+"/"+pkg] = doc
	return f
}

func (f *fakeRegistry) serveRaw(pkg, body string) *fakeRegistry {
	f.docs[testHost+"/"+pkg] = []byte(body)
	return f
}

func (f *fakeRegistry) fail(pkg string, err error) *fakeRegistry {
	f.errs[testHost+"/"+pkg] = err
	return f
}

func (f *fakeRegistry) Download(ctx context.Context, url string) ([]byte, error) {
	f.total.Add(1)
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxInFlight.Load()
		if cur <= seen || f.maxInFlight.CompareAndSwap(seen, cur) {
			break
		}
	}

	f.mu.Lock()
	f.calls[url]++
	body, ok := f.docs[url]
	err := f.errs[url]
	f.mu.Unlock()

	if f.delay > 0 && err == nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, integrations.ErrNotFound
	}
	return body, nil
}

func (f *fakeRegistry) requests() int { return int(f.total.Load()) }

// recordingHooks captures resolve events.
type recordingHooks struct {
	mu            sync.Mutex
	starts        int
	completes     int
	lastErr       error
	lastResolved  int
	unsatisfiable []string
}

func (h *recordingHooks) OnBatchStart(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *recordingHooks) OnBatchComplete(_ context.Context, _ string, resolved int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completes++
	h.lastResolved = resolved
	h.lastErr = err
}

func (h *recordingHooks) OnUnsatisfiable(_ context.Context, pkg, spec string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsatisfiable = append(h.unsatisfiable, pkg+"@"+spec)
}
