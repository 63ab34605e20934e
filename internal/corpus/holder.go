package corpus

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

// LoadFunc fetches the full posting corpus from backing storage.
type LoadFunc func(ctx context.Context) ([]Posting, error)

// Holder owns the current index snapshot. Refresh rebuilds the index
// wholesale and swaps the pointer; readers always see either the fully-old
// or fully-new snapshot, and in-flight computations keep the snapshot they
// started with.
type Holder struct {
	reg  *registry.Registry
	load LoadFunc

	current atomic.Pointer[Index]
	mu      sync.Mutex // serializes refreshes
	onSwap  []func()
}

// NewHolder creates a holder with an empty snapshot. Call Refresh to
// populate it before serving traffic.
func NewHolder(reg *registry.Registry, load LoadFunc) *Holder {
	h := &Holder{reg: reg, load: load}
	h.current.Store(Build(nil, reg, time.Now()))
	return h
}

// Snapshot returns the current index. The returned value is immutable.
func (h *Holder) Snapshot() *Index {
	return h.current.Load()
}

// Refresh reloads the corpus and swaps in a freshly built index.
// The old snapshot stays valid for requests already holding it.
func (h *Holder) Refresh(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	postings, err := h.load(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	h.current.Store(Build(postings, h.reg, time.Now()))
	for _, fn := range h.onSwap {
		fn()
	}
	return nil
}

// OnRefresh registers a hook invoked after every successful swap, used to
// flush derived caches. Not safe to call once serving has started.
func (h *Holder) OnRefresh(fn func()) {
	h.onSwap = append(h.onSwap, fn)
}

// RunPeriodicRefresh refreshes on the given interval until ctx is done.
// Errors are reported through errFn and do not stop the loop; the previous
// snapshot keeps serving.
func (h *Holder) RunPeriodicRefresh(ctx context.Context, interval time.Duration, errFn func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.Refresh(ctx); err != nil && errFn != nil {
				errFn(err)
			}
		}
	}
}
