// Package refresh implements the poll-driven snapshot controller shared by
// the monitoring and admin dashboards. One controller owns one normalized
// snapshot: it fetches every slice concurrently on an interval, tolerates
// partial failure by retaining the previous value of a failed slice, and
// replaces the snapshot atomically so readers never observe a half-merged
// state.
package refresh

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Task fetches one named slice of a snapshot.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunAll issues every task concurrently and waits for all of them to settle.
// A failing task never cancels its siblings; its error is recorded under the
// slice name. Returns nil when every slice succeeded.
func RunAll(ctx context.Context, tasks []Task) map[string]error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	errs := make(map[string]error)
	for _, t := range tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			if err := t.Run(ctx); err != nil {
				mu.Lock()
				errs[t.Name] = err
				mu.Unlock()
			}
		}(t)
	}
	wg.Wait()
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FetchFunc produces the next snapshot starting from the previous one.
// Failed slices must leave their portion of prev in place and report the
// failure in the returned map.
type FetchFunc[S any] func(ctx context.Context, prev S) (S, map[string]error)

// Status describes the freshness of the current snapshot.
type Status struct {
	HasData     bool              `json:"has_data"`
	FetchedAt   time.Time         `json:"fetched_at"`
	Cycle       uint64            `json:"cycle"`
	SliceErrors map[string]string `json:"slice_errors,omitempty"`
}

type Controller[S any] struct {
	fetch FetchFunc[S]
	log   zerolog.Logger
	now   func() time.Time

	mu         sync.Mutex
	cancel     context.CancelFunc
	running    bool
	intervalCh chan time.Duration

	snapMu sync.RWMutex
	snap   S
	status Status

	seq atomic.Uint64
	sf  singleflight.Group
}

func NewController[S any](fetch FetchFunc[S], log zerolog.Logger) *Controller[S] {
	return &Controller[S]{
		fetch:      fetch,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
		intervalCh: make(chan time.Duration, 1),
	}
}

// Start begins periodic polling. One fetch runs immediately so the first
// snapshot does not wait a full interval. Calling Start while running
// restarts the loop instead of stacking a second timer.
func (c *Controller[S]) Start(ctx context.Context, interval time.Duration) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	// A reschedule buffered while the previous loop was shutting down must
	// not override the interval this run was given.
	select {
	case <-c.intervalCh:
	default:
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true
	c.mu.Unlock()

	go c.loop(runCtx, interval)
}

// Stop cancels the timer and any in-flight cycle. A result that arrives
// after Stop is discarded rather than applied.
func (c *Controller[S]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.running = false
}

func (c *Controller[S]) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetInterval changes the polling cadence. The ticker is reset in place; an
// in-flight cycle is left to complete and apply as usual.
func (c *Controller[S]) SetInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	select {
	case c.intervalCh <- d:
	default:
		// Pending reschedule not yet consumed; replace it.
		<-c.intervalCh
		c.intervalCh <- d
	}
}

func (c *Controller[S]) loop(ctx context.Context, interval time.Duration) {
	c.runCycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case d := <-c.intervalCh:
			ticker.Reset(d)
		case <-ticker.C:
			// Cycles may overlap when the backend is slower than the
			// cadence; apply ordering is enforced by sequence number.
			go c.runCycle(ctx)
		}
	}
}

// RefreshNow runs one cycle outside the timer, typically right after a
// mutating action. Concurrent callers are collapsed into a single cycle.
// The returned error reports failed slices; whatever succeeded is applied
// regardless.
func (c *Controller[S]) RefreshNow(ctx context.Context) error {
	_, err, _ := c.sf.Do("refresh", func() (any, error) {
		return nil, c.cycle(ctx)
	})
	return err
}

func (c *Controller[S]) runCycle(ctx context.Context) {
	if err := c.cycle(ctx); err != nil {
		c.log.Warn().Err(err).Msg("poll cycle completed with failed slices")
	}
}

func (c *Controller[S]) cycle(ctx context.Context) error {
	seq := c.seq.Add(1)
	prev, _ := c.Snapshot()
	next, errs := c.fetch(ctx, prev)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.apply(seq, next, errs)
	if len(errs) == 0 {
		return nil
	}
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, errs[name]))
	}
	return fmt.Errorf("fetch slices failed: %s", strings.Join(parts, "; "))
}

func (c *Controller[S]) apply(seq uint64, snap S, errs map[string]error) {
	c.snapMu.Lock()
	defer c.snapMu.Unlock()
	// A slow cycle finishing after a newer one must not roll the view back.
	if seq <= c.status.Cycle {
		return
	}
	c.snap = snap
	c.status = Status{
		HasData:   true,
		FetchedAt: c.now(),
		Cycle:     seq,
	}
	if len(errs) > 0 {
		c.status.SliceErrors = make(map[string]string, len(errs))
		for name, err := range errs {
			c.status.SliceErrors[name] = err.Error()
		}
	}
}

// Snapshot returns the last applied snapshot and its status. It never blocks
// on fetching and keeps returning the last good state while polls fail.
func (c *Controller[S]) Snapshot() (S, Status) {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	status := c.status
	if len(c.status.SliceErrors) > 0 {
		status.SliceErrors = make(map[string]string, len(c.status.SliceErrors))
		for k, v := range c.status.SliceErrors {
			status.SliceErrors[k] = v
		}
	}
	return c.snap, status
}
