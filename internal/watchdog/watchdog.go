// internal/watchdog/watchdog.go
package watchdog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tamzrod/iot-monitor/internal/clock"
	"github.com/tamzrod/iot-monitor/internal/fault"
)

// Watchdog tracks supervisory loop liveness.
// The loop is the only writer; the guard goroutine only reads lastFeed.
type Watchdog struct {
	interval uint64
	lastFeed atomic.Uint64
}

// New arms the watchdog as if it had just been fed at now.
func New(intervalMs uint64, now uint64) *Watchdog {
	w := &Watchdog{interval: intervalMs}
	w.lastFeed.Store(now)
	return w
}

// Feed records that the loop is alive.
func (w *Watchdog) Feed(now uint64) {
	w.lastFeed.Store(now)
}

// LastFeed returns the timestamp of the most recent feed.
func (w *Watchdog) LastFeed() uint64 {
	return w.lastFeed.Load()
}

// IsStalled reports whether more than the interval has passed since the last feed.
func (w *Watchdog) IsStalled(now uint64) bool {
	return clock.Elapsed(now, w.lastFeed.Load()) > w.interval
}

// Check returns a fatal WatchdogStall error when stalled.
func (w *Watchdog) Check(now uint64) error {
	last := w.lastFeed.Load()
	if gap := clock.Elapsed(now, last); gap > w.interval {
		return fault.Wrap(
			fault.WatchdogStall,
			"watchdog",
			fmt.Errorf("no feed for %dms (limit %dms)", gap, w.interval),
		)
	}
	return nil
}

// Watch is the hardware-style guard. It polls the last feed time every poll
// interval and calls onStall once if the loop stops feeding, then returns.
// clk must be safe for concurrent use.
func (w *Watchdog) Watch(ctx context.Context, clk clock.Clock, poll time.Duration, onStall func(err error)) {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Check(clk.NowMs()); err != nil {
				onStall(err)
				return
			}
		}
	}
}
