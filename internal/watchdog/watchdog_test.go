package watchdog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/iot-monitor/internal/clock"
	"github.com/tamzrod/iot-monitor/internal/fault"
)

func TestFeedingBelowIntervalNeverStalls(t *testing.T) {
	clk := clock.NewManual(0)
	w := New(30000, clk.NowMs())

	for i := 0; i < 100; i++ {
		clk.Advance(29999)
		require.False(t, w.IsStalled(clk.NowMs()), "step %d", i)
		require.NoError(t, w.Check(clk.NowMs()))
		w.Feed(clk.NowMs())
	}
}

func TestGapAtIntervalIsNotStall(t *testing.T) {
	w := New(30000, 0)
	assert.False(t, w.IsStalled(30000))
}

func TestGapBeyondIntervalStalls(t *testing.T) {
	clk := clock.NewManual(5000)
	w := New(30000, clk.NowMs())

	clk.Advance(30001)

	assert.True(t, w.IsStalled(clk.NowMs()))
	err := w.Check(clk.NowMs())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.WatchdogStall))
	assert.True(t, fault.Of(err).Fatal())
}

func TestFeedResetsStall(t *testing.T) {
	w := New(1000, 0)
	require.True(t, w.IsStalled(5000))

	w.Feed(5000)
	assert.False(t, w.IsStalled(5500))
	assert.Equal(t, uint64(5000), w.LastFeed())
}

func TestWatchFiresOnHang(t *testing.T) {
	clk := clock.NewMonotonic()
	w := New(20, clk.NowMs())

	stalled := make(chan error, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go w.Watch(ctx, clk, 5*time.Millisecond, func(err error) { stalled <- err })

	select {
	case err := <-stalled:
		assert.True(t, errors.Is(err, fault.WatchdogStall))
	case <-ctx.Done():
		t.Fatal("watchdog guard did not fire")
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	clk := clock.NewMonotonic()
	w := New(60000, clk.NowMs())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Watch(ctx, clk, time.Millisecond, func(error) { t.Error("unexpected stall") })
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
