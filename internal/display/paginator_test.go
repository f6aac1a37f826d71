package display

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/iot-monitor/internal/clock"
	"github.com/tamzrod/iot-monitor/internal/status"
)

func TestAdvance_OnlyWhenDue(t *testing.T) {
	clk := clock.NewManual(0)
	p, err := NewPaginator(5000, 3, clk.NowMs())
	require.NoError(t, err)

	for step := uint64(0); step < 200; step++ {
		clk.Advance(173)
		now := clk.NowMs()

		old, last := p.Page(), p.LastTick()
		page, fired := p.Advance(now)

		if now-last >= 5000 {
			require.True(t, fired, "now=%d", now)
			require.Equal(t, (old+1)%3, page)
			require.Equal(t, now, p.LastTick())
		} else {
			require.False(t, fired, "now=%d", now)
			require.Equal(t, old, page)
			require.Equal(t, last, p.LastTick())
		}
		require.GreaterOrEqual(t, p.Page(), 0)
		require.Less(t, p.Page(), 3)
	}
}

func TestAdvance_TwoPagesPeriodTwo(t *testing.T) {
	clk := clock.NewManual(0)
	p, err := NewPaginator(5000, 2, clk.NowMs())
	require.NoError(t, err)

	seq := []int{p.Page()}
	for i := 0; i < 7; i++ {
		clk.Advance(5000)
		page, fired := p.Advance(clk.NowMs())
		require.True(t, fired)
		seq = append(seq, page)
	}

	assert.Equal(t, []int{0, 1, 0, 1, 0, 1, 0, 1}, seq)
}

func TestAdvance_SinglePageStaysZero(t *testing.T) {
	p, err := NewPaginator(10, 1, 0)
	require.NoError(t, err)

	page, fired := p.Advance(10)
	assert.True(t, fired)
	assert.Equal(t, 0, page)
}

func TestNewPaginator_RejectsBadGeometry(t *testing.T) {
	_, err := NewPaginator(0, 2, 0)
	assert.Error(t, err)

	_, err = NewPaginator(5000, 0, 0)
	assert.Error(t, err)
}

func TestLogDriver_RendersPages(t *testing.T) {
	var buf bytes.Buffer
	d := NewLogDriver(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, d.RenderPage(context.Background(), PageSensor, status.Snapshot{SensorOK: true, TemperatureC: 24.5}))
	require.NoError(t, d.RenderPage(context.Background(), PageStatus, status.Snapshot{Link: status.LinkRetrying}))

	out := buf.String()
	assert.Contains(t, out, "temperature_c=24.5")
	assert.Contains(t, out, "link=retrying")
}
