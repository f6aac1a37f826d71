package modbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/iot-monitor/internal/status"
)

// ---- fake register writer ----

type writeCall struct {
	addr uint16
	qty  uint16
	data []byte
}

type fakeWriter struct {
	writes []writeCall
	fail   bool
}

func (f *fakeWriter) WriteMultipleRegisters(addr, qty uint16, value []byte) ([]byte, error) {
	if f.fail {
		return nil, errors.New("i/o timeout")
	}
	f.writes = append(f.writes, writeCall{addr: addr, qty: qty, data: value})
	return nil, nil
}

func newPanel(w *fakeWriter) *Panel {
	return &Panel{client: w, base: 100, deviceName: "DEV-01", needFull: true}
}

// ---- tests ----

func TestRenderPage_FirstWriteIsFullBlock(t *testing.T) {
	w := &fakeWriter{}
	p := newPanel(w)

	require.NoError(t, p.RenderPage(context.Background(), 0, status.Snapshot{SensorOK: true, TemperatureC: 21}))

	require.Len(t, w.writes, 1)
	assert.Equal(t, uint16(100), w.writes[0].addr)
	assert.Equal(t, uint16(status.SlotsPerDevice), w.writes[0].qty)
	assert.Len(t, w.writes[0].data, status.SlotsPerDevice*2)
}

func TestRenderPage_IncrementalWritesChangedSpanOnly(t *testing.T) {
	w := &fakeWriter{}
	p := newPanel(w)
	ctx := context.Background()

	snap := status.Snapshot{SensorOK: true, TemperatureC: 21}
	require.NoError(t, p.RenderPage(ctx, 0, snap))

	// page flips: only SlotPage changes
	require.NoError(t, p.RenderPage(ctx, 1, snap))
	require.Len(t, w.writes, 2)
	assert.Equal(t, uint16(100+status.SlotPage), w.writes[1].addr)
	assert.Equal(t, uint16(1), w.writes[1].qty)
	assert.Equal(t, []byte{0x00, 0x01}, w.writes[1].data)

	// nothing changed: no write
	require.NoError(t, p.RenderPage(ctx, 1, snap))
	assert.Len(t, w.writes, 2)
}

func TestRenderPage_FailureForcesFullReassert(t *testing.T) {
	w := &fakeWriter{}
	p := newPanel(w)
	ctx := context.Background()

	require.NoError(t, p.RenderPage(ctx, 0, status.Snapshot{}))

	w.fail = true
	require.Error(t, p.RenderPage(ctx, 1, status.Snapshot{}))

	w.fail = false
	require.NoError(t, p.RenderPage(ctx, 1, status.Snapshot{}))
	last := w.writes[len(w.writes)-1]
	assert.Equal(t, uint16(status.SlotsPerDevice), last.qty)
}

func TestRenderPage_CancelledContext(t *testing.T) {
	w := &fakeWriter{}
	p := newPanel(w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, p.RenderPage(ctx, 0, status.Snapshot{}))
	assert.Empty(t, w.writes)
}

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
