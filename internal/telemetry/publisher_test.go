package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/iot-monitor/internal/clock"
	"github.com/tamzrod/iot-monitor/internal/fault"
	"github.com/tamzrod/iot-monitor/internal/sensor"
)

// ---- fake sender ----

type fakeSender struct {
	down bool
	sent [][]byte
	at   []uint64
}

func (f *fakeSender) TrySend(ctx context.Context, now uint64, b []byte) error {
	if f.down {
		return &fault.E{C: fault.LinkDown, Op: "link.send"}
	}
	f.sent = append(f.sent, b)
	f.at = append(f.at, now)
	return nil
}

func newPublisher(t *testing.T, s Sender, cfg Config) *Publisher {
	t.Helper()
	if cfg.IntervalMs == 0 {
		cfg.IntervalMs = 30000
	}
	if cfg.MaxMessageLen == 0 {
		cfg.MaxMessageLen = 256
	}
	if cfg.DeviceID == "" {
		cfg.DeviceID = "devkit"
	}
	enc, err := NewEncoder("json")
	require.NoError(t, err)

	p, err := NewPublisher(cfg, enc, s, 0, nil)
	require.NoError(t, err)
	return p
}

var reading = sensor.Reading{Celsius: 24.26, OK: true}

// ---- tests ----

func TestPublish_SpacedByIntervalUnderSimulatedClock(t *testing.T) {
	s := &fakeSender{}
	p := newPublisher(t, s, Config{})
	clk := clock.NewManual(0)

	for clk.NowMs() < 200000 {
		clk.Advance(100)
		_, err := p.Publish(context.Background(), clk.NowMs(), reading, false)
		require.NoError(t, err)
	}

	require.Len(t, s.at, 6)
	assert.GreaterOrEqual(t, s.at[0], uint64(30000))
	for i := 1; i < len(s.at); i++ {
		assert.GreaterOrEqual(t, s.at[i]-s.at[i-1], uint64(30000))
	}
	assert.Equal(t, uint64(6), p.Sequence())
}

func TestPublish_LinkDownDoesNotAdvanceLastTick(t *testing.T) {
	s := &fakeSender{down: true}
	p := newPublisher(t, s, Config{})

	// two consecutive due-ticks with the link down
	for _, now := range []uint64{30000, 30100} {
		sent, err := p.Publish(context.Background(), now, reading, false)
		assert.False(t, sent)
		assert.True(t, errors.Is(err, fault.LinkDown))
		assert.Equal(t, uint64(0), p.LastTick())
	}

	// link back: the very next tick publishes, no interval wasted
	s.down = false
	sent, err := p.Publish(context.Background(), 30200, reading, false)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, uint64(30200), p.LastTick())
	assert.Equal(t, Stats{Published: 1, Deferred: 2}, p.Stats())

	// the deferred attempts did not burn message ids
	var body Body
	require.NoError(t, json.Unmarshal(s.sent[0], &body))
	assert.Equal(t, uint64(1), body.MessageID)
}

func TestPublish_NotDueDoesNothing(t *testing.T) {
	s := &fakeSender{}
	p := newPublisher(t, s, Config{})

	sent, err := p.Publish(context.Background(), 29999, reading, false)
	assert.False(t, sent)
	assert.NoError(t, err)
	assert.Empty(t, s.sent)
}

func TestPublish_TooLongIsDroppedAndConsumesInterval(t *testing.T) {
	s := &fakeSender{}
	p := newPublisher(t, s, Config{DeviceID: strings.Repeat("d", 300)})

	sent, err := p.Publish(context.Background(), 30000, reading, true)
	assert.False(t, sent)
	assert.Equal(t, fault.MessageTooLong, fault.Of(err))
	assert.Empty(t, s.sent)
	assert.Equal(t, uint64(30000), p.LastTick())
	assert.Equal(t, uint64(0), p.Sequence())
	assert.Equal(t, uint64(1), p.Stats().Dropped)
	assert.Equal(t, uint64(0), p.Stats().Published)

	// not retried on the next tick
	sent, err = p.Publish(context.Background(), 30100, reading, true)
	assert.False(t, sent)
	assert.NoError(t, err)
}

func TestPublish_BodyReflectsReadingAndAlert(t *testing.T) {
	s := &fakeSender{}
	p := newPublisher(t, s, Config{BootID: "boot-1"})

	_, err := p.Publish(context.Background(), 30000, reading, true)
	require.NoError(t, err)

	var body Body
	require.NoError(t, json.Unmarshal(s.sent[0], &body))
	require.NotNil(t, body.Temperature)
	assert.InDelta(t, 24.3, *body.Temperature, 1e-9)
	assert.True(t, body.TemperatureAlert)
	assert.True(t, body.SensorOK)
	assert.Equal(t, "boot-1", body.BootID)
	assert.LessOrEqual(t, len(s.sent[0]), 256)
}

func TestPublish_SensorUnavailableOmitsTemperature(t *testing.T) {
	s := &fakeSender{}
	p := newPublisher(t, s, Config{})

	_, err := p.Publish(context.Background(), 30000, sensor.Reading{}, false)
	require.NoError(t, err)

	var body Body
	require.NoError(t, json.Unmarshal(s.sent[0], &body))
	assert.Nil(t, body.Temperature)
	assert.False(t, body.SensorOK)
}

func TestNewPublisher_Validation(t *testing.T) {
	enc, _ := NewEncoder("json")
	_, err := NewPublisher(Config{MaxMessageLen: 1}, enc, &fakeSender{}, 0, nil)
	assert.Error(t, err)
	_, err = NewPublisher(Config{IntervalMs: 1}, enc, &fakeSender{}, 0, nil)
	assert.Error(t, err)
	_, err = NewPublisher(Config{IntervalMs: 1, MaxMessageLen: 1}, nil, &fakeSender{}, 0, nil)
	assert.Error(t, err)
}
