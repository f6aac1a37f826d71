// internal/telemetry/publisher.go
package telemetry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tamzrod/iot-monitor/internal/clock"
	"github.com/tamzrod/iot-monitor/internal/fault"
	"github.com/tamzrod/iot-monitor/internal/sensor"
)

// Sender delivers encoded bytes. link.Manager implements it.
type Sender interface {
	TrySend(ctx context.Context, now uint64, b []byte) error
}

// Stats count publish outcomes.
type Stats struct {
	Published uint64
	Dropped   uint64 // rejected before sending, e.g. too long
	Deferred  uint64 // link down; retried on the next eligible tick
}

type Config struct {
	IntervalMs    uint64
	MaxMessageLen int
	DeviceID      string
	BootID        string
}

// Publisher sends one status message per interval.
// Single owner; not safe for concurrent use.
type Publisher struct {
	cfg    Config
	enc    Encoder
	sender Sender
	log    *slog.Logger

	last  uint64
	seq   uint64
	stats Stats
}

// NewPublisher measures the first interval from now.
func NewPublisher(cfg Config, enc Encoder, sender Sender, now uint64, log *slog.Logger) (*Publisher, error) {
	if cfg.IntervalMs == 0 {
		return nil, errors.New("telemetry: interval must be > 0")
	}
	if cfg.MaxMessageLen <= 0 {
		return nil, errors.New("telemetry: max message length must be > 0")
	}
	if enc == nil || sender == nil {
		return nil, errors.New("telemetry: encoder and sender required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Publisher{
		cfg:    cfg,
		enc:    enc,
		sender: sender,
		log:    log.With("component", "telemetry"),
		last:   now,
	}, nil
}

func (p *Publisher) LastTick() uint64 { return p.last }
func (p *Publisher) Sequence() uint64 { return p.seq }
func (p *Publisher) Stats() Stats     { return p.stats }

// Due reports whether a publish would fire at now.
func (p *Publisher) Due(now uint64) bool {
	return clock.Due(now, p.last, p.cfg.IntervalMs)
}

// Publish sends the current reading when due.
//
// Oversized messages are rejected, never truncated. A rejected message
// leaves the sequence and the Published count untouched but consumes the
// interval, since the same reading would be rejected again on the next tick.
//
//   - not due: nothing happens.
//   - message too long: dropped and logged; the interval is consumed and the
//     sequence is not advanced.
//   - link down: nothing is consumed, so the next eligible tick tries again.
//   - sent: the interval restarts at now and the sequence advances.
func (p *Publisher) Publish(ctx context.Context, now uint64, r sensor.Reading, alertActive bool) (sent bool, err error) {
	if !p.Due(now) {
		return false, nil
	}

	msg, err := p.build(r, alertActive)
	if err != nil {
		p.last = now
		p.stats.Dropped++
		p.log.Warn("message dropped", "err", err, "code", fault.Of(err), "message_id", p.seq+1)
		return false, err
	}

	if err := p.sender.TrySend(ctx, now, msg.Bytes()); err != nil {
		p.stats.Deferred++
		p.log.Debug("publish deferred", "err", err, "message_id", p.seq+1)
		return false, err
	}

	p.seq++
	p.last = now
	p.stats.Published++
	p.log.Debug("published", "message_id", p.seq, "bytes", msg.Len(), "alert", alertActive)
	return true, nil
}

func (p *Publisher) build(r sensor.Reading, alertActive bool) (Message, error) {
	body := Body{
		DeviceID:         p.cfg.DeviceID,
		BootID:           p.cfg.BootID,
		MessageID:        p.seq + 1,
		TemperatureAlert: alertActive,
		SensorOK:         r.OK,
	}
	if r.OK {
		t := roundTenth(r.Celsius)
		body.Temperature = &t
	}

	raw, err := p.enc.Encode(body)
	if err != nil {
		return Message{}, fault.Wrap(fault.Error, "telemetry.encode", err)
	}
	return NewMessage(raw, p.cfg.MaxMessageLen)
}
