// internal/link/link.go
package link

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tamzrod/iot-monitor/internal/clock"
	"github.com/tamzrod/iot-monitor/internal/fault"
)

// Transport is the network stack the link manager drives.
// Each call must honour ctx; the manager bounds every call with a timeout.
type Transport interface {
	Connect(ctx context.Context) error
	Send(ctx context.Context, b []byte) error
	Close() error
}

// State is the link state. Exactly one holds at any time.
type State uint8

const (
	Connected State = iota
	Retrying
)

func (s State) String() string {
	switch s {
	case Connected:
		return "CONNECTED"
	case Retrying:
		return "RETRYING"
	default:
		return "UNKNOWN"
	}
}

// Stats are monotonically increasing counters.
type Stats struct {
	Sends             uint64
	SendFailures      uint64
	ReconnectAttempts uint64
	Reconnects        uint64
}

// Manager owns the connection and its retry timing.
// Single owner; not safe for concurrent use.
type Manager struct {
	tr         Transport
	retryDelay uint64
	timeout    time.Duration
	log        *slog.Logger

	state     State
	lastRetry uint64
	downSince uint64
	stats     Stats
}

type Config struct {
	RetryDelayMs uint64
	Timeout      time.Duration
}

func NewManager(cfg Config, tr Transport, log *slog.Logger) (*Manager, error) {
	if tr == nil {
		return nil, errors.New("link: transport required")
	}
	if cfg.RetryDelayMs == 0 {
		return nil, errors.New("link: retry delay must be > 0")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("link: timeout must be > 0")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Manager{
		tr:         tr,
		retryDelay: cfg.RetryDelayMs,
		timeout:    cfg.Timeout,
		log:        log.With("component", "link"),
		state:      Retrying,
	}, nil
}

// Start makes the initial connect attempt. On failure the link stays
// Retrying and the first reconnect is due one retry delay after now.
func (m *Manager) Start(ctx context.Context, now uint64) State {
	m.lastRetry = now
	m.downSince = now

	if err := m.connect(ctx); err != nil {
		m.log.Warn("initial connect failed", "err", err, "retry_in_ms", m.retryDelay)
		return m.state
	}

	m.state = Connected
	m.log.Info("link up")
	return m.state
}

func (m *Manager) State() State { return m.state }
func (m *Manager) Stats() Stats { return m.stats }

// DownFor returns how long the link has been Retrying, or 0 when Connected.
func (m *Manager) DownFor(now uint64) uint64 {
	if m.state == Connected {
		return 0
	}
	return clock.Elapsed(now, m.downSince)
}

// ReconnectDue reports whether a reconnect attempt is allowed at now.
func (m *Manager) ReconnectDue(now uint64) bool {
	return m.state == Retrying && clock.Due(now, m.lastRetry, m.retryDelay)
}

// TrySend transmits b. It returns LinkDown without touching the transport
// while Retrying; any send failure moves the link to Retrying.
func (m *Manager) TrySend(ctx context.Context, now uint64, b []byte) error {
	if m.state != Connected {
		return &fault.E{C: fault.LinkDown, Op: "link.send"}
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.tr.Send(ctx, b); err != nil {
		m.stats.SendFailures++
		m.markDown(now, err)
		return fault.Wrap(fault.LinkDown, "link.send", err)
	}

	m.stats.Sends++
	return nil
}

// MaybeReconnect attempts one reconnect when Retrying and due.
// attempted reports whether the transport was touched.
func (m *Manager) MaybeReconnect(ctx context.Context, now uint64) (attempted bool, err error) {
	if !m.ReconnectDue(now) {
		return false, nil
	}

	m.lastRetry = now
	m.stats.ReconnectAttempts++

	if err := m.connect(ctx); err != nil {
		m.log.Warn("reconnect failed",
			"err", err,
			"attempt", m.stats.ReconnectAttempts,
			"down_ms", clock.Elapsed(now, m.downSince),
		)
		return true, fault.Wrap(fault.LinkDown, "link.reconnect", err)
	}

	m.state = Connected
	m.stats.Reconnects++
	m.log.Info("link up", "down_ms", clock.Elapsed(now, m.downSince))
	return true, nil
}

// Close releases the transport.
func (m *Manager) Close() error {
	return m.tr.Close()
}

func (m *Manager) connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	// Drop whatever is left of the previous connection first.
	_ = m.tr.Close()
	return m.tr.Connect(ctx)
}

func (m *Manager) markDown(now uint64, cause error) {
	if m.state == Retrying {
		return
	}
	m.state = Retrying
	m.lastRetry = now
	m.downSince = now
	m.log.Warn("link down", "err", cause, "retry_in_ms", m.retryDelay)
}
