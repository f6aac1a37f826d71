// internal/supervisor/loop.go
package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tamzrod/iot-monitor/internal/alert"
	"github.com/tamzrod/iot-monitor/internal/clock"
	"github.com/tamzrod/iot-monitor/internal/config"
	"github.com/tamzrod/iot-monitor/internal/display"
	"github.com/tamzrod/iot-monitor/internal/fault"
	"github.com/tamzrod/iot-monitor/internal/link"
	"github.com/tamzrod/iot-monitor/internal/sensor"
	"github.com/tamzrod/iot-monitor/internal/status"
	"github.com/tamzrod/iot-monitor/internal/telemetry"
	"github.com/tamzrod/iot-monitor/internal/watchdog"
)

// Deps are the external collaborators. Each is used by exactly one component.
type Deps struct {
	Clock     clock.Clock
	Sensor    sensor.Reader
	Display   display.Driver
	Transport link.Transport
	Encoder   telemetry.Encoder
	BootID    string
	Log       *slog.Logger
}

// LoopState is a copy of the loop-owned state.
type LoopState struct {
	LastTelemetryTick uint64
	LastDisplayTick   uint64
	LastWatchdogTick  uint64
	CurrentPage       int
	Link              link.State
	AlertActive       bool
}

// Loop is the single-threaded supervisory loop.
// Every component it holds is owned by it alone; no locks are taken.
type Loop struct {
	cfg     config.DeviceConfig
	clk     clock.Clock
	sensor  sensor.Reader
	display display.Driver
	log     *slog.Logger
	timeout time.Duration

	wd    *watchdog.Watchdog
	link  *link.Manager
	pub   *telemetry.Publisher
	pager *display.Paginator
	alert *alert.Evaluator

	reading sensor.Reading
	lastErr fault.Code
	started bool
}

// New wires the components. All timers are measured from the clock's
// current time.
func New(cfg config.DeviceConfig, d Deps) (*Loop, error) {
	if d.Clock == nil || d.Sensor == nil || d.Display == nil || d.Transport == nil || d.Encoder == nil {
		return nil, errors.New("supervisor: clock, sensor, display, transport and encoder required")
	}
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	now := d.Clock.NowMs()
	timeout := time.Duration(cfg.DriverTimeoutMs) * time.Millisecond

	lm, err := link.NewManager(link.Config{
		RetryDelayMs: cfg.WifiRetryDelayMs,
		Timeout:      timeout,
	}, d.Transport, log)
	if err != nil {
		return nil, err
	}

	pub, err := telemetry.NewPublisher(telemetry.Config{
		IntervalMs:    cfg.TelemetryIntervalMs,
		MaxMessageLen: cfg.MaxMessageLen,
		DeviceID:      cfg.DeviceID,
		BootID:        d.BootID,
	}, d.Encoder, lm, now, log)
	if err != nil {
		return nil, err
	}

	pager, err := display.NewPaginator(cfg.DisplayIntervalMs, cfg.TotalPages, now)
	if err != nil {
		return nil, err
	}

	return &Loop{
		cfg:     cfg,
		clk:     d.Clock,
		sensor:  d.Sensor,
		display: d.Display,
		log:     log.With("component", "supervisor"),
		timeout: timeout,
		wd:      watchdog.New(cfg.WatchdogIntervalMs, now),
		link:    lm,
		pub:     pub,
		pager:   pager,
		alert:   alert.NewEvaluator(cfg.AlertThresholdC),
		lastErr: fault.OK,
	}, nil
}

// Watchdog exposes the watchdog for the hardware-style guard goroutine.
func (l *Loop) Watchdog() *watchdog.Watchdog { return l.wd }

// State returns a copy of the loop state.
func (l *Loop) State() LoopState {
	return LoopState{
		LastTelemetryTick: l.pub.LastTick(),
		LastDisplayTick:   l.pager.LastTick(),
		LastWatchdogTick:  l.wd.LastFeed(),
		CurrentPage:       l.pager.Page(),
		Link:              l.link.State(),
		AlertActive:       l.alert.Active(),
	}
}

// Stats returns the link and telemetry counters.
func (l *Loop) Stats() (link.Stats, telemetry.Stats) {
	return l.link.Stats(), l.pub.Stats()
}

// Start connects the link and renders the first page.
// Tick calls it on first use.
func (l *Loop) Start(ctx context.Context) {
	if l.started {
		return
	}
	l.started = true

	now := l.clk.NowMs()
	l.wd.Feed(now)
	l.link.Start(ctx, now)
	l.render(ctx, now, l.pager.Page())

	l.log.Info("supervisor started",
		"device_id", l.cfg.DeviceID,
		"link", l.link.State(),
		"telemetry_interval_ms", l.cfg.TelemetryIntervalMs,
		"display_interval_ms", l.cfg.DisplayIntervalMs,
		"watchdog_interval_ms", l.cfg.WatchdogIntervalMs,
	)
}

// Tick runs one pass of the loop body in fixed order:
// watchdog, sensor, alert, reconnect, publish, display.
// Recovered faults are logged; only a fatal fault is returned.
func (l *Loop) Tick(ctx context.Context) error {
	l.Start(ctx)

	now := l.clk.NowMs()
	tickErr := fault.OK

	// (0) stall check: the gap since the previous feed is the last tick's length
	if err := l.wd.Check(now); err != nil {
		l.lastErr = fault.WatchdogStall
		l.log.Error("watchdog stall", "err", err)
		return err
	}

	// (1) liveness first, so no later failure can skip it
	l.wd.Feed(now)

	// (2) sensor
	r, err := sensor.Read(ctx, l.sensor, l.timeout)
	l.reading = r
	if err != nil {
		tickErr = fault.Of(err)
		l.log.Warn("sensor read failed", "err", err)
	}

	// (3) alert, skipped when the sensor is unavailable
	if r.OK {
		if ev, ok := l.alert.Evaluate(r.Celsius); ok {
			l.log.Warn("temperature alert", "event", ev.Kind, "value_c", ev.Value, "threshold_c", ev.Threshold)
		}
	}

	// (4) reconnect when due
	if l.link.State() == link.Retrying {
		if _, err := l.link.MaybeReconnect(ctx, now); err != nil {
			tickErr = fault.Of(err)
		}
	}

	// (5) publish when connected and due
	if l.link.State() == link.Connected && l.pub.Due(now) {
		if _, err := l.pub.Publish(ctx, now, l.reading, l.alert.Active()); err != nil {
			tickErr = fault.Of(err)
		}
	}

	l.lastErr = tickErr

	// (6) display
	if page, fired := l.pager.Advance(now); fired {
		l.render(ctx, now, page)
	}

	return nil
}

// Run drives Tick at the scheduling quantum until ctx is cancelled or a
// fatal fault occurs. A nil return means a clean shutdown.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(l.cfg.TickMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info("supervisor stopping")
			return nil
		default:
		}

		if err := l.Tick(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			l.log.Info("supervisor stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// Close releases the link transport.
func (l *Loop) Close() error {
	return l.link.Close()
}

// Snapshot is what the display and status fields show at now.
func (l *Loop) Snapshot(now uint64) status.Snapshot {
	s := status.Snapshot{
		Page:            l.pager.Page(),
		SensorOK:        l.reading.OK,
		TemperatureC:    l.reading.Celsius,
		Alert:           l.alert.Active(),
		LastErrorCode:   l.lastErr.Register(),
		MessagesSent:    l.pub.Sequence(),
		SecondsLinkDown: l.link.DownFor(now) / 1000,
	}

	switch l.link.State() {
	case link.Connected:
		s.Link = status.LinkConnected
	case link.Retrying:
		s.Link = status.LinkRetrying
	}
	return s
}

// render is fire-and-forget: errors are logged only.
func (l *Loop) render(ctx context.Context, now uint64, page int) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := l.display.RenderPage(ctx, page, l.Snapshot(now)); err != nil {
		l.log.Warn("display render failed", "page", page, "err", err)
	}
}
