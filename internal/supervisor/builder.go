// internal/supervisor/builder.go
package supervisor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/iot-monitor/internal/clock"
	"github.com/tamzrod/iot-monitor/internal/config"
	"github.com/tamzrod/iot-monitor/internal/display"
	dmodbus "github.com/tamzrod/iot-monitor/internal/display/modbus"
	"github.com/tamzrod/iot-monitor/internal/link"
	"github.com/tamzrod/iot-monitor/internal/link/tcp"
	"github.com/tamzrod/iot-monitor/internal/link/ws"
	"github.com/tamzrod/iot-monitor/internal/sensor"
	smodbus "github.com/tamzrod/iot-monitor/internal/sensor/modbus"
	"github.com/tamzrod/iot-monitor/internal/telemetry"
)

// Build constructs the loop and its drivers from a validated, normalized
// config. No driver touches the network here; connections happen on Start
// or lazily on first use.
// The returned closer releases every driver.
func Build(cfg *config.Config, clk clock.Clock, log *slog.Logger) (*Loop, func() error, error) {
	timeout := time.Duration(cfg.Device.DriverTimeoutMs) * time.Millisecond

	var closers []func() error
	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	// ---- sensor ----
	sen, err := buildSensor(cfg, timeout)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := sen.(interface{ Close() error }); ok {
		closers = append(closers, c.Close)
	}

	// ---- display ----
	disp, err := buildDisplay(cfg, timeout, log)
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}
	if c, ok := disp.(interface{ Close() error }); ok {
		closers = append(closers, c.Close)
	}

	// ---- encoder + transport ----
	enc, err := telemetry.NewEncoder(cfg.Telemetry.Encoding)
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}

	tr, err := buildTransport(cfg, enc.Binary())
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}

	loop, err := New(cfg.Device, Deps{
		Clock:     clk,
		Sensor:    sen,
		Display:   disp,
		Transport: tr,
		Encoder:   enc,
		BootID:    uuid.NewString(),
		Log:       log,
	})
	if err != nil {
		_ = tr.Close()
		_ = closeAll()
		return nil, nil, err
	}
	closers = append(closers, loop.Close)

	return loop, closeAll, nil
}

func buildSensor(cfg *config.Config, timeout time.Duration) (sensor.Reader, error) {
	switch cfg.Sensor.Kind {
	case config.SensorModbus:
		return smodbus.New(smodbus.Config{
			Endpoint: cfg.Sensor.Endpoint,
			Serial:   config.IsSerialEndpoint(cfg.Sensor.Endpoint),
			BaudRate: cfg.Sensor.BaudRate,
			SlaveID:  cfg.Sensor.SlaveID,
			Register: cfg.Sensor.Register,
			Scale:    cfg.Sensor.Scale,
			Timeout:  timeout,
		})
	default:
		return nil, fmt.Errorf("supervisor: unknown sensor kind %q", cfg.Sensor.Kind)
	}
}

func buildDisplay(cfg *config.Config, timeout time.Duration, log *slog.Logger) (display.Driver, error) {
	switch cfg.Display.Kind {
	case config.DisplayLog:
		return display.NewLogDriver(log), nil
	case config.DisplayModbus:
		return dmodbus.New(dmodbus.Config{
			Endpoint:   cfg.Display.Endpoint,
			SlaveID:    cfg.Display.SlaveID,
			BaseAddr:   cfg.Display.BaseAddr,
			DeviceName: cfg.Device.DeviceID,
			Timeout:    timeout,
		})
	default:
		return nil, fmt.Errorf("supervisor: unknown display kind %q", cfg.Display.Kind)
	}
}

func buildTransport(cfg *config.Config, binary bool) (link.Transport, error) {
	switch cfg.Link.Kind {
	case config.LinkTCP:
		return tcp.New(tcp.Config{Endpoint: cfg.Link.Endpoint})
	case config.LinkWS:
		return ws.New(ws.Config{URL: cfg.Link.Endpoint, Binary: binary})
	default:
		return nil, fmt.Errorf("supervisor: unknown link kind %q", cfg.Link.Kind)
	}
}
