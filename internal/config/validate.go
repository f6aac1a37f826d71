// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// maxBlockingCallsPerTick is the number of bounded driver calls one tick can
// make in the worst case: sensor read, reconnect, send, render.
const maxBlockingCallsPerTick = 4

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	if err := validateDevice(cfg.Device); err != nil {
		return err
	}
	if err := validateSensor(cfg.Sensor); err != nil {
		return err
	}
	if err := validateDisplay(cfg.Display); err != nil {
		return err
	}
	if err := validateLink(cfg.Link); err != nil {
		return err
	}

	switch kind(cfg.Telemetry.Encoding) {
	case EncodingJSON, EncodingCBOR:
	default:
		return fmt.Errorf("telemetry: unknown encoding %q", cfg.Telemetry.Encoding)
	}

	switch kind(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}
	switch kind(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log: unknown format %q", cfg.Log.Format)
	}

	return nil
}

func validateDevice(d DeviceConfig) error {
	// ------------------------------------------------------------
	// INTERVALS
	// ------------------------------------------------------------

	intervals := []struct {
		name string
		v    uint64
	}{
		{"telemetry_interval_ms", d.TelemetryIntervalMs},
		{"display_interval_ms", d.DisplayIntervalMs},
		{"wifi_retry_delay_ms", d.WifiRetryDelayMs},
		{"watchdog_interval_ms", d.WatchdogIntervalMs},
		{"tick_ms", d.TickMs},
		{"driver_timeout_ms", d.DriverTimeoutMs},
	}
	for _, iv := range intervals {
		if iv.v == 0 {
			return fmt.Errorf("device: %s must be > 0", iv.name)
		}
	}

	if d.MaxMessageLen <= 0 {
		return fmt.Errorf("device: max_message_len must be > 0, got %d", d.MaxMessageLen)
	}
	if d.TotalPages < 1 {
		return fmt.Errorf("device: total_pages must be >= 1, got %d", d.TotalPages)
	}

	// ------------------------------------------------------------
	// WATCHDOG BUDGET
	// ------------------------------------------------------------

	// A single tick must never outlive the watchdog, otherwise a slow but
	// healthy driver would reset the device.
	if d.DriverTimeoutMs >= d.WatchdogIntervalMs {
		return fmt.Errorf(
			"device: driver_timeout_ms (%d) must be < watchdog_interval_ms (%d)",
			d.DriverTimeoutMs,
			d.WatchdogIntervalMs,
		)
	}
	worst := d.TickMs + maxBlockingCallsPerTick*d.DriverTimeoutMs
	if worst >= d.WatchdogIntervalMs {
		return fmt.Errorf(
			"device: worst-case tick %dms (tick_ms + %d*driver_timeout_ms) must be < watchdog_interval_ms (%d)",
			worst,
			maxBlockingCallsPerTick,
			d.WatchdogIntervalMs,
		)
	}

	// ------------------------------------------------------------
	// IDENTITY
	// ------------------------------------------------------------

	if d.DeviceID == "" {
		return errors.New("device: device_id required")
	}
	for i := 0; i < len(d.DeviceID); i++ {
		if d.DeviceID[i] < 0x20 || d.DeviceID[i] > 0x7E {
			return fmt.Errorf("device: device_id %q must contain printable ASCII only", d.DeviceID)
		}
	}

	return nil
}

func validateSensor(s SensorConfig) error {
	if kind(s.Kind) != SensorModbus {
		return fmt.Errorf("sensor: unknown kind %q", s.Kind)
	}
	if s.Endpoint == "" {
		return errors.New("sensor: endpoint required")
	}
	if s.Scale == 0 {
		return errors.New("sensor: scale must be non-zero")
	}
	if IsSerialEndpoint(s.Endpoint) && s.BaudRate <= 0 {
		return fmt.Errorf("sensor: baud_rate must be > 0 for serial endpoint %s", s.Endpoint)
	}
	return nil
}

func validateDisplay(d DisplayConfig) error {
	switch kind(d.Kind) {
	case DisplayLog:
		return nil
	case DisplayModbus:
		if d.Endpoint == "" {
			return errors.New("display: endpoint required for modbus panel")
		}
		return nil
	default:
		return fmt.Errorf("display: unknown kind %q", d.Kind)
	}
}

func validateLink(l LinkConfig) error {
	if l.Endpoint == "" {
		return errors.New("link: endpoint required")
	}

	switch kind(l.Kind) {
	case LinkTCP:
		if strings.Contains(l.Endpoint, "://") {
			return fmt.Errorf("link: tcp endpoint must be host:port, got %q", l.Endpoint)
		}
	case LinkWS:
		if !strings.HasPrefix(l.Endpoint, "ws://") && !strings.HasPrefix(l.Endpoint, "wss://") {
			return fmt.Errorf("link: ws endpoint must start with ws:// or wss://, got %q", l.Endpoint)
		}
	default:
		return fmt.Errorf("link: unknown kind %q", l.Kind)
	}
	return nil
}

func kind(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsSerialEndpoint reports whether a sensor endpoint names a serial device
// rather than a TCP address.
func IsSerialEndpoint(endpoint string) bool {
	return strings.HasPrefix(endpoint, "/") || strings.HasPrefix(strings.ToUpper(endpoint), "COM")
}
