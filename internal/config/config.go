// internal/config/config.go
package config

type Config struct {
	Device    DeviceConfig    `yaml:"device" toml:"device"`
	Sensor    SensorConfig    `yaml:"sensor" toml:"sensor"`
	Display   DisplayConfig   `yaml:"display" toml:"display"`
	Link      LinkConfig      `yaml:"link" toml:"link"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
	Log       LogConfig       `yaml:"log" toml:"log"`
}

// ---- DEVICE ----

// DeviceConfig holds the device tunables.
// Built once at startup and passed by value; nothing mutates it afterwards.
type DeviceConfig struct {
	TelemetryIntervalMs uint64  `yaml:"telemetry_interval_ms" toml:"telemetry_interval_ms"`
	DisplayIntervalMs   uint64  `yaml:"display_interval_ms" toml:"display_interval_ms"`
	MaxMessageLen       int     `yaml:"max_message_len" toml:"max_message_len"`
	AlertThresholdC     float64 `yaml:"alert_threshold_c" toml:"alert_threshold_c"`
	WifiRetryDelayMs    uint64  `yaml:"wifi_retry_delay_ms" toml:"wifi_retry_delay_ms"`
	TotalPages          int     `yaml:"total_pages" toml:"total_pages"`
	WatchdogIntervalMs  uint64  `yaml:"watchdog_interval_ms" toml:"watchdog_interval_ms"`

	// Scheduling quantum of the supervisory loop.
	TickMs uint64 `yaml:"tick_ms" toml:"tick_ms"`

	// Upper bound for any single blocking driver call.
	// Must stay below WatchdogIntervalMs.
	DriverTimeoutMs uint64 `yaml:"driver_timeout_ms" toml:"driver_timeout_ms"`

	DeviceID string `yaml:"device_id" toml:"device_id"`
}

// ---- SENSOR ----

type SensorConfig struct {
	Kind string `yaml:"kind" toml:"kind"` // "modbus"

	// Endpoint is "host:port" for Modbus TCP, or a serial device path
	// (e.g. /dev/ttyUSB0) for Modbus RTU.
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	BaudRate int    `yaml:"baud_rate" toml:"baud_rate"`
	SlaveID  uint8  `yaml:"slave_id" toml:"slave_id"`

	// Input register holding the temperature as a signed 16-bit value.
	Register uint16  `yaml:"register" toml:"register"`
	Scale    float64 `yaml:"scale" toml:"scale"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Kind string `yaml:"kind" toml:"kind"` // "log" | "modbus"

	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	SlaveID  uint8  `yaml:"slave_id" toml:"slave_id"`
	BaseAddr uint16 `yaml:"base_addr" toml:"base_addr"`
}

// ---- LINK ----

type LinkConfig struct {
	Kind string `yaml:"kind" toml:"kind"` // "tcp" | "ws"

	// Endpoint is "host:port" for tcp, a ws:// or wss:// URL for ws.
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	Encoding string `yaml:"encoding" toml:"encoding"` // "json" | "cbor"
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug | info | warn | error
	Format string `yaml:"format" toml:"format"` // text | json
}
