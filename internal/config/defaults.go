// internal/config/defaults.go
package config

// Device tunables.
// These are the build-time values; a config file may override them at
// startup only.
const (
	DefaultTelemetryIntervalMs uint64  = 30000
	DefaultDisplayIntervalMs   uint64  = 5000
	DefaultMaxMessageLen               = 256
	DefaultAlertThresholdC     float64 = 30
	DefaultWifiRetryDelayMs    uint64  = 10000
	DefaultTotalPages                  = 2
	DefaultWatchdogIntervalMs  uint64  = 30000

	DefaultTickMs          uint64 = 100
	DefaultDriverTimeoutMs uint64 = 5000
)

const (
	DefaultDeviceID = "devkit"

	// Loopback endpoints let the binary start without a config file: a
	// local Modbus gateway for the sensor and a local ingest relay.
	DefaultSensorEndpoint = "127.0.0.1:502"
	DefaultLinkEndpoint   = "127.0.0.1:7000"

	DefaultSensorRegister uint16  = 0
	DefaultSensorScale    float64 = 0.1
	DefaultSensorBaudRate         = 9600
	DefaultSensorSlaveID  uint8   = 1

	DefaultDisplayKind = DisplayLog
	DefaultLinkKind    = LinkTCP
	DefaultEncoding    = EncodingJSON

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Driver kinds and encodings.
const (
	SensorModbus = "modbus"

	DisplayLog    = "log"
	DisplayModbus = "modbus"

	LinkTCP = "tcp"
	LinkWS  = "ws"

	EncodingJSON = "json"
	EncodingCBOR = "cbor"
)

// DeviceIDMaxChars bounds the device id carried in every telemetry message.
const DeviceIDMaxChars = 32

// Default returns the configuration built from the constants above.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			TelemetryIntervalMs: DefaultTelemetryIntervalMs,
			DisplayIntervalMs:   DefaultDisplayIntervalMs,
			MaxMessageLen:       DefaultMaxMessageLen,
			AlertThresholdC:     DefaultAlertThresholdC,
			WifiRetryDelayMs:    DefaultWifiRetryDelayMs,
			TotalPages:          DefaultTotalPages,
			WatchdogIntervalMs:  DefaultWatchdogIntervalMs,
			TickMs:              DefaultTickMs,
			DriverTimeoutMs:     DefaultDriverTimeoutMs,
			DeviceID:            DefaultDeviceID,
		},
		Sensor: SensorConfig{
			Kind:     SensorModbus,
			Endpoint: DefaultSensorEndpoint,
			BaudRate: DefaultSensorBaudRate,
			SlaveID:  DefaultSensorSlaveID,
			Register: DefaultSensorRegister,
			Scale:    DefaultSensorScale,
		},
		Display: DisplayConfig{
			Kind: DefaultDisplayKind,
		},
		Link: LinkConfig{
			Kind:     DefaultLinkKind,
			Endpoint: DefaultLinkEndpoint,
		},
		Telemetry: TelemetryConfig{
			Encoding: DefaultEncoding,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
