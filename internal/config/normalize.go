// internal/config/normalize.go
package config

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// Kinds are matched case-insensitively by Validate.
	cfg.Sensor.Kind = kind(cfg.Sensor.Kind)
	cfg.Display.Kind = kind(cfg.Display.Kind)
	cfg.Link.Kind = kind(cfg.Link.Kind)
	cfg.Telemetry.Encoding = kind(cfg.Telemetry.Encoding)
	cfg.Log.Level = kind(cfg.Log.Level)
	cfg.Log.Format = kind(cfg.Log.Format)

	// Normalize device_id:
	// - ASCII already validated
	// - Truncate to DeviceIDMaxChars
	if len(cfg.Device.DeviceID) > DeviceIDMaxChars {
		cfg.Device.DeviceID = cfg.Device.DeviceID[:DeviceIDMaxChars]
	}

	// Slot math and message encoding belong to later stages.
}
