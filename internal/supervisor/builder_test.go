package supervisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/iot-monitor/internal/clock"
	"github.com/tamzrod/iot-monitor/internal/config"
)

func buildConfig() *config.Config {
	cfg := config.Default()
	cfg.Sensor.Endpoint = "127.0.0.1:1502"
	cfg.Link.Endpoint = "127.0.0.1:17000"
	return &cfg
}

func TestBuild_DefaultDrivers(t *testing.T) {
	cfg := buildConfig()
	require.NoError(t, config.Validate(cfg))
	config.Normalize(cfg)

	loop, closeAll, err := Build(cfg, clock.NewManual(0), nil)
	require.NoError(t, err)
	require.NotNil(t, loop)
	assert.NoError(t, closeAll())
}

func TestBuild_AlternateDrivers(t *testing.T) {
	cfg := buildConfig()
	cfg.Sensor.Endpoint = "/dev/ttyUSB0"
	cfg.Display.Kind = config.DisplayModbus
	cfg.Display.Endpoint = "127.0.0.1:1503"
	cfg.Link.Kind = config.LinkWS
	cfg.Link.Endpoint = "ws://127.0.0.1:17001/telemetry"
	cfg.Telemetry.Encoding = config.EncodingCBOR
	require.NoError(t, config.Validate(cfg))
	config.Normalize(cfg)

	loop, closeAll, err := Build(cfg, clock.NewManual(0), nil)
	require.NoError(t, err)
	require.NotNil(t, loop)
	assert.NoError(t, closeAll())
}

func TestBuild_UnknownKind(t *testing.T) {
	cfg := buildConfig()
	cfg.Link.Kind = "carrier-pigeon"

	_, _, err := Build(cfg, clock.NewManual(0), nil)
	assert.Error(t, err)
}
