// internal/sensor/sensor.go
package sensor

import (
	"context"
	"math"
	"time"

	"github.com/tamzrod/iot-monitor/internal/fault"
)

// Reader abstracts the temperature sensor driver.
type Reader interface {
	ReadTemperatureC(ctx context.Context) (float64, error)
}

// Reading is one sensor sample as seen by the loop.
// OK is false when the driver failed; Celsius is then meaningless.
type Reading struct {
	Celsius float64
	OK      bool
}

// Read performs one bounded read and classifies any failure as
// SensorUnavailable. A NaN or infinite value is a failure too.
func Read(ctx context.Context, r Reader, timeout time.Duration) (Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := r.ReadTemperatureC(ctx)
	if err != nil {
		return Reading{}, fault.Wrap(fault.SensorUnavailable, "sensor.read", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Reading{}, &fault.E{C: fault.SensorUnavailable, Op: "sensor.read"}
	}
	return Reading{Celsius: v, OK: true}, nil
}
