// internal/status/snapshot.go
package status

// Snapshot is what the display and the telemetry status fields show.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Page            int
	TemperatureC    float64
	SensorOK        bool
	Alert           bool
	Link            uint16
	LastErrorCode   uint16
	MessagesSent    uint64
	SecondsLinkDown uint64
}
