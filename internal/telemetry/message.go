// internal/telemetry/message.go
package telemetry

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/tamzrod/iot-monitor/internal/fault"
)

// Body is the telemetry document sent to the backend.
type Body struct {
	DeviceID         string   `json:"deviceId" cbor:"deviceId"`
	BootID           string   `json:"bootId" cbor:"bootId"`
	MessageID        uint64   `json:"messageId" cbor:"messageId"`
	Temperature      *float64 `json:"temperature,omitempty" cbor:"temperature,omitempty"`
	TemperatureAlert bool     `json:"temperatureAlert" cbor:"temperatureAlert"`
	SensorOK         bool     `json:"sensorOk" cbor:"sensorOk"`
}

// Message is an encoded body whose length never exceeds the limit it was
// built against. It lives for one send attempt.
type Message struct {
	b []byte
}

// NewMessage is the length-checked constructor.
// Payloads longer than maxLen are rejected, never truncated.
func NewMessage(payload []byte, maxLen int) (Message, error) {
	if len(payload) > maxLen {
		return Message{}, fault.Wrap(
			fault.MessageTooLong,
			"telemetry.build",
			fmt.Errorf("%d bytes exceeds limit %d", len(payload), maxLen),
		)
	}
	return Message{b: payload}, nil
}

func (m Message) Bytes() []byte { return m.b }
func (m Message) Len() int      { return len(m.b) }

// Encoder turns a Body into wire bytes.
type Encoder interface {
	Encode(b Body) ([]byte, error)
	Binary() bool
}

// NewEncoder returns the encoder for "json" or "cbor".
func NewEncoder(name string) (Encoder, error) {
	switch name {
	case "json":
		return jsonEncoder{}, nil
	case "cbor":
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return nil, fmt.Errorf("telemetry: cbor mode: %w", err)
		}
		return cborEncoder{em: em}, nil
	default:
		return nil, fmt.Errorf("telemetry: unknown encoding %q", name)
	}
}

type jsonEncoder struct{}

func (jsonEncoder) Encode(b Body) ([]byte, error) { return json.Marshal(b) }
func (jsonEncoder) Binary() bool                  { return false }

// cborEncoder uses core deterministic encoding so equal bodies always
// produce equal bytes, and equal lengths.
type cborEncoder struct {
	em cbor.EncMode
}

func (e cborEncoder) Encode(b Body) ([]byte, error) { return e.em.Marshal(b) }
func (cborEncoder) Binary() bool                    { return true }

// roundTenth keeps one decimal, as the display shows it.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
