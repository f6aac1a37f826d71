// internal/sensor/modbus/reader.go
package modbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// inputReader is the subset of modbus.Client the sensor uses.
type inputReader interface {
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
}

// handler is implemented by both the TCP and RTU client handlers.
type handler interface {
	modbus.ClientHandler
	Close() error
}

// Reader implements sensor.Reader against a Modbus temperature transmitter.
// The transmitter exposes the temperature as one signed input register.
type Reader struct {
	mu      sync.Mutex
	handler handler
	client  inputReader

	register uint16
	scale    float64
}

type Config struct {
	// Endpoint is host:port for Modbus TCP or a serial device for RTU.
	Endpoint string
	Serial   bool
	BaudRate int

	SlaveID  uint8
	Register uint16
	Scale    float64
	Timeout  time.Duration
}

// New builds the client. Connections are opened lazily by the handler on the
// first read, so a missing sensor at boot is a recovered per-tick failure.
func New(cfg Config) (*Reader, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("sensor modbus: endpoint required")
	}
	if cfg.Scale == 0 {
		return nil, errors.New("sensor modbus: scale must be non-zero")
	}

	var h handler
	if cfg.Serial {
		rtu := modbus.NewRTUClientHandler(cfg.Endpoint)
		rtu.BaudRate = cfg.BaudRate
		rtu.DataBits = 8
		rtu.Parity = "N"
		rtu.StopBits = 1
		rtu.SlaveId = cfg.SlaveID
		rtu.Timeout = cfg.Timeout
		h = rtu
	} else {
		tcp := modbus.NewTCPClientHandler(cfg.Endpoint)
		tcp.SlaveId = cfg.SlaveID
		tcp.Timeout = cfg.Timeout
		h = tcp
	}

	return &Reader{
		handler:  h,
		client:   modbus.NewClient(h),
		register: cfg.Register,
		scale:    cfg.Scale,
	}, nil
}

func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handler == nil {
		return nil
	}
	return r.handler.Close()
}

// ReadTemperatureC reads one register and scales it.
// The handler timeout bounds the call; ctx is checked before the request.
func (r *Reader) ReadTemperatureC(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.client.ReadInputRegisters(r.register, 1)
	if err != nil {
		return 0, err
	}
	return decode(raw, r.scale)
}

// decode interprets a read-registers payload as one big-endian int16.
func decode(raw []byte, scale float64) (float64, error) {
	if len(raw) < 2 {
		return 0, fmt.Errorf("sensor modbus: short payload (%d bytes)", len(raw))
	}
	v := int16(uint16(raw[0])<<8 | uint16(raw[1]))
	return float64(v) * scale, nil
}
