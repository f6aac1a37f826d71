// internal/display/modbus/panel.go
package modbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/iot-monitor/internal/status"
)

// registerWriter is the subset of modbus.Client the panel uses.
type registerWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Panel renders pages on a Modbus HMI panel by writing the device status
// block into its holding registers. The panel firmware draws the page named
// in SlotPage from the other slots.
type Panel struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  registerWriter

	base       uint16
	deviceName string

	needFull bool
	last     []uint16
}

type Config struct {
	Endpoint   string
	SlaveID    uint8
	BaseAddr   uint16
	DeviceName string
	Timeout    time.Duration
}

// New prepares a panel client. The TCP connection is opened lazily on the
// first write and re-opened by the handler after a failure.
func New(cfg Config) (*Panel, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("display modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.SlaveID

	return &Panel{
		handler:    h,
		client:     modbus.NewClient(h),
		base:       cfg.BaseAddr,
		deviceName: cfg.DeviceName,
		needFull:   true, // full block on first write
	}, nil
}

func (p *Panel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handler == nil {
		return nil
	}
	return p.handler.Close()
}

// RenderPage writes the block for page.
// The first write, and the first after any failure, re-asserts the full
// block; otherwise only the changed register span is written.
func (p *Panel) RenderPage(ctx context.Context, page int, s status.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s.Page = page
	regs := status.Encode(s, p.deviceName)

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if p.needFull || len(p.last) != len(regs) {
		if err := p.write(p.base, regs); err != nil {
			p.needFull = true
			return fmt.Errorf("display modbus: full block write failed: %w", err)
		}
		p.needFull = false
		p.last = regs
		return nil
	}

	first, last, changed := diffSpan(p.last, regs)
	if !changed {
		return nil
	}

	if err := p.write(p.base+uint16(first), regs[first:last+1]); err != nil {
		// Any failure introduces doubt — re-assert on next render.
		p.needFull = true
		return fmt.Errorf("display modbus: slots %d-%d write failed: %w", first, last, err)
	}

	p.last = regs
	return nil
}

func (p *Panel) write(addr uint16, regs []uint16) error {
	_, err := p.client.WriteMultipleRegisters(addr, uint16(len(regs)), packRegisters(regs))
	return err
}

// diffSpan returns the inclusive index range covering every changed register.
func diffSpan(prev, next []uint16) (first, last int, changed bool) {
	first = -1
	for i := range next {
		if prev[i] != next[i] {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last, first >= 0
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
