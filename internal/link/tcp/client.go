// internal/link/tcp/client.go
package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

const (
	magicHi byte = 0x54 // 'T'
	magicLo byte = 0x4D // 'M'

	versionV1 byte = 0x01

	headerLen  = 5
	maxPayload = 0xFFFF

	ackOK       byte = 0x06 // ACK
	ackRejected byte = 0x15 // NAK
)

// Client is a persistent TCP connection to the ingestion backend.
// The backend answers every frame with one status byte (ACK or NAK).
type Client struct {
	endpoint string
	dialer   net.Dialer

	conn net.Conn
	rd   *bufio.Reader
}

type Config struct {
	Endpoint string
}

func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("link tcp: endpoint required")
	}
	return &Client{endpoint: cfg.Endpoint}, nil
}

// Connect dials the backend. ctx bounds the dial.
func (c *Client) Connect(ctx context.Context) error {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.endpoint)
	if err != nil {
		return fmt.Errorf("link tcp: dial: %w", err)
	}
	c.conn = conn
	c.rd = bufio.NewReaderSize(conn, 16)
	return nil
}

// Send writes one frame and waits for its status byte.
// The ctx deadline becomes the connection deadline.
func (c *Client) Send(ctx context.Context, b []byte) error {
	if c.conn == nil {
		return errors.New("link tcp: not connected")
	}
	if len(b) > maxPayload {
		return fmt.Errorf("link tcp: payload too large (%d bytes)", len(b))
	}

	conn := c.conn

	// Zero deadline (no ctx deadline) means none.
	deadline, _ := ctx.Deadline()
	_ = conn.SetDeadline(deadline)

	// Unblock the read if ctx is cancelled before the deadline.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Unix(1, 0)) })
	defer stop()

	pkt := buildFrameV1(b)

	if err := writeAll(conn, pkt); err != nil {
		return fmt.Errorf("link tcp: write: %w", ctxErr(ctx, err))
	}

	status, err := c.rd.ReadByte()
	if err != nil {
		return fmt.Errorf("link tcp: read status: %w", ctxErr(ctx, err))
	}

	switch status {
	case ackOK:
		return nil
	case ackRejected:
		return errors.New("link tcp: rejected")
	default:
		return fmt.Errorf("link tcp: unknown status 0x%02x", status)
	}
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.rd = nil
	return err
}

//
// ---- Frame v1 builder ----
//
// Layout (5 bytes header):
// 0–1  Magic "TM"
// 2    Version (0x01)
// 3–4  Payload length
// 5+   Payload
//

func buildFrameV1(payload []byte) []byte {
	pkt := make([]byte, headerLen, headerLen+len(payload))

	pkt[0] = magicHi
	pkt[1] = magicLo
	pkt[2] = versionV1
	putU16(pkt[3:5], uint16(len(payload)))

	return append(pkt, payload...)
}

// ---- helpers ----

func putU16(dst []byte, v uint16) {
	dst[0] = byte(v >> 8)
	dst[1] = byte(v)
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

// ctxErr reports a deadline-driven net timeout as the context error.
func ctxErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		if _, ok := ctx.Deadline(); ok {
			return context.DeadlineExceeded
		}
	}
	return err
}
