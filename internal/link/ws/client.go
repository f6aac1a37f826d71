// internal/link/ws/client.go
package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client publishes telemetry frames over a websocket.
// Text frames carry JSON; binary frames carry CBOR.
//
// A reader goroutine drains the connection so control frames are handled;
// the first read error marks the connection dead and fails the next Send.
type Client struct {
	url         string
	messageType int
	dialer      *websocket.Dialer

	conn *websocket.Conn
	done chan struct{}

	mu      sync.Mutex
	readErr error
}

type Config struct {
	URL    string
	Binary bool
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("link ws: url required")
	}

	mt := websocket.TextMessage
	if cfg.Binary {
		mt = websocket.BinaryMessage
	}

	return &Client{
		url:         cfg.URL,
		messageType: mt,
		dialer:      &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}, nil
}

// Connect performs the websocket handshake. ctx bounds it.
func (c *Client) Connect(ctx context.Context) error {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("link ws: dial: %w", err)
	}

	c.setReadErr(nil)
	c.conn = conn
	c.done = make(chan struct{})
	go c.readLoop(conn, c.done)
	return nil
}

// readLoop discards inbound messages. The default ping and close handlers
// run inside ReadMessage.
func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			c.setReadErr(err)
			return
		}
	}
}

func (c *Client) setReadErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil || c.readErr == nil {
		c.readErr = err
	}
}

func (c *Client) readError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// Send writes one message. The ctx deadline becomes the write deadline.
func (c *Client) Send(ctx context.Context, b []byte) error {
	if c.conn == nil {
		return errors.New("link ws: not connected")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.readError(); err != nil {
		return fmt.Errorf("link ws: connection lost: %w", err)
	}

	deadline, _ := ctx.Deadline()
	_ = c.conn.SetWriteDeadline(deadline)

	if err := c.conn.WriteMessage(c.messageType, b); err != nil {
		return fmt.Errorf("link ws: write: %w", err)
	}
	return nil
}

// Close sends a close frame best-effort and drops the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	err := c.conn.Close()
	<-c.done
	c.conn = nil
	c.done = nil
	return err
}
