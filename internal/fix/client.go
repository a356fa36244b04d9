package fix

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// FrameHandler is called when a frame of a registered type is received.
type FrameHandler func(frame *Frame)

// Transport is the connection handle to the FIX gateway. The initiator owns
// one transport per start/stop cycle.
type Transport interface {
	Connect(ctx context.Context) error
	Send(ctx context.Context, frameType string, payload interface{}) error
	RegisterHandler(frameType string, handler FrameHandler)
	IsConnected() bool
	Close() error
}

// Client is a websocket transport to the FIX gateway.
type Client struct {
	url         string
	dialTimeout time.Duration
	conn        *websocket.Conn
	logger      *zap.Logger
	handlers    map[string]FrameHandler
	handlersMu  sync.RWMutex
	connected   bool
	connectedMu sync.RWMutex
	done        chan struct{}
}

// NewClient creates a new gateway transport for the given websocket URL.
func NewClient(url string, dialTimeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		url:         url,
		dialTimeout: dialTimeout,
		logger:      logger,
		handlers:    make(map[string]FrameHandler),
		done:        make(chan struct{}),
	}
}

// Connect establishes the websocket connection and starts the read loop.
// Recovery after a broken connection is the caller's policy; the client
// does not reconnect on its own.
func (c *Client) Connect(ctx context.Context) error {
	c.logger.Info("fix.gateway.connecting", zap.String("url", c.url))

	dialer := websocket.Dialer{
		HandshakeTimeout: c.dialTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("connect to FIX gateway: %w", err)
	}

	c.conn = conn
	c.setConnected(true)
	c.logger.Info("fix.gateway.connected")

	go c.readLoop()

	return nil
}

// Close closes the websocket connection.
func (c *Client) Close() error {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.setConnected(false)
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected returns whether the transport is connected.
func (c *Client) IsConnected() bool {
	c.connectedMu.RLock()
	defer c.connectedMu.RUnlock()
	return c.connected
}

func (c *Client) setConnected(connected bool) {
	c.connectedMu.Lock()
	defer c.connectedMu.Unlock()
	c.connected = connected
}

// RegisterHandler registers a handler for a frame type.
func (c *Client) RegisterHandler(frameType string, handler FrameHandler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[strings.ToLower(frameType)] = handler
}

// Send marshals and writes a frame to the gateway.
func (c *Client) Send(ctx context.Context, frameType string, payload interface{}) error {
	if !c.IsConnected() {
		return fmt.Errorf("not connected to FIX gateway")
	}

	frame, err := NewFrame(frameType, payload)
	if err != nil {
		return fmt.Errorf("build %s frame: %w", frameType, err)
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", frameType, err)
	}

	c.logger.Debug("fix.gateway.send", zap.String("frame", frameType))

	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("send %s frame: %w", frameType, err)
	}

	return nil
}

func (c *Client) readLoop() {
	defer func() {
		c.setConnected(false)
		c.logger.Info("fix.gateway.read_loop_exited")
	}()

	for {
		select {
		case <-c.done:
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.logger.Info("fix.gateway.closed")
					return
				}
				c.logger.Error("fix.gateway.read_failed", zap.Error(err))
				return
			}

			var frame Frame
			if err := json.Unmarshal(message, &frame); err != nil {
				c.logger.Error("fix.gateway.bad_frame", zap.Error(err))
				continue
			}

			c.dispatch(&frame)
		}
	}
}

func (c *Client) dispatch(frame *Frame) {
	c.handlersMu.RLock()
	handler, ok := c.handlers[strings.ToLower(frame.T)]
	c.handlersMu.RUnlock()

	if ok {
		handler(frame)
	} else {
		c.logger.Debug("fix.gateway.unhandled_frame", zap.String("frame", frame.T))
	}
}
