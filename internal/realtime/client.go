package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/config"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
	"github.com/gorilla/websocket"
)

// Peer is the view of a connected client handed to event handlers.
type Peer interface {
	AccountID() int64
	DisplayName() string
	TrySend(event Event) bool
}

// EventHandler dispatches inbound frames. Handlers reply through the Peer;
// errors are reported as message_error events, never by closing the socket.
type EventHandler interface {
	OnSendMessage(ctx context.Context, peer Peer, payload json.RawMessage)
	OnTyping(ctx context.Context, peer Peer, payload json.RawMessage, isTyping bool)
}

// Client owns one websocket connection: a read pump dispatching inbound events
// and a write pump draining the outbound buffer with keepalive pings.
type Client struct {
	conn *websocket.Conn

	// mu serializes TrySend against Close: the hub closes replaced or removed
	// sessions from other goroutines while pushes may still be in flight, and a
	// send on the closed channel would panic.
	mu     sync.Mutex
	send   chan Event
	closed bool

	accountID   int64
	displayName string
	epoch       uint64

	hub     *Hub
	handler EventHandler
	cfg     config.ChatConfig
	logg    *logger.Logger
}

// NewClient wraps an upgraded connection. The caller must invoke Start after
// registering the client with the hub.
func NewClient(conn *websocket.Conn, accountID int64, displayName string, hub *Hub, handler EventHandler, cfg config.ChatConfig, logg *logger.Logger) *Client {
	buffer := cfg.SendBuffer
	if buffer <= 0 {
		buffer = 32
	}
	return &Client{
		conn:        conn,
		send:        make(chan Event, buffer),
		accountID:   accountID,
		displayName: displayName,
		hub:         hub,
		handler:     handler,
		cfg:         cfg,
		logg:        logg,
	}
}

func (c *Client) AccountID() int64 {
	return c.accountID
}

func (c *Client) DisplayName() string {
	return c.displayName
}

// TrySend queues an event without blocking; a closed session or a full buffer
// drops the event.
func (c *Client) TrySend(event Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// Close asks the write pump to flush and shut the connection down. Safe to call
// more than once and concurrently with TrySend.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Start registers the client with the hub and launches both pumps. It returns
// immediately; the connection lives on the spawned goroutines.
func (c *Client) Start() {
	c.epoch = c.hub.Register(c.accountID, c.displayName, c)
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Remove(c.accountID, c.epoch)
		c.conn.Close()
	}()

	if c.cfg.MaxMessageBytes > 0 {
		c.conn.SetReadLimit(c.cfg.MaxMessageBytes)
	}
	pongWait := c.cfg.PongWait
	if pongWait <= 0 {
		pongWait = 60 * time.Second
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if c.logg != nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ctx := c.logg.WithField(context.Background(), "account_id", c.accountID)
				c.logg.Warn(ctx, "ws.read.closed unexpectedly")
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			c.TrySend(Event{Type: EventMessageError, Payload: ErrorPayload{Error: "malformed frame"}})
			continue
		}

		ctx := context.Background()
		if c.logg != nil {
			ctx = c.logg.WithField(ctx, "account_id", c.accountID)
		}

		switch envelope.Type {
		case EventSendMessage:
			c.handler.OnSendMessage(ctx, c, envelope.Payload)
		case EventTypingStart:
			c.handler.OnTyping(ctx, c, envelope.Payload, true)
		case EventTypingStop:
			c.handler.OnTyping(ctx, c, envelope.Payload, false)
		default:
			c.TrySend(Event{Type: EventMessageError, Payload: ErrorPayload{Error: "unknown event " + envelope.Type}})
		}
	}
}

func (c *Client) writePump() {
	pingInterval := c.cfg.PingInterval
	if pingInterval <= 0 {
		pingInterval = 54 * time.Second
	}
	writeWait := c.cfg.WriteWait
	if writeWait <= 0 {
		writeWait = 10 * time.Second
	}

	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
