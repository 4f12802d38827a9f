package streamserver

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/deskshare-go/internal/core/domain"
)

const (
	eventSessionStarted = "session_started"
	eventFrame          = "frame"
)

// event is the envelope of every server-to-client message.
type event struct {
	Event string `json:"event"`
	Data  string `json:"data,omitempty"`
}

// client is one admitted websocket connection. It implements
// service.FrameSink.
type client struct {
	id      domain.ConnectionID
	conn    *websocket.Conn
	cfg     Config
	logger  *slog.Logger
	metrics Metrics

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(id domain.ConnectionID, conn *websocket.Conn, cfg Config, logger *slog.Logger, metrics Metrics) *client {
	return &client{
		id:      id,
		conn:    conn,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		send:    make(chan []byte, cfg.SendQueue),
		done:    make(chan struct{}),
	}
}

// SendFrame queues frame without blocking. A full queue drops the frame.
func (c *client) SendFrame(frame domain.Frame) error {
	data, err := json.Marshal(event{Event: eventFrame, Data: frame.Payload})
	if err != nil {
		return domain.ErrConnectionClosed.WithCause(err)
	}
	return c.enqueue(data)
}

func (c *client) enqueue(data []byte) error {
	select {
	case <-c.done:
		return domain.ErrConnectionClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return domain.ErrConnectionClosed
	default:
		c.metrics.FrameDropped()
		return nil
	}
}

// Close signals the write pump to say goodbye and close the connection.
// It is safe to call more than once.
func (c *client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// writePump drains the send queue and pings the peer. It owns all writes.
func (c *client) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
			return

		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("stream write failed", "connection_id", c.id, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("stream ping failed", "connection_id", c.id, "error", err)
				return
			}
		}
	}
}

// readPump discards client messages and returns when the peer goes away or
// stops answering pings.
func (c *client) readPump() {
	c.conn.SetReadLimit(c.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("stream read failed", "connection_id", c.id, "error", err)
			}
			return
		}
	}
}
