package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"spentra/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 16
)

// Client is a single WebSocket connection subscribed to one topic.
type Client struct {
	hub   *Hub
	topic string
	conn  *websocket.Conn
	send  chan []byte
}

// connectedMessage is sent once after a successful subscription.
type connectedMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Attach subscribes conn to topic and starts its read/write pumps. It
// returns immediately; the pumps run until the connection closes.
func (h *Hub) Attach(conn *websocket.Conn, topic string) *Client {
	client := &Client{
		hub:   h,
		topic: topic,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
	}
	h.subscribe(topic, client)

	go client.writePump()
	go client.readPump()

	greeting, _ := json.Marshal(connectedMessage{
		Type:    "connection_established",
		Message: "Connected to notification service",
	})
	select {
	case client.send <- greeting:
	default:
	}

	return client
}

// readPump drains inbound frames. Clients may send acknowledgement
// messages; they are ignored since delivery tracking is not implemented.
func (c *Client) readPump() {
	defer func() {
		c.hub.unsubscribe(c.topic, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Get().Debugw("websocket read error", "topic", c.topic, "error", err)
			}
			return
		}
	}
}

// writePump forwards messages from the send channel to the connection and
// keeps the connection alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
