// Package hosting drives live games over WebSocket: one Room per game, a
// Manager event loop that applies owner input and advances every room's
// engine on a shared tick, and read/write pumps per connected client.
package hosting

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is a single WebSocket connection belonging to one user in one
// room. Send is buffered so a slow reader can't block the room loop;
// SafeSend/SafeClose guard against sending on or closing an already-closed
// channel from two goroutines at once.
type Client struct {
	UserID string
	RoomID string
	Conn   *websocket.Conn
	Send   chan []byte

	closed bool
	mu     sync.Mutex
}

// SafeSend attempts a non-blocking send, reporting whether it succeeded.
func (c *Client) SafeSend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

// SafeClose closes Send exactly once.
func (c *Client) SafeClose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

const (
	readTimeout  = 300 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 60 * time.Second
)

// ClientInputEvent is one decoded message read off a client's connection.
type ClientInputEvent struct {
	UserID  string
	RoomID  string
	Message InboundMessage
}

// InboundMessage is the wire shape clients send: a single button edge,
// timestamped against the sender's own clock. The room loop does not use
// ClientMs: it feeds the edge to the engine at the room's own elapsed time
// when the message arrives.
type InboundMessage struct {
	Button   int   `json:"button"`
	Pressed  bool  `json:"pressed"`
	ClientMs int64 `json:"client_ms"`
}

func (m *Manager) readPump(c *Client) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hosting] panic in readPump for %s: %v", c.UserID, r)
		}
		select {
		case m.unregister <- c:
		default:
			log.Printf("[Hosting] unregister channel full, dropping client %s", c.UserID)
		}
	}()

	c.Conn.SetReadLimit(1024)
	c.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			log.Printf("[Hosting] read error for %s: %v", c.UserID, err)
			return
		}
		var msg InboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[Hosting] malformed input from %s: %v", c.UserID, err)
			continue
		}
		select {
		case m.inputEvents <- ClientInputEvent{UserID: c.UserID, RoomID: c.RoomID, Message: msg}:
		default:
			log.Printf("[Hosting] input queue full, dropping message from %s", c.UserID)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		if c.Conn != nil {
			c.Conn.Close()
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[Hosting] write error for %s: %v", c.UserID, err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
