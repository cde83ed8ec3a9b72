package main

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// wsConn wraps a gorilla websocket connection as a line-oriented transport:
// each WebSocket text frame may carry one or more newline-separated
// commands, mirroring how a telnet client's line buffering works.
type wsConn struct {
	conn    *websocket.Conn
	readBuf []string
	mu      sync.Mutex
}

func newWSConn(conn *websocket.Conn, maxMessageSize int64) *wsConn {
	conn.SetReadLimit(maxMessageSize)
	return &wsConn{conn: conn}
}

// ReadLine reads one newline-delimited command, blocking until a frame
// arrives if none is buffered.
func (c *wsConn) ReadLine() (string, error) {
	c.mu.Lock()
	if len(c.readBuf) > 0 {
		line := c.readBuf[0]
		c.readBuf = c.readBuf[1:]
		c.mu.Unlock()
		return line, nil
	}
	c.mu.Unlock()

	_, message, err := c.conn.ReadMessage()
	if err != nil {
		return "", err
	}

	lines := strings.Split(string(message), "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	if len(filtered) == 0 {
		return c.ReadLine()
	}

	c.mu.Lock()
	if len(filtered) > 1 {
		c.readBuf = append(c.readBuf, filtered[1:]...)
	}
	c.mu.Unlock()

	return filtered[0], nil
}

// WriteLine writes one newline-delimited response as its own text frame.
func (c *wsConn) WriteLine(line string) error {
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
