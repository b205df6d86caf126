package api

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 5 * time.Second

	// sendBuffer is how many events a client may fall behind before it is dropped.
	sendBuffer = 16
)

// wsClient owns one connection. Only its writer goroutine writes to conn.
type wsClient struct {
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	finished chan struct{}
	once     sync.Once
}

func (c *wsClient) stop() {
	c.once.Do(func() { close(c.done) })
}

func (c *wsClient) writeLoop(m *WSConnectionManager) {
	defer close(c.finished)
	for {
		select {
		case <-c.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			c.conn.Close()
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				m.Remove(c.conn)
				c.conn.Close()
				return
			}
		}
	}
}

// WSConnectionManager manages WebSocket connections for broadcasting.
type WSConnectionManager struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]*wsClient
}

// NewWSConnectionManager creates a new WebSocket connection manager.
func NewWSConnectionManager() *WSConnectionManager {
	return &WSConnectionManager{
		connections: make(map[*websocket.Conn]*wsClient),
	}
}

// Add registers a connection and starts its writer.
func (m *WSConnectionManager) Add(conn *websocket.Conn) {
	c := &wsClient{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	m.mu.Lock()
	m.connections[conn] = c
	m.mu.Unlock()
	go c.writeLoop(m)
}

// Remove forgets a connection and stops its writer.
func (m *WSConnectionManager) Remove(conn *websocket.Conn) {
	m.mu.Lock()
	c, ok := m.connections[conn]
	delete(m.connections, conn)
	m.mu.Unlock()
	if ok {
		c.stop()
	}
}

// Count returns the number of registered connections.
func (m *WSConnectionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Broadcast queues a message for every client and never waits on the network.
// A client whose queue is full is disconnected.
func (m *WSConnectionManager) Broadcast(message any) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	m.mu.RLock()
	var slow []*websocket.Conn
	for conn, c := range m.connections {
		select {
		case c.send <- data:
		default:
			slow = append(slow, conn)
		}
	}
	m.mu.RUnlock()

	for _, conn := range slow {
		m.Remove(conn)
		conn.Close()
	}
}

// CloseAll sends a close frame to every client, forgets them and waits for
// their writers to exit.
func (m *WSConnectionManager) CloseAll() {
	m.mu.Lock()
	conns := m.connections
	m.connections = make(map[*websocket.Conn]*wsClient)
	m.mu.Unlock()

	for _, c := range conns {
		c.stop()
	}
	for _, c := range conns {
		<-c.finished
	}
}
