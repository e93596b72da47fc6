package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"reqmarket/internal/domain/entity"
	"reqmarket/pkg/logger"
)

const (
	sendBufferSize = 256
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one connected subscriber. With no subscriptions it receives
// every event; otherwise only events for the requests it subscribed to.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	mu            sync.RWMutex
	subscriptions map[int64]bool
	closed        bool
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID:        userID,
		Conn:          conn,
		Send:          make(chan []byte, sendBufferSize),
		subscriptions: make(map[int64]bool),
	}
}

func (c *Client) Subscribe(requestID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[requestID] = true
}

func (c *Client) Unsubscribe(requestID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscriptions, requestID)
}

// trySend queues payload without blocking. It reports false when the buffer
// is full or the client has been closed.
func (c *Client) trySend(payload []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

func (c *Client) wants(requestID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.subscriptions) == 0 {
		return true
	}
	return c.subscriptions[requestID]
}

type broadcastMessage struct {
	requestID int64
	payload   []byte
}

// Manager fans marketplace events out to connected clients. It implements
// service.Notifier; Notify never blocks the caller.
type Manager struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan broadcastMessage
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan broadcastMessage, sendBufferSize),
		done:       make(chan struct{}),
	}
}

// Start runs the manager's main loop until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client] = true
				m.mutex.Unlock()
				logger.Debug("WebSocket client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.remove(client)
				logger.Debug("WebSocket client unregistered: %s", client.UserID)

			case message := <-m.broadcast:
				m.deliver(message)

			case <-ctx.Done():
				close(m.done)
				m.mutex.Lock()
				for client := range m.clients {
					delete(m.clients, client)
					client.close()
				}
				m.mutex.Unlock()
				return
			}
		}
	}()
}

// Add registers client with the running manager. It reports false once the
// manager has stopped.
func (m *Manager) Add(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.clients[client]; ok {
		delete(m.clients, client)
		client.close()
	}
}

func (m *Manager) deliver(message broadcastMessage) {
	m.mutex.RLock()
	var slow []*Client
	for client := range m.clients {
		if !client.wants(message.requestID) {
			continue
		}
		if !client.trySend(message.payload) {
			slow = append(slow, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range slow {
		logger.Warn("Dropping slow WebSocket client: %s", client.UserID)
		m.remove(client)
	}
}

func (m *Manager) ClientCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

func (m *Manager) Notify(ctx context.Context, event *entity.Event) {
	payload, err := json.Marshal(WSMessage{
		Type:      MessageTypeEvent,
		Data:      event,
		Timestamp: event.OccurredAt.Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("Failed to encode event %s: %v", event.Type, err)
		return
	}

	select {
	case m.broadcast <- broadcastMessage{requestID: event.RequestID, payload: payload}:
	default:
		logger.Warn("WebSocket broadcast queue full, dropping event %s", event.ID)
	}
}

// ReadPump reads client commands until the connection closes.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-m.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error for %s: %v", c.UserID, err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump sends queued messages and keepalive pings to the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket write error for %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
