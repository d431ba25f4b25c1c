package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
)

const (
	// Messages accepted per client per second.
	maxMessagesPerSecond = 10

	sendBufferSize = 256
)

// ClientMessage is a control frame sent by a subscriber.
type ClientMessage struct {
	Type      string `json:"type"` // watch, watch_all
	VendorIDs []uint `json:"vendor_ids"`
}

// Event is the envelope pushed to subscribers.
type Event struct {
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
	SentAt time.Time       `json:"sent_at"`
}

// Client is one live feed connection. A client with an empty watch set
// receives every vendor.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint // zero for anonymous viewers
	Send   chan []byte

	mu            sync.RWMutex
	watching      map[uint]bool
	messageCount  int
	lastResetTime time.Time
	rateMu        sync.Mutex
}

func NewClient(hub *Hub, conn *Conn, userID uint) *Client {
	return &Client{
		Hub:           hub,
		Conn:          conn,
		UserID:        userID,
		Send:          make(chan []byte, sendBufferSize),
		watching:      make(map[uint]bool),
		lastResetTime: time.Now(),
	}
}

// wants reports whether the client should receive an event for vendorID.
func (c *Client) wants(vendorID uint) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.watching) == 0 || vendorID == 0 || c.watching[vendorID]
}

func (c *Client) watch(ids []uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watching = make(map[uint]bool, len(ids))
	for _, id := range ids {
		c.watching[id] = true
	}
}

type broadcastMessage struct {
	vendorID uint
	data     []byte
}

// Hub fans published events out to connected clients.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage
	stop       chan struct{}
	stopOnce   sync.Once

	// lifeMu guards stopped; Register holds it shared while enqueueing.
	lifeMu  sync.RWMutex
	stopped bool

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *broadcastMessage, 1024),
		stop:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Live feed client registered", map[string]interface{}{
				"user_id":       client.UserID,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				if !client.wants(message.vendorID) {
					continue
				}
				select {
				case client.Send <- message.data:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			for _, client := range slow {
				logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
					"user_id": client.UserID,
				})
				h.remove(client)
			}

		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("Live feed hub stopped")
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	logger.Info("Live feed client unregistered", map[string]interface{}{
		"user_id":           client.UserID,
		"remaining_clients": len(h.clients),
	})
}

// Stop shuts the hub down. Every registered or queued client has its Send
// channel closed, and later registrations are closed immediately.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)

		h.lifeMu.Lock()
		h.stopped = true
		h.lifeMu.Unlock()

		// Clients queued but never picked up by Run.
		for {
			select {
			case client := <-h.register:
				close(client.Send)
			default:
				return
			}
		}
	})
}

// Publish queues an event for every interested client. Payloads carrying a
// vendor_id field only reach clients watching that vendor. A full queue
// drops the event.
func (h *Hub) Publish(eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event payload", err, map[string]interface{}{
			"type": eventType,
		})
		return
	}

	var scope struct {
		VendorID uint `json:"vendor_id"`
	}
	_ = json.Unmarshal(data, &scope)

	envelope, err := json.Marshal(Event{Type: eventType, Data: data, SentAt: time.Now().UTC()})
	if err != nil {
		logger.Error("Failed to marshal event", err, map[string]interface{}{
			"type": eventType,
		})
		return
	}

	select {
	case h.broadcast <- &broadcastMessage{vendorID: scope.VendorID, data: envelope}:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type":      eventType,
			"vendor_id": scope.VendorID,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.lifeMu.RLock()
	defer h.lifeMu.RUnlock()

	if h.stopped {
		close(client.Send)
		return
	}
	select {
	case h.register <- client:
	case <-h.stop:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleClientMessage applies a subscriber control frame.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.rateMu.Lock()
	now := time.Now()
	if now.Sub(client.lastResetTime) >= time.Second {
		client.messageCount = 0
		client.lastResetTime = now
	}
	client.messageCount++
	count := client.messageCount
	client.rateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	switch msg.Type {
	case "watch":
		client.watch(msg.VendorIDs)
	case "watch_all":
		client.watch(nil)
	default:
		logger.Debug("Ignoring unknown client message", map[string]interface{}{
			"user_id": client.UserID,
			"type":    msg.Type,
		})
	}
}
