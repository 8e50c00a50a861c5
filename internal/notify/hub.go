package notify

import (
	"log/slog"
	"sync"

	"github.com/joao-fontenele/productflow/internal/domain"
)

// TopicAllOrders receives every order lifecycle event. Status-scoped topics
// receive only events for orders currently in that status.
const TopicAllOrders = "all-orders"

func StatusTopic(status domain.OrderStatus) string {
	return "status:" + string(status)
}

// Event is the frame delivered to subscribers.
type Event struct {
	Name  string        `json:"event"`
	Order *domain.Order `json:"order"`
}

// Client is one subscriber connection. Its buffered channel decouples slow
// consumers from publishers: delivery is best-effort, at-most-once, and an
// event is dropped when the buffer is full.
type Client struct {
	events chan Event
}

func NewClient(buffer int) *Client {
	return &Client{events: make(chan Event, buffer)}
}

func (c *Client) Events() <-chan Event {
	return c.events
}

// Hub fans order events out to clients grouped by topic. Clients join and
// leave topics independently; nothing is persisted or replayed.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		topics: make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

func (h *Hub) Join(topic string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.topics[topic]
	if !ok {
		clients = make(map[*Client]struct{})
		h.topics[topic] = clients
	}
	clients[client] = struct{}{}
}

func (h *Hub) Leave(topic string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.topics[topic]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Remove detaches the client from every topic and closes its event channel.
func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic, clients := range h.topics {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	close(client.events)
}

// Publish delivers the event to every client joined to the topic without
// blocking; a client whose buffer is full misses the event.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.topics[topic] {
		select {
		case client.events <- event:
		default:
			h.logger.Warn("dropped event for slow subscriber",
				"topic", topic, "event", event.Name)
		}
	}
}
