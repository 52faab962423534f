package websocket

import (
	"encoding/json"
	"sync"

	"github.com/dom/blog-platform/internal/service"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const broadcastBuffer = 256

type broadcast struct {
	topic uuid.UUID
	data  []byte
}

// Hub fans counter updates out to the clients subscribed to a blog. All
// topic bookkeeping happens on the Run goroutine.
type Hub struct {
	topics     map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcast
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
	log        logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		topics:     make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcast, broadcastBuffer),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, clients := range h.topics {
				for client := range clients {
					client.Close()
				}
			}
			h.topics = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			clients, ok := h.topics[client.topic]
			if !ok {
				clients = make(map[*Client]bool)
				h.topics[client.topic] = clients
			}
			clients[client] = true
			h.mu.Unlock()
			h.log.WithField("topic", client.topic).Debug("Websocket client subscribed")

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.topics[msg.topic] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer; drop it rather than stall every other subscriber.
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	clients, ok := h.topics[client.topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	client.Close()
	if len(clients) == 0 {
		delete(h.topics, client.topic)
	}
}

// Stop closes every client and blocks until Run has returned.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister is safe to call after the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishCounter implements service.EventPublisher. It never blocks: when
// the broadcast queue is full the update is dropped and logged.
func (h *Hub) PublishCounter(event service.CounterEvent) {
	msg, err := NewMessage(MessageTypeCounterUpdated, counterPayload(event))
	if err != nil {
		h.log.WithError(err).Error("Failed to encode counter update")
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("Failed to encode counter update")
		return
	}

	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.broadcast <- broadcast{topic: event.Topic, data: data}:
	default:
		h.log.WithField("topic", event.Topic).Warn("Counter update dropped, broadcast queue full")
	}
}

// SubscriberCount returns how many clients follow topic.
func (h *Hub) SubscriberCount(topic uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
