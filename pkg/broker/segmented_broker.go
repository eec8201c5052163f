package broker

import (
	"sync"
)

// Channel represents the audience of an event stream.
type Channel string

const (
	ChannelAdmin    Channel = "admin"    // workshop dashboard, receives everything
	ChannelTech     Channel = "tech"     // one technician's mobile session
	ChannelCustomer Channel = "customer" // one booking's tracking page
)

// Event is a realtime message pushed over SSE.
type Event struct {
	Type      string                 `json:"type"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

type subscriptionKey struct {
	channel Channel
	id      string
}

// SegmentedBroker fans events out per audience segment. Admin clients share
// one segment; tech and customer segments are keyed by id so a technician
// only sees events for their own jobs.
type SegmentedBroker struct {
	clients map[subscriptionKey]map[chan Event]bool
	mutex   sync.RWMutex
}

// NewSegmentedBroker creates an empty broker.
func NewSegmentedBroker() *SegmentedBroker {
	return &SegmentedBroker{
		clients: make(map[subscriptionKey]map[chan Event]bool),
	}
}

func keyFor(channel Channel, id string) subscriptionKey {
	if channel == ChannelAdmin {
		// Admin is a single shared segment
		id = ""
	}
	return subscriptionKey{channel: channel, id: id}
}

// Subscribe registers a client on a segment and returns its event channel.
// The channel is buffered; slow clients drop events rather than block
// publishers.
func (b *SegmentedBroker) Subscribe(channel Channel, id string) chan Event {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	key := keyFor(channel, id)
	clientChan := make(chan Event, 10)

	if _, exists := b.clients[key]; !exists {
		b.clients[key] = make(map[chan Event]bool)
	}
	b.clients[key][clientChan] = true

	return clientChan
}

// Unsubscribe removes a client and closes its channel.
func (b *SegmentedBroker) Unsubscribe(channel Channel, id string, clientChan chan Event) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	key := keyFor(channel, id)
	if clients, exists := b.clients[key]; exists {
		if clients[clientChan] {
			delete(clients, clientChan)
			close(clientChan)
		}
		if len(clients) == 0 {
			delete(b.clients, key)
		}
	}
}

// Publish delivers an event to every client of the given segment.
func (b *SegmentedBroker) Publish(channel Channel, id string, event Event) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	for clientChan := range b.clients[keyFor(channel, id)] {
		select {
		case clientChan <- event:
		default:
			// Client not ready, skip to avoid blocking
		}
	}
}

// PublishToAll delivers an event to every connected client regardless of
// segment. Used for system-wide notices.
func (b *SegmentedBroker) PublishToAll(event Event) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	for _, clients := range b.clients {
		for clientChan := range clients {
			select {
			case clientChan <- event:
			default:
			}
		}
	}
}

// Stats returns connected client counts per channel kind.
func (b *SegmentedBroker) Stats() map[string]int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	stats := map[string]int{
		"admin_clients":    0,
		"tech_clients":     0,
		"customer_clients": 0,
	}
	for key, clients := range b.clients {
		stats[string(key.channel)+"_clients"] += len(clients)
	}
	return stats
}
