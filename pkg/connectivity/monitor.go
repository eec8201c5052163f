package connectivity

import (
	"sync"
)

// Monitor tracks whether the technician client currently has connectivity to
// the remote store. The flag is fed by the client heartbeat and is readable
// synchronously at call time; subscribers are notified on every
// offline -> online transition so the sync runner can drain the queue.
type Monitor struct {
	online      bool
	subscribers map[chan struct{}]bool
	mutex       sync.RWMutex
}

// NewMonitor creates a monitor. Connectivity starts online; the first missed
// heartbeat flips it.
func NewMonitor() *Monitor {
	return &Monitor{
		online:      true,
		subscribers: make(map[chan struct{}]bool),
	}
}

// Online reports the current connectivity flag.
func (m *Monitor) Online() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.online
}

// SetOnline updates the flag. An offline -> online transition fans out to
// all subscribers; repeated heartbeats in the same state are no-ops.
func (m *Monitor) SetOnline(online bool) {
	m.mutex.Lock()
	wasOnline := m.online
	m.online = online
	var toNotify []chan struct{}
	if online && !wasOnline {
		for ch := range m.subscribers {
			toNotify = append(toNotify, ch)
		}
	}
	m.mutex.Unlock()

	for _, ch := range toNotify {
		select {
		case ch <- struct{}{}:
		default:
			// Subscriber still handling the previous transition, skip
		}
	}
}

// Subscribe returns a channel that receives one signal per
// offline -> online transition.
func (m *Monitor) Subscribe() chan struct{} {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	ch := make(chan struct{}, 1)
	m.subscribers[ch] = true
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (m *Monitor) Unsubscribe(ch chan struct{}) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.subscribers[ch] {
		delete(m.subscribers, ch)
		close(ch)
	}
}
