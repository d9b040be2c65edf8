// Package events fans out upload progress and collection changes to
// subscribers (WebSocket and SSE clients).
package events

import (
	"sync"
	"time"

	"github.com/filedesk/backend/internal/metrics"
)

const (
	EventUploadProgress  = "upload:progress"
	EventUploadCompleted = "upload:completed"
	EventUploadError     = "upload:error"
	EventUploadDismissed = "upload:dismissed"
	EventFileCreated     = "file:created"
	EventFileDeleted     = "file:deleted"
	EventFileRenamed     = "file:renamed"
	EventDocumentCreated = "document:created"
	EventDocumentDeleted = "document:deleted"
	EventDocumentUpdated = "document:updated"
)

// Event is a change notification. Data carries the affected task, record
// or document.
type Event struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"` // Unix ms
}

// Publisher is the write side of a Broadcaster.
type Publisher interface {
	Publish(event Event)
}

// Broadcaster manages subscribers and publishes events.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewBroadcaster creates a new event broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe adds a new subscriber and returns its event channel.
// The caller must call Unsubscribe when done.
func (b *Broadcaster) Subscribe() chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	n := len(b.subscribers)
	b.mu.Unlock()
	metrics.SetWSClients(n)
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
	n := len(b.subscribers)
	b.mu.Unlock()
	metrics.SetWSClients(n)
}

// Publish sends an event to all subscribers. Non-blocking: drops events
// for slow consumers.
func (b *Broadcaster) Publish(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
	metrics.RecordEvent(event.Type)
}

// Count returns the current number of subscribers.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Discard is a Publisher that drops every event.
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(Event) {}
