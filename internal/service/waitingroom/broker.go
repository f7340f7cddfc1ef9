package waitingroom

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCalled   EventType = "called"
	EventCleared  EventType = "cleared"
	EventSettings EventType = "settings"
	EventChime    EventType = "chime"
)

// Event is pushed to display subscribers. Chime events carry the clip to play.
type Event struct {
	Type   EventType `json:"type"`
	CallID uuid.UUID `json:"callId,omitempty"`
	At     time.Time `json:"at"`
	Clip   *Clip     `json:"clip,omitempty"`
}

// broker fans events out to subscribers without ever blocking the sender.
// A subscriber whose buffer is full misses the event.
type broker struct {
	mu     sync.Mutex
	subs   map[uint64]chan Event
	next   uint64
	buffer int
	closed bool

	onDrop func()
}

func newBroker(buffer int, onDrop func()) *broker {
	if buffer <= 0 {
		buffer = 16
	}
	if onDrop == nil {
		onDrop = func() {}
	}
	return &broker{
		subs:   make(map[uint64]chan Event),
		buffer: buffer,
		onDrop: onDrop,
	}
}

// subscribe returns the event channel and a cancel func that is safe to call twice.
func (b *broker) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

func (b *broker) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.onDrop()
		}
	}
}

func (b *broker) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *broker) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
