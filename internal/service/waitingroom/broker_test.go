package waitingroom

import (
	"sync/atomic"
	"testing"
)

func TestBroker(t *testing.T) {
	t.Run("fans out to every subscriber", func(t *testing.T) {
		b := newBroker(4, nil)
		a, cancelA := b.subscribe()
		c, cancelC := b.subscribe()
		defer cancelA()
		defer cancelC()

		b.publish(Event{Type: EventCalled})

		if ev := <-a; ev.Type != EventCalled {
			t.Errorf("a got %s", ev.Type)
		}
		if ev := <-c; ev.Type != EventCalled {
			t.Errorf("c got %s", ev.Type)
		}
	})

	t.Run("drops when the buffer is full", func(t *testing.T) {
		var drops atomic.Int32
		b := newBroker(1, func() { drops.Add(1) })
		ch, cancel := b.subscribe()
		defer cancel()

		b.publish(Event{Type: EventCalled})
		b.publish(Event{Type: EventCleared})
		b.publish(Event{Type: EventSettings})

		if got := drops.Load(); got != 2 {
			t.Errorf("drops = %d, want 2", got)
		}
		if ev := <-ch; ev.Type != EventCalled {
			t.Errorf("kept %s, want the first event", ev.Type)
		}
	})

	t.Run("cancel closes the channel once", func(t *testing.T) {
		b := newBroker(1, nil)
		ch, cancel := b.subscribe()
		cancel()
		cancel()

		if _, ok := <-ch; ok {
			t.Error("channel should be closed")
		}
		if b.len() != 0 {
			t.Errorf("len() = %d, want 0", b.len())
		}
	})

	t.Run("close disconnects everyone", func(t *testing.T) {
		b := newBroker(1, nil)
		ch, cancel := b.subscribe()
		b.close()
		cancel()

		if _, ok := <-ch; ok {
			t.Error("channel should be closed")
		}

		late, _ := b.subscribe()
		if _, ok := <-late; ok {
			t.Error("subscribing after close should yield a closed channel")
		}
	})
}
