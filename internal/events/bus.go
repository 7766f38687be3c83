package events

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Handler processes a single event. A non-nil error (or a panic) is logged
// and isolated; it never reaches the emitter or other subscribers.
type Handler func(event *Event) error

// Subscription identifies one registered handler so it can be removed later.
type Subscription uint64

// Bus is an in-process, synchronous publish/subscribe dispatcher.
//
// Delivery within one Emit call is sequential in registration order, on the
// calling goroutine. The mutex only guards the subscriber lists; it is not
// held while handlers run, so handlers may subscribe or unsubscribe.
type Bus struct {
	mu     sync.Mutex
	nextID Subscription
	subs   map[EventType][]subscriber
	logger *zap.Logger
}

type subscriber struct {
	id      Subscription
	handler Handler
}

// NewBus creates an event bus. A nil logger defaults to zap.NewNop().
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[EventType][]subscriber),
		logger: logger,
	}
}

// Subscribe registers a handler for the given event type and returns a
// subscription token for Unsubscribe. Handlers run in registration order.
func (b *Bus) Subscribe(eventType EventType, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[eventType] = append(b.subs[eventType], subscriber{id: id, handler: handler})
	return id
}

// Unsubscribe removes a previously registered handler. Removing an unknown
// or already-removed subscription is a no-op.
func (b *Bus) Unsubscribe(eventType EventType, id Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[eventType]
	for i, sub := range list {
		if sub.id == id {
			b.subs[eventType] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Emit delivers the event to every subscriber for its type, synchronously
// and in registration order. A failing subscriber is logged and skipped;
// the remaining subscribers still run. Emitting with zero subscribers is a
// no-op.
func (b *Bus) Emit(event *Event) {
	if event == nil {
		return
	}

	b.mu.Lock()
	list := make([]subscriber, len(b.subs[event.Type]))
	copy(list, b.subs[event.Type])
	b.mu.Unlock()

	for _, sub := range list {
		if err := b.invoke(sub, event); err != nil {
			b.logger.Warn("event subscriber failed",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Uint64("subscription", uint64(sub.id)),
				zap.Error(err))
		}
	}
}

// invoke runs one handler, converting a panic into an error so a bad
// subscriber cannot take down the emitter.
func (b *Bus) invoke(sub subscriber, event *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panicked: %v", r)
		}
	}()
	return sub.handler(event)
}
