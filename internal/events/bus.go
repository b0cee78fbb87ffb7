package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for in-process event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(StateChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	// kelindar/event is generic over the concrete type, so dispatch
	// through a type switch.
	switch e := ev.(type) {
	case StateChangedEvent:
		event.Publish(b.dispatcher, e)
	case PaletteChangedEvent:
		event.Publish(b.dispatcher, e)
	case GestureEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function. The handler's
// parameter type determines which events it receives.
// Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e StateChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(StateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PaletteChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(GestureEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
