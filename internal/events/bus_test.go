package events

import (
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan StateChangedEvent, 1)

	unsub := bus.Subscribe(func(e StateChangedEvent) {
		received <- e
	})
	defer unsub()

	bus.Publish(StateChangedEvent{
		Mode:     "color",
		ColorHex: "FF8800",
		Source:   "api",
	})

	got := <-received
	if got.ColorHex != "FF8800" {
		t.Errorf("Expected color FF8800, got %s", got.ColorHex)
	}
	if got.Source != "api" {
		t.Errorf("Expected source api, got %s", got.Source)
	}
}

func TestBusMultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan PaletteChangedEvent, 1)
	received2 := make(chan PaletteChangedEvent, 1)

	unsub1 := bus.Subscribe(func(e PaletteChangedEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e PaletteChangedEvent) {
		received2 <- e
	})
	defer unsub2()

	bus.Publish(PaletteChangedEvent{Action: "saved", ColorHex: "00FF00", Count: 1})

	<-received1
	<-received2
}

func TestBusUnsubscribe(t *testing.T) {
	bus := New()
	received := make(chan GestureEvent, 1)

	unsub := bus.Subscribe(func(e GestureEvent) {
		received <- e
	})

	bus.Publish(GestureEvent{Gesture: "single"})
	<-received

	unsub()

	bus.Publish(GestureEvent{Gesture: "double"})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBusTypeSafety(t *testing.T) {
	bus := New()

	stateReceived := make(chan bool, 1)
	paletteReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ StateChangedEvent) {
		stateReceived <- true
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(_ PaletteChangedEvent) {
		paletteReceived <- true
	})
	defer unsub2()

	bus.Publish(StateChangedEvent{Mode: "off"})
	<-stateReceived

	select {
	case <-paletteReceived:
		t.Fatal("Palette subscriber should NOT have received StateChangedEvent")
	case <-time.After(10 * time.Millisecond):
	}

	bus.Publish(PaletteChangedEvent{Action: "deleted"})
	<-paletteReceived

	select {
	case <-stateReceived:
		t.Fatal("State subscriber should NOT have received PaletteChangedEvent")
	case <-time.After(10 * time.Millisecond):
	}
}
