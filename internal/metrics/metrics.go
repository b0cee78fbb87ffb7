// Package metrics exposes Prometheus instrumentation for the device:
// command outcomes, rendered frames, palette size and storage commits.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lednode/lednode/internal/events"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lednode",
		Subsystem: "command",
		Name:      "commands_total",
		Help:      "Commands processed, by kind and outcome (ok or error code)",
	}, []string{"command", "outcome"})

	framesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lednode",
		Subsystem: "render",
		Name:      "frames_total",
		Help:      "Frames pushed to the strip driver",
	})

	paletteEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lednode",
		Name:      "palette_entries",
		Help:      "Saved palette entries",
	})

	deviceMode = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lednode",
		Name:      "device_mode",
		Help:      "Current device mode (0 off, 1 color, 2 effect)",
	})

	commitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lednode",
		Subsystem: "storage",
		Name:      "commits_total",
		Help:      "Persisted record commits, by outcome",
	}, []string{"outcome"})

	gesturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lednode",
		Subsystem: "button",
		Name:      "gestures_total",
		Help:      "Button gestures handled, by kind",
	}, []string{"gesture"})
)

// RecordCommand counts one processed command. A non-empty code marks a
// failure outcome.
func RecordCommand(kind, code string) {
	outcome := code
	if outcome == "" {
		outcome = "ok"
	}
	commandsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordFrame counts one frame pushed to the driver.
func RecordFrame() {
	framesTotal.Inc()
}

// RecordCommit counts one storage commit.
func RecordCommit(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	commitsTotal.WithLabelValues(outcome).Inc()
}

// RecordGesture counts one handled button gesture.
func RecordGesture(gesture string) {
	gesturesTotal.WithLabelValues(gesture).Inc()
}

// ObserveBus keeps the palette and mode gauges current from broadcast
// events. Returns an unsubscribe function.
func ObserveBus(bus *events.Bus) func() {
	unsubPalette := bus.Subscribe(func(e events.PaletteChangedEvent) {
		paletteEntries.Set(float64(e.Count))
	})
	unsubState := bus.Subscribe(func(e events.StateChangedEvent) {
		switch e.Mode {
		case "color":
			deviceMode.Set(1)
		case "effect":
			deviceMode.Set(2)
		default:
			deviceMode.Set(0)
		}
	})
	return func() {
		unsubPalette()
		unsubState()
	}
}

// SetPaletteEntries primes the palette gauge at startup, before any event
// has fired.
func SetPaletteEntries(n int) {
	paletteEntries.Set(float64(n))
}

// Handler returns the Prometheus exposition handler. It collects all
// promauto-registered metrics automatically.
func Handler() http.Handler {
	return promhttp.Handler()
}
