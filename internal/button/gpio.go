package button

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/lednode/lednode/internal/logging"
)

const (
	debouncePeriod = 10 * time.Millisecond
	longPress      = 600 * time.Millisecond
	doubleWindow   = 300 * time.Millisecond
)

type edge struct {
	pressed bool
	at      time.Time
}

// GPIOSource reads a push button on a GPIO line and classifies presses into
// gestures. The button is wired active low against the internal pull-up.
type GPIOSource struct {
	line     *gpiocdev.Line
	edges    chan edge
	gestures chan Gesture
	done     chan struct{}
	logger   *slog.Logger
}

// NewGPIOSource requests the given line for edge events and starts the
// classifier.
func NewGPIOSource(chip string, pin int) (*GPIOSource, error) {
	s := &GPIOSource{
		edges:    make(chan edge, 16),
		gestures: make(chan Gesture, 4),
		done:     make(chan struct{}),
		logger:   logging.GetLogger("button"),
	}

	line, err := gpiocdev.RequestLine(chip, pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithDebounce(debouncePeriod),
		gpiocdev.WithEventHandler(s.handleEvent),
	)
	if err != nil {
		return nil, fmt.Errorf("requesting button line %s pin %d: %w", chip, pin, err)
	}
	s.line = line

	go s.classify()
	s.logger.Info("Button enabled", "chip", chip, "pin", pin)
	return s, nil
}

// Gestures returns the channel classified gestures arrive on.
func (s *GPIOSource) Gestures() <-chan Gesture {
	return s.gestures
}

// Close releases the GPIO line and stops the classifier.
func (s *GPIOSource) Close() error {
	close(s.done)
	return s.line.Close()
}

func (s *GPIOSource) handleEvent(evt gpiocdev.LineEvent) {
	e := edge{pressed: evt.Type == gpiocdev.LineEventFallingEdge, at: time.Now()}
	select {
	case s.edges <- e:
	default:
		// Drop on overflow, the classifier resynchronizes on the next edge.
	}
}

// classify turns raw press and release edges into single, double and long
// gestures. A short press opens the double click window; a second short
// press inside it makes a double.
func (s *GPIOSource) classify() {
	defer close(s.gestures)

	var (
		pressedAt time.Time
		pressed   bool
		pending   bool
	)
	timer := time.NewTimer(time.Hour)
	stopTimer := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
	stopTimer()
	defer timer.Stop()

	for {
		select {
		case <-s.done:
			return
		case e := <-s.edges:
			if e.pressed == pressed {
				continue
			}
			pressed = e.pressed
			if pressed {
				pressedAt = e.at
				if pending {
					stopTimer()
				}
				continue
			}

			held := e.at.Sub(pressedAt)
			switch {
			case held >= longPress:
				pending = false
				s.emit(Long)
			case pending:
				pending = false
				s.emit(Double)
			default:
				pending = true
				stopTimer()
				timer.Reset(doubleWindow)
			}
		case <-timer.C:
			if pending {
				pending = false
				s.emit(Single)
			}
		}
	}
}

func (s *GPIOSource) emit(g Gesture) {
	select {
	case s.gestures <- g:
	default:
		s.logger.Warn("Gesture dropped, consumer is behind", "gesture", g.String())
	}
}
