package button

// Gesture is a classified button input.
type Gesture uint8

const (
	// Single is one short press.
	Single Gesture = iota
	// Double is two short presses within the double click window.
	Double
	// Long is a press held past the long press threshold.
	Long
)

// String returns the lowercase gesture name used in logs and events.
func (g Gesture) String() string {
	switch g {
	case Double:
		return "double"
	case Long:
		return "long"
	default:
		return "single"
	}
}

// Source emits classified gestures from a physical input. Implementations
// own debounce and press-length classification; the core only ever sees
// discrete gestures.
type Source interface {
	// Gestures returns the channel gestures arrive on. It is closed when
	// the source shuts down.
	Gestures() <-chan Gesture

	Close() error
}
