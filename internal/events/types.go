package events

// Event type constants for kelindar/event.
const (
	TypeStateChanged uint32 = iota + 1
	TypePaletteChanged
	TypeGesture
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// StateChangedEvent is broadcast after the device state changes: a new mode,
// a different active color, or a different active effect.
type StateChangedEvent struct {
	Mode       string `json:"mode" example:"color" doc:"Device mode: off, color or effect"`
	ColorHex   string `json:"color_hex,omitempty" example:"FF8800" doc:"Active color when mode is color"`
	Brightness uint8  `json:"brightness,omitempty" example:"80" doc:"Active color brightness 0-100"`
	Effect     string `json:"effect,omitempty" example:"rainbow" doc:"Active effect when mode is effect"`
	Scratch    bool   `json:"scratch,omitempty" doc:"Whether the active color is the unsaved scratch slot"`
	Source     string `json:"source" example:"api" doc:"Command source: api, nats or button"`
	Timestamp  string `json:"timestamp" example:"2026-08-23T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for StateChangedEvent.
func (e StateChangedEvent) Type() uint32 { return TypeStateChanged }

// PaletteChangedEvent is broadcast after a palette entry is saved or deleted.
type PaletteChangedEvent struct {
	Action     string `json:"action" example:"saved" doc:"Action type: saved or deleted"`
	ColorHex   string `json:"color_hex" example:"FF8800" doc:"Affected color"`
	Brightness uint8  `json:"brightness" example:"80" doc:"Affected color brightness 0-100"`
	Count      int    `json:"count" example:"3" doc:"Number of saved entries after the change"`
	Timestamp  string `json:"timestamp" example:"2026-08-23T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PaletteChangedEvent.
func (e PaletteChangedEvent) Type() uint32 { return TypePaletteChanged }

// GestureEvent is broadcast when the button source classifies a click.
type GestureEvent struct {
	Gesture   string `json:"gesture" example:"single" doc:"Gesture kind: single, double or long"`
	Timestamp string `json:"timestamp" example:"2026-08-23T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for GestureEvent.
func (e GestureEvent) Type() uint32 { return TypeGesture }
