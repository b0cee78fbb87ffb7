// Package device holds the mutable device state shared by the command
// processor, the click navigator and the renderer. The state object is owned
// by the core loop and passed into handlers; nothing in this package is
// goroutine safe.
package device

// Mode is what the strip is currently showing.
type Mode uint8

const (
	// ModeOff blanks the strip.
	ModeOff Mode = iota
	// ModeColor shows a single palette color.
	ModeColor
	// ModeEffect runs an animation effect.
	ModeEffect
)

// String returns the lowercase mode name used on the wire.
func (m Mode) String() string {
	switch m {
	case ModeColor:
		return "color"
	case ModeEffect:
		return "effect"
	default:
		return "off"
	}
}

// State is the live device state. ColorIndex addresses a palette slot, where
// the slot one past the last saved entry is the unsaved scratch color.
// EffectIndex addresses the effect registry in order.
type State struct {
	Mode        Mode
	ColorIndex  int
	EffectIndex int

	dirty bool
}

// MarkDirty requests a one-shot redraw. Every state-changing operation calls
// this; the renderer consumes it exactly once.
func (s *State) MarkDirty() {
	s.dirty = true
}

// ConsumeDirty returns whether a redraw was requested and lowers the flag.
func (s *State) ConsumeDirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}

// Dirty reports whether a redraw is pending without consuming it.
func (s *State) Dirty() bool {
	return s.dirty
}

// Reset puts the state back to the boot defaults: off, zero indices.
func (s *State) Reset() {
	s.Mode = ModeOff
	s.ColorIndex = 0
	s.EffectIndex = 0
}
