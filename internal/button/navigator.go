// Package button maps physical push-button gestures onto device state
// changes, so the strip can be driven without any network surface.
package button

import (
	"log/slog"

	"github.com/lednode/lednode/internal/device"
	"github.com/lednode/lednode/internal/effects"
	"github.com/lednode/lednode/internal/logging"
	"github.com/lednode/lednode/internal/palette"
)

// Navigator steps through saved colors and effects on button gestures.
// Like the command processor it mutates shared state and is serialized by
// the core loop.
type Navigator struct {
	state   *device.State
	palette *palette.Palette
	effects *effects.Registry
	logger  *slog.Logger
}

// NewNavigator creates a navigator over the shared state.
func NewNavigator(state *device.State, pal *palette.Palette, reg *effects.Registry) *Navigator {
	return &Navigator{
		state:   state,
		palette: pal,
		effects: reg,
		logger:  logging.GetLogger("button"),
	}
}

// Handle applies one gesture. Every gesture requests a redraw, even when it
// ends up changing nothing, so the strip always reacts to the button.
func (n *Navigator) Handle(g Gesture) {
	oldMode := n.state.Mode
	n.state.MarkDirty()

	switch g {
	case Long:
		n.state.Mode = device.ModeOff
	case Single:
		n.nextColor(oldMode)
	case Double:
		n.nextEffect(oldMode)
	}

	n.logger.Debug("Gesture handled", "gesture", g.String(), "mode", n.state.Mode.String(),
		"colorIndex", n.state.ColorIndex, "effectIndex", n.state.EffectIndex)
}

// nextColor cycles single clicks through the saved colors: resume what was
// shown, then step forward, then wrap through off.
func (n *Navigator) nextColor(oldMode device.Mode) {
	if n.palette.Count() == 0 {
		return
	}
	n.state.Mode = device.ModeColor

	// An active scratch color is unsaved, so there is no position in the
	// cycle to resume from. Restart at the first saved color.
	if n.state.ColorIndex == palette.ScratchIndex {
		n.state.ColorIndex = 0
		return
	}

	if oldMode == device.ModeOff || oldMode == device.ModeEffect {
		return
	}

	if n.state.ColorIndex == n.palette.Count()-1 {
		n.state.Mode = device.ModeOff
		n.state.ColorIndex = 0
		return
	}
	n.state.ColorIndex++
}

// nextEffect cycles double clicks through the effects the same way, minus
// the scratch case.
func (n *Navigator) nextEffect(oldMode device.Mode) {
	n.state.Mode = device.ModeEffect

	if oldMode == device.ModeOff || oldMode == device.ModeColor {
		return
	}

	if n.state.EffectIndex == n.effects.Len()-1 {
		n.state.Mode = device.ModeOff
		n.state.EffectIndex = 0
		return
	}
	n.state.EffectIndex++
}
