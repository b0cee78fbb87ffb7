// Package effects holds the compiled-in animation effects. Effects render
// by frame index into the shared pixel buffer; the renderer owns timing,
// brightness and pushing frames to the strip.
package effects

import (
	"github.com/lednode/lednode/internal/strip"
)

// Effect is one compiled-in animation.
type Effect interface {
	// Name is the exact, case-sensitive identifier used on the wire.
	Name() string

	// LoopLength is the number of frames after which the frame index
	// wraps back to zero. Always positive.
	LoopLength() int

	// RenderStep draws the given frame into the buffer. The buffer
	// contents from the previous frame must not be relied upon.
	RenderStep(frame int, buf strip.Buffer)
}

// Resettable is implemented by effects that keep state across frames within
// one activation, such as the fire heat field. The renderer resets them
// every time the effect is entered.
type Resettable interface {
	Reset()
}

// Registry holds the effects in a stable order so effect indices stay
// meaningful across surfaces.
type Registry struct {
	effects []Effect
	byName  map[string]int
}

// NewRegistry builds the effect set for a strip of the given pixel count.
func NewRegistry(pixels int) *Registry {
	if pixels < 2 {
		pixels = 2
	}

	r := &Registry{byName: make(map[string]int)}
	for _, e := range []Effect{
		&rainbow{},
		&rainbowCycle{},
		&theaterChase{},
		newColorWipe(pixels),
		newScanner(pixels),
		newBreathe(),
		newFire(),
		newMeteor(pixels),
		newSparkle(),
		&runningLights{},
		newTwinkle(),
		&plasma{},
	} {
		r.byName[e.Name()] = len(r.effects)
		r.effects = append(r.effects, e)
	}
	return r
}

// Len returns the number of effects.
func (r *Registry) Len() int {
	return len(r.effects)
}

// At returns the effect at index i in registry order.
func (r *Registry) At(i int) Effect {
	return r.effects[i]
}

// Lookup finds an effect by exact name.
func (r *Registry) Lookup(name string) (int, bool) {
	i, ok := r.byName[name]
	return i, ok
}

// Names returns the effect names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.effects))
	for i, e := range r.effects {
		names[i] = e.Name()
	}
	return names
}
