package button

import (
	"testing"

	"github.com/lednode/lednode/internal/device"
	"github.com/lednode/lednode/internal/effects"
	"github.com/lednode/lednode/internal/palette"
)

func newTestNavigator(saved int) (*Navigator, *device.State, *palette.Palette) {
	state := &device.State{}
	pal := palette.New()
	for i := 0; i < saved; i++ {
		pal.Append(palette.Entry{R: uint8(i + 1), Brightness: 50})
	}
	return NewNavigator(state, pal, effects.NewRegistry(10)), state, pal
}

func TestSingleClickCycleTwoColors(t *testing.T) {
	nav, state, _ := newTestNavigator(2)

	steps := []struct {
		mode device.Mode
		idx  int
	}{
		{device.ModeColor, 0},
		{device.ModeColor, 1},
		{device.ModeOff, 0},
		{device.ModeColor, 0},
		{device.ModeColor, 1},
		{device.ModeOff, 0},
	}
	for i, want := range steps {
		nav.Handle(Single)
		if state.Mode != want.mode || state.ColorIndex != want.idx {
			t.Fatalf("click %d: mode=%v idx=%d, want mode=%v idx=%d",
				i+1, state.Mode, state.ColorIndex, want.mode, want.idx)
		}
		if !state.ConsumeDirty() {
			t.Fatalf("click %d did not raise dirty", i+1)
		}
	}
}

func TestSingleClickEmptyPalette(t *testing.T) {
	nav, state, _ := newTestNavigator(0)

	nav.Handle(Single)
	if state.Mode != device.ModeOff || state.ColorIndex != 0 {
		t.Errorf("state changed: mode=%v idx=%d", state.Mode, state.ColorIndex)
	}
	if !state.Dirty() {
		t.Error("click on empty palette should still raise dirty")
	}
}

func TestSingleClickScratchRestartsAtZero(t *testing.T) {
	nav, state, _ := newTestNavigator(3)
	state.Mode = device.ModeColor
	state.ColorIndex = palette.ScratchIndex

	nav.Handle(Single)
	if state.Mode != device.ModeColor || state.ColorIndex != 0 {
		t.Errorf("mode=%v idx=%d, want color/0", state.Mode, state.ColorIndex)
	}

	// The restart must not count as a step, the next click advances.
	nav.Handle(Single)
	if state.ColorIndex != 1 {
		t.Errorf("idx=%d after second click, want 1", state.ColorIndex)
	}
}

func TestSingleClickResumesFromEffect(t *testing.T) {
	nav, state, _ := newTestNavigator(3)
	state.Mode = device.ModeEffect
	state.ColorIndex = 2

	nav.Handle(Single)
	if state.Mode != device.ModeColor || state.ColorIndex != 2 {
		t.Errorf("mode=%v idx=%d, want color/2", state.Mode, state.ColorIndex)
	}
}

func TestDoubleClickCycleAllEffects(t *testing.T) {
	nav, state, _ := newTestNavigator(0)
	count := effects.NewRegistry(10).Len()

	nav.Handle(Double)
	if state.Mode != device.ModeEffect || state.EffectIndex != 0 {
		t.Fatalf("first double: mode=%v idx=%d", state.Mode, state.EffectIndex)
	}

	for want := 1; want < count; want++ {
		nav.Handle(Double)
		if state.Mode != device.ModeEffect || state.EffectIndex != want {
			t.Fatalf("mode=%v idx=%d, want effect/%d", state.Mode, state.EffectIndex, want)
		}
	}

	nav.Handle(Double)
	if state.Mode != device.ModeOff || state.EffectIndex != 0 {
		t.Errorf("after last effect: mode=%v idx=%d, want off/0", state.Mode, state.EffectIndex)
	}
}

func TestDoubleClickResumesFromColor(t *testing.T) {
	nav, state, _ := newTestNavigator(2)
	state.Mode = device.ModeColor
	state.EffectIndex = 5

	nav.Handle(Double)
	if state.Mode != device.ModeEffect || state.EffectIndex != 5 {
		t.Errorf("mode=%v idx=%d, want effect/5", state.Mode, state.EffectIndex)
	}
}

func TestLongClickAlwaysOff(t *testing.T) {
	for _, start := range []device.Mode{device.ModeOff, device.ModeColor, device.ModeEffect} {
		nav, state, _ := newTestNavigator(2)
		state.Mode = start

		nav.Handle(Long)
		if state.Mode != device.ModeOff {
			t.Errorf("from %v: mode=%v, want off", start, state.Mode)
		}
		if !state.Dirty() {
			t.Errorf("from %v: long click did not raise dirty", start)
		}
	}
}

func TestGestureString(t *testing.T) {
	tests := []struct {
		g    Gesture
		want string
	}{
		{Single, "single"},
		{Double, "double"},
		{Long, "long"},
	}
	for _, tt := range tests {
		if got := tt.g.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.g, got, tt.want)
		}
	}
}
