package render

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/lednode/lednode/internal/device"
	"github.com/lednode/lednode/internal/effects"
	"github.com/lednode/lednode/internal/palette"
	"github.com/lednode/lednode/internal/strip"
)

type mockDriver struct {
	count      int
	frames     []strip.Buffer
	failRender bool
}

func (m *mockDriver) Render(buf strip.Buffer) error {
	if m.failRender {
		return errors.New("spi gone")
	}
	m.frames = append(m.frames, slices.Clone(buf))
	return nil
}

func (m *mockDriver) Count() int { return m.count }

func (m *mockDriver) Close() error { return nil }

func newTestScheduler(pixels int, brightness uint8) (*Scheduler, *device.State, *palette.Palette, *mockDriver) {
	state := &device.State{}
	pal := palette.New()
	driver := &mockDriver{count: pixels}
	s := NewScheduler(state, pal, effects.NewRegistry(pixels), driver, Config{
		FPS:              40,
		EffectBrightness: brightness,
	})
	return s, state, pal, driver
}

func TestApplyOffClearsOnce(t *testing.T) {
	s, state, _, driver := newTestScheduler(6, 255)
	now := time.Now()

	state.MarkDirty()
	s.Apply(now)
	if len(driver.frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(driver.frames))
	}
	for i, c := range driver.frames[0] {
		if c != (strip.Color{}) {
			t.Errorf("pixel %d not cleared: %+v", i, c)
		}
	}

	// Dirty was consumed, nothing more to do.
	s.Apply(now)
	if len(driver.frames) != 1 {
		t.Errorf("frames = %d after second Apply, want 1", len(driver.frames))
	}
}

func TestApplyColorFillsAtEntryBrightness(t *testing.T) {
	s, state, pal, driver := newTestScheduler(4, 255)
	pal.Append(palette.Entry{R: 200, G: 100, B: 50, Brightness: 50})
	state.Mode = device.ModeColor
	state.ColorIndex = 0
	state.MarkDirty()

	s.Apply(time.Now())
	if len(driver.frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(driver.frames))
	}
	want := strip.Color{R: 99, G: 49, B: 24}
	for i, c := range driver.frames[0] {
		if c != want {
			t.Errorf("pixel %d = %+v, want %+v", i, c, want)
		}
	}
}

func TestApplyColorFullBrightnessIsExact(t *testing.T) {
	s, state, pal, driver := newTestScheduler(3, 255)
	pal.SetScratch(palette.Entry{R: 10, G: 20, B: 30, Brightness: 100})
	state.Mode = device.ModeColor
	state.ColorIndex = palette.ScratchIndex
	state.MarkDirty()

	s.Apply(time.Now())
	want := strip.Color{R: 10, G: 20, B: 30}
	if driver.frames[0][0] != want {
		t.Errorf("pixel = %+v, want %+v", driver.frames[0][0], want)
	}
}

func TestEffectRendersImmediatelyOnEntry(t *testing.T) {
	s, state, _, driver := newTestScheduler(6, 255)
	now := time.Now()

	state.Mode = device.ModeEffect
	state.EffectIndex = 2 // theater_chase
	state.MarkDirty()
	s.Apply(now)

	if len(driver.frames) != 1 {
		t.Fatalf("frames = %d, want immediate render on entry", len(driver.frames))
	}
	on := strip.Color{R: 255, G: 160, B: 40}
	want := strip.Buffer{on, {}, {}, on, {}, {}}
	if !slices.Equal(driver.frames[0], want) {
		t.Errorf("frame 0 = %v, want %v", driver.frames[0], want)
	}
}

func TestEffectAdvancesOnFramePeriod(t *testing.T) {
	s, state, _, driver := newTestScheduler(6, 255)
	now := time.Now()

	state.Mode = device.ModeEffect
	state.EffectIndex = 2
	state.MarkDirty()
	s.Apply(now)

	// Same instant: the period has not elapsed.
	s.Advance(now)
	if len(driver.frames) != 1 {
		t.Fatalf("frames = %d, want 1 before period elapses", len(driver.frames))
	}

	s.Advance(now.Add(s.FramePeriod()))
	if len(driver.frames) != 2 {
		t.Fatalf("frames = %d, want 2 after one period", len(driver.frames))
	}
	on := strip.Color{R: 255, G: 160, B: 40}
	want := strip.Buffer{{}, {}, on, {}, {}, on}
	if !slices.Equal(driver.frames[1], want) {
		t.Errorf("frame 1 = %v, want %v", driver.frames[1], want)
	}
}

func TestEffectFrameWrapsAtLoopLength(t *testing.T) {
	s, state, _, driver := newTestScheduler(6, 255)
	now := time.Now()

	state.Mode = device.ModeEffect
	state.EffectIndex = 2 // theater_chase, loop length 3
	state.MarkDirty()
	s.Apply(now)

	for i := 1; i <= 3; i++ {
		now = now.Add(s.FramePeriod())
		s.Advance(now)
	}
	if len(driver.frames) != 4 {
		t.Fatalf("frames = %d, want 4", len(driver.frames))
	}
	if !slices.Equal(driver.frames[3], driver.frames[0]) {
		t.Errorf("frame did not wrap: %v vs %v", driver.frames[3], driver.frames[0])
	}
}

func TestEffectReentryResetsState(t *testing.T) {
	s, state, _, driver := newTestScheduler(20, 255)
	now := time.Now()

	state.Mode = device.ModeEffect
	state.EffectIndex = 7 // meteor
	state.MarkDirty()
	s.Apply(now)
	for i := 0; i < 10; i++ {
		now = now.Add(s.FramePeriod())
		s.Advance(now)
	}

	// Re-entering restarts from frame zero with a clean trail: only the
	// head pixel may be lit.
	state.MarkDirty()
	s.Apply(now.Add(s.FramePeriod()))
	last := driver.frames[len(driver.frames)-1]
	for i := 1; i < len(last); i++ {
		if last[i] != (strip.Color{}) {
			t.Errorf("pixel %d still lit after reset: %+v", i, last[i])
		}
	}
}

func TestEffectBrightnessApplied(t *testing.T) {
	s, state, _, driver := newTestScheduler(3, 128)
	state.Mode = device.ModeEffect
	state.EffectIndex = 2
	state.MarkDirty()

	s.Apply(time.Now())
	want := strip.Color{R: 128, G: 80, B: 20}
	if driver.frames[0][0] != want {
		t.Errorf("scaled pixel = %+v, want %+v", driver.frames[0][0], want)
	}
}

func TestAdvanceIgnoresNonEffectModes(t *testing.T) {
	s, state, _, driver := newTestScheduler(4, 255)
	now := time.Now()

	state.Mode = device.ModeOff
	s.Advance(now.Add(time.Second))
	state.Mode = device.ModeColor
	s.Advance(now.Add(2 * time.Second))

	if len(driver.frames) != 0 {
		t.Errorf("frames = %d, want 0", len(driver.frames))
	}
}

func TestPushSurvivesDriverFailure(t *testing.T) {
	s, state, _, driver := newTestScheduler(4, 255)
	driver.failRender = true

	state.MarkDirty()
	s.Apply(time.Now())

	driver.failRender = false
	state.MarkDirty()
	s.Apply(time.Now())
	if len(driver.frames) != 1 {
		t.Errorf("frames = %d, want 1 after driver recovers", len(driver.frames))
	}
}
