// Package render drives the LED strip from the device state: one-shot
// redraws when the state changes and periodic frames while an effect runs.
package render

import (
	"log/slog"
	"time"

	"github.com/lednode/lednode/internal/device"
	"github.com/lednode/lednode/internal/effects"
	"github.com/lednode/lednode/internal/logging"
	"github.com/lednode/lednode/internal/metrics"
	"github.com/lednode/lednode/internal/palette"
	"github.com/lednode/lednode/internal/strip"
)

// Config tunes the scheduler.
type Config struct {
	// FPS is the effect frame rate. Defaults to 40.
	FPS int
	// EffectBrightness scales every effect frame, 0-255.
	EffectBrightness uint8
}

// Scheduler owns the pixel buffer and decides when to push frames. It runs
// on the core loop; Apply and Advance are never called concurrently.
type Scheduler struct {
	state   *device.State
	palette *palette.Palette
	effects *effects.Registry
	driver  strip.Driver
	logger  *slog.Logger

	buf              strip.Buffer
	framePeriod      time.Duration
	effectBrightness uint8

	frame    int
	lastTick time.Time
}

// NewScheduler creates a scheduler pushing to the given driver.
func NewScheduler(state *device.State, pal *palette.Palette, reg *effects.Registry, driver strip.Driver, cfg Config) *Scheduler {
	fps := cfg.FPS
	if fps <= 0 {
		fps = 40
	}
	return &Scheduler{
		state:            state,
		palette:          pal,
		effects:          reg,
		driver:           driver,
		logger:           logging.GetLogger("render"),
		buf:              strip.NewBuffer(driver.Count()),
		framePeriod:      time.Second / time.Duration(fps),
		effectBrightness: cfg.EffectBrightness,
	}
}

// FramePeriod is how often Advance wants to be called in effect mode.
func (s *Scheduler) FramePeriod() time.Duration {
	return s.framePeriod
}

// Apply services a pending redraw request. The dirty flag is consumed at
// most once per loop iteration, and only here.
func (s *Scheduler) Apply(now time.Time) {
	if !s.state.ConsumeDirty() {
		return
	}

	switch s.state.Mode {
	case device.ModeOff:
		s.buf.Clear()
		s.push()
	case device.ModeColor:
		entry := s.palette.Slot(s.state.ColorIndex)
		color := strip.Color{R: entry.R, G: entry.G, B: entry.B}
		s.buf.Fill(color.Scaled(brightnessScale(entry.Brightness)))
		s.push()
	case device.ModeEffect:
		s.restartEffect(now)
	}
}

// Advance renders the next effect frame once the frame period has elapsed.
// Outside effect mode it does nothing.
func (s *Scheduler) Advance(now time.Time) {
	if s.state.Mode != device.ModeEffect || len(s.buf) == 0 {
		return
	}
	if !s.lastTick.IsZero() && now.Sub(s.lastTick) < s.framePeriod {
		return
	}
	s.lastTick = now

	e := s.effects.At(s.state.EffectIndex)
	e.RenderStep(s.frame, s.buf)
	for i := range s.buf {
		s.buf[i] = s.buf[i].Scaled(s.effectBrightness)
	}
	s.push()

	s.frame++
	if s.frame >= e.LoopLength() {
		s.frame = 0
	}
}

// restartEffect begins the active effect from frame zero, clearing any
// state a previous activation left behind, and renders immediately instead
// of waiting out the frame period.
func (s *Scheduler) restartEffect(now time.Time) {
	s.frame = 0
	if r, ok := s.effects.At(s.state.EffectIndex).(effects.Resettable); ok {
		r.Reset()
	}
	s.lastTick = time.Time{}
	s.Advance(now)
}

func (s *Scheduler) push() {
	if err := s.driver.Render(s.buf); err != nil {
		s.logger.Error("Frame push failed", "error", err)
		return
	}
	metrics.RecordFrame()
}

// brightnessScale maps the palette's 0-100 brightness onto the driver's
// 0-255 range.
func brightnessScale(b uint8) uint8 {
	if b > 100 {
		b = 100
	}
	return uint8(uint16(b) * 255 / 100)
}
