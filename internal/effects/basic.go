package effects

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lednode/lednode/internal/strip"
)

// wheel maps 0-255 onto the color wheel red -> green -> blue -> red.
func wheel(pos byte) strip.Color {
	switch {
	case pos < 85:
		return strip.Color{R: pos * 3, G: 255 - pos*3}
	case pos < 170:
		pos -= 85
		return strip.Color{R: 255 - pos*3, B: pos * 3}
	default:
		pos -= 170
		return strip.Color{G: pos * 3, B: 255 - pos*3}
	}
}

type rainbow struct{}

func (rainbow) Name() string { return "rainbow" }

func (rainbow) LoopLength() int { return 256 }

func (rainbow) RenderStep(frame int, buf strip.Buffer) {
	for i := range buf {
		buf[i] = wheel(byte((i + frame) & 255))
	}
}

// rainbowCycle spreads one full wheel revolution across the strip.
type rainbowCycle struct{}

func (rainbowCycle) Name() string { return "rainbow_cycle" }

func (rainbowCycle) LoopLength() int { return 256 }

func (rainbowCycle) RenderStep(frame int, buf strip.Buffer) {
	n := len(buf)
	for i := range buf {
		buf[i] = wheel(byte((i*256/n + frame) & 255))
	}
}

type theaterChase struct{}

func (theaterChase) Name() string { return "theater_chase" }

func (theaterChase) LoopLength() int { return 3 }

func (theaterChase) RenderStep(frame int, buf strip.Buffer) {
	on := strip.Color{R: 255, G: 160, B: 40}
	for i := range buf {
		if (i+frame)%3 == 0 {
			buf[i] = on
		} else {
			buf[i] = strip.Color{}
		}
	}
}

// colorWipe lights the strip pixel by pixel, then darkens it the same way.
type colorWipe struct {
	loop int
}

func newColorWipe(pixels int) *colorWipe {
	return &colorWipe{loop: 2 * pixels}
}

func (colorWipe) Name() string { return "color_wipe" }

func (c *colorWipe) LoopLength() int { return c.loop }

func (c *colorWipe) RenderStep(frame int, buf strip.Buffer) {
	n := len(buf)
	k := frame % (2 * n)
	lit := strip.Color{R: 200, B: 255}
	if k < n {
		for i := range buf {
			if i <= k {
				buf[i] = lit
			} else {
				buf[i] = strip.Color{}
			}
		}
		return
	}
	for i := range buf {
		if i <= k-n {
			buf[i] = strip.Color{}
		} else {
			buf[i] = lit
		}
	}
}

// scanner bounces a bright head with a short tail across the strip.
type scanner struct {
	loop int
}

func newScanner(pixels int) *scanner {
	return &scanner{loop: 2*pixels - 2}
}

func (scanner) Name() string { return "scanner" }

func (s *scanner) LoopLength() int { return s.loop }

func (s *scanner) RenderStep(frame int, buf strip.Buffer) {
	n := len(buf)
	span := 2*n - 2
	pos := frame % span
	if pos >= n {
		pos = span - pos
	}

	buf.Clear()
	for off, level := range []uint8{255, 96, 24} {
		for _, i := range []int{pos - off, pos + off} {
			if i >= 0 && i < n {
				buf[i] = strip.Color{R: level}
			}
		}
	}
}

// runningLights rolls a sine wave of warm light along the strip.
type runningLights struct{}

func (runningLights) Name() string { return "running_lights" }

func (runningLights) LoopLength() int { return 64 }

func (runningLights) RenderStep(frame int, buf strip.Buffer) {
	phase := float64(frame) * (2 * math.Pi / 64)
	base := strip.Color{R: 255, G: 70}
	for i := range buf {
		level := (math.Sin(float64(i)*0.5+phase) + 1) / 2
		buf[i] = base.Scaled(uint8(level * 255))
	}
}

// sparkle flashes a single random pixel white against a dark strip.
type sparkle struct {
	rnd *rand.Rand
}

func newSparkle() *sparkle {
	return &sparkle{rnd: rand.New(rand.NewSource(rand.Int63()))}
}

func (sparkle) Name() string { return "sparkle" }

func (sparkle) LoopLength() int { return 64 }

func (s *sparkle) RenderStep(_ int, buf strip.Buffer) {
	buf.Clear()
	buf[s.rnd.Intn(len(buf))] = strip.Color{R: 255, G: 255, B: 255}
}

// plasma mixes two moving sine fields into a hue sweep.
type plasma struct{}

func (plasma) Name() string { return "plasma" }

func (plasma) LoopLength() int { return 256 }

func (plasma) RenderStep(frame int, buf strip.Buffer) {
	t := float64(frame) * (2 * math.Pi / 256)
	for i := range buf {
		x := float64(i)
		v := math.Sin(x*0.35+3*t) + math.Sin(x*0.15-2*t)
		hue := (v + 2) / 4 * 360
		r, g, b := colorful.Hsv(hue, 1, 1).Clamped().RGB255()
		buf[i] = strip.Color{R: r, G: g, B: b}
	}
}
