package effects

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lednode/lednode/internal/strip"
)

// gradientTable maps gradient keypoints, sorted by position in [0,1],
// to colors. Blending happens in HCL space to keep the ramp perceptually
// smooth.
type gradientTable []struct {
	Col colorful.Color
	Pos float64
}

func (gt gradientTable) colorAt(t float64) colorful.Color {
	for i := 0; i < len(gt)-1; i++ {
		c1 := gt[i]
		c2 := gt[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			frac := (t - c1.Pos) / (c2.Pos - c1.Pos)
			return c1.Col.BlendHcl(c2.Col, frac).Clamped()
		}
	}
	return gt[len(gt)-1].Col
}

// breatheSteps frames cover one inhale and exhale, three seconds at the
// default frame rate.
const breatheSteps = 120

// breathe fades the whole strip from near-dark up to a cool cyan and back.
type breathe struct {
	colors []strip.Color
}

func newBreathe() *breathe {
	from := colorful.Color{R: 0.01, G: 0.02, B: 0.05}
	to := colorful.Color{R: 0.0, G: 0.75, B: 0.85}
	keypoints := gradientTable{
		{from, 0.0},
		{to, 0.2},
		{to, 0.8},
		{from, 1.0},
	}

	b := &breathe{colors: make([]strip.Color, breatheSteps)}
	for i := range b.colors {
		c := keypoints.colorAt(float64(i) / float64(breatheSteps-1))
		r, g, cb := c.RGB255()
		b.colors[i] = strip.Color{R: r, G: g, B: cb}
	}
	return b
}

func (breathe) Name() string { return "breathe" }

func (b *breathe) LoopLength() int { return len(b.colors) }

func (b *breathe) RenderStep(frame int, buf strip.Buffer) {
	buf.Fill(b.colors[frame%len(b.colors)])
}
