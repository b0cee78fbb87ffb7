package effects

import (
	"math/rand"

	"github.com/lednode/lednode/internal/strip"
)

const meteorSize = 4

// meteor shoots a bright head along the strip, leaving a randomly decaying
// trail. The head overshoots the end so the tail can burn out before the
// next pass.
type meteor struct {
	trail strip.Buffer
	rnd   *rand.Rand
	loop  int
}

func newMeteor(pixels int) *meteor {
	return &meteor{
		rnd:  rand.New(rand.NewSource(rand.Int63())),
		loop: 2 * pixels,
	}
}

func (meteor) Name() string { return "meteor" }

func (m *meteor) LoopLength() int { return m.loop }

func (m *meteor) RenderStep(frame int, buf strip.Buffer) {
	n := len(buf)
	if len(m.trail) != n {
		m.trail = strip.NewBuffer(n)
	}

	// Random decay keeps the tail ragged.
	for i := range m.trail {
		if m.rnd.Intn(10) > 4 {
			m.trail[i] = m.trail[i].Scaled(160)
		}
	}

	head := frame % (2 * n)
	for off := 0; off < meteorSize; off++ {
		if p := head - off; p >= 0 && p < n {
			m.trail[p] = strip.Color{R: 180, G: 200, B: 255}
		}
	}

	copy(buf, m.trail)
}

// Reset clears the trail left by the previous activation.
func (m *meteor) Reset() {
	m.trail.Clear()
}
