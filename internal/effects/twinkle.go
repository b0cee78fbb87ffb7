package effects

import (
	"math/rand"

	"github.com/lednode/lednode/internal/strip"
)

// twinkle lights one new random pixel per frame, keeping earlier ones lit,
// and starts over from dark when the loop wraps.
type twinkle struct {
	lit strip.Buffer
	rnd *rand.Rand
}

func newTwinkle() *twinkle {
	return &twinkle{rnd: rand.New(rand.NewSource(rand.Int63()))}
}

func (twinkle) Name() string { return "twinkle" }

func (twinkle) LoopLength() int { return 40 }

func (t *twinkle) RenderStep(frame int, buf strip.Buffer) {
	n := len(buf)
	if len(t.lit) != n {
		t.lit = strip.NewBuffer(n)
	}
	if frame == 0 {
		t.lit.Clear()
	}

	t.lit[t.rnd.Intn(n)] = strip.Color{R: 255, G: 210, B: 120}
	copy(buf, t.lit)
}

func (t *twinkle) Reset() {
	t.lit.Clear()
}
