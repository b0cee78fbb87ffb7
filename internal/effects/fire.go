package effects

import (
	"math/rand"

	"github.com/lednode/lednode/internal/strip"
)

const (
	fireCooling  = 55
	fireSparking = 120
)

// fire diffuses a per-pixel heat field up the strip and maps heat onto a
// black-red-yellow-white ramp.
type fire struct {
	heat []int
	rnd  *rand.Rand
}

func newFire() *fire {
	return &fire{rnd: rand.New(rand.NewSource(rand.Int63()))}
}

func (fire) Name() string { return "fire" }

func (fire) LoopLength() int { return 256 }

func (f *fire) RenderStep(_ int, buf strip.Buffer) {
	n := len(buf)
	if len(f.heat) != n {
		f.heat = make([]int, n)
	}

	// Cool every cell a little.
	for i := range f.heat {
		f.heat[i] -= f.rnd.Intn(fireCooling*10/n + 2)
		if f.heat[i] < 0 {
			f.heat[i] = 0
		}
	}

	// Heat drifts away from the base and diffuses.
	for k := n - 1; k >= 2; k-- {
		f.heat[k] = (f.heat[k-1] + 2*f.heat[k-2]) / 3
	}

	// Fresh sparks land near the base.
	if f.rnd.Intn(255) < fireSparking {
		y := f.rnd.Intn(min(7, n))
		f.heat[y] += 160 + f.rnd.Intn(96)
		if f.heat[y] > 255 {
			f.heat[y] = 255
		}
	}

	for i := range buf {
		buf[i] = heatColor(f.heat[i])
	}
}

// Reset cools the field so a fresh activation flares up from dark.
func (f *fire) Reset() {
	for i := range f.heat {
		f.heat[i] = 0
	}
}

func heatColor(h int) strip.Color {
	t := h * 191 / 255
	ramp := uint8(t&63) * 4
	switch {
	case t > 127:
		return strip.Color{R: 255, G: 255, B: ramp}
	case t > 63:
		return strip.Color{R: 255, G: ramp}
	default:
		return strip.Color{R: ramp}
	}
}
