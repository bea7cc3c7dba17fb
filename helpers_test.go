package gomotion_test

import (
	"math/rand/v2"
	"testing"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

// makeTestFrame returns a deterministic noise frame. Blocks of side 2 or more
// practically never repeat inside it, so the zero displacement is the only
// exact match of a block against the same frame.
func makeTestFrame(t testing.TB, w, h int) *motion.Frame {
	t.Helper()
	f, err := motion.NewFrame(w, h)
	if err != nil {
		t.Fatalf("NewFrame(%d, %d): %v", w, h, err)
	}
	rng := rand.New(rand.NewPCG(uint64(w), uint64(h)))
	for i := range f.Pix {
		f.Pix[i] = uint8(rng.UintN(256))
	}
	return f
}

// makeFlatFrame returns a frame filled with v.
func makeFlatFrame(t testing.TB, w, h int, v uint8) *motion.Frame {
	t.Helper()
	f, err := motion.NewFrame(w, h)
	if err != nil {
		t.Fatalf("NewFrame(%d, %d): %v", w, h, err)
	}
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

// fillRect sets the w×h rectangle at (x, y) to v.
func fillRect(f *motion.Frame, x, y, w, h int, v uint8) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			f.SetAt(i, j, v)
		}
	}
}
