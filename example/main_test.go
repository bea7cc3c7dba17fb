package main

import (
	"io"
	"log"
	"os"
	"testing"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	currentLogLevel = LogError
	os.Exit(m.Run())
}

// sliceSource serves frames from memory.
type sliceSource struct {
	frames []*motion.Frame
	next   int
	closed bool
}

func (s *sliceSource) Next() (*motion.Frame, error) {
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

// squareFrame returns a 32×32 frame with background 40 and an 8×8 square of
// 230 at (x, y).
func squareFrame(t testing.TB, x, y int) *motion.Frame {
	t.Helper()
	f, err := motion.NewFrame(32, 32)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	for i := range f.Pix {
		f.Pix[i] = 40
	}
	for j := y; j < y+8; j++ {
		for i := x; i < x+8; i++ {
			f.SetAt(i, j, 230)
		}
	}
	return f
}

// squareSequence alternates the square between (8,8) and (4,4). Pairs with
// an even index are predicted exactly.
func squareSequence(t testing.TB, n int) []*motion.Frame {
	frames := make([]*motion.Frame, n)
	for i := range frames {
		if i%2 == 0 {
			frames[i] = squareFrame(t, 8, 8)
		} else {
			frames[i] = squareFrame(t, 4, 4)
		}
	}
	return frames
}

func Test_ParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LoggingLevel
		wantErr bool
	}{
		{"error", LogError, false},
		{"INFO", LogInfo, false},
		{"debug", LogDebug, false},
		{"verbose", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseLogLevel(%q) error = %v", tt.in, err)
		}
		if err == nil && got != tt.want {
			t.Fatalf("parseLogLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func Test_PrettyMap(t *testing.T) {
	got := prettyMap(map[string]float64{"sad": 2, "psnr": 1.5})
	if got != "{psnr=1.5, sad=2}" {
		t.Fatalf("prettyMap = %q", got)
	}
	if prettyMap(map[string]int{}) != "{}" {
		t.Fatal("empty map should print {}")
	}
}
