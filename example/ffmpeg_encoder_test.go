package main

import (
	"slices"
	"testing"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

func Test_PadToEven_OddFrame(t *testing.T) {
	f, err := motion.NewFrameFromPlane([]byte{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}, 3, 3, 3)
	if err != nil {
		t.Fatalf("NewFrameFromPlane: %v", err)
	}

	dst := make([]byte, evenUp(f.Width)*evenUp(f.Height))
	padToEven(dst, f)

	want := []byte{
		1, 2, 3, 3,
		4, 5, 6, 6,
		7, 8, 9, 9,
		7, 8, 9, 9,
	}
	if !slices.Equal(dst, want) {
		t.Fatalf("padded = %v, want %v", dst, want)
	}
}

func Test_PadToEven_OddHeightOnly(t *testing.T) {
	f, err := motion.NewFrameFromPlane([]byte{10, 20, 30, 40, 50, 60}, 2, 2,
		3)
	if err != nil {
		t.Fatalf("NewFrameFromPlane: %v", err)
	}

	dst := make([]byte, evenUp(f.Width)*evenUp(f.Height))
	padToEven(dst, f)

	want := []byte{10, 20, 30, 40, 50, 60, 50, 60}
	if !slices.Equal(dst, want) {
		t.Fatalf("padded = %v, want %v", dst, want)
	}
}

func Test_EvenUp(t *testing.T) {
	for in, want := range map[int]int{1: 2, 2: 2, 241: 242, 320: 320} {
		if got := evenUp(in); got != want {
			t.Errorf("evenUp(%d) = %d, want %d", in, got, want)
		}
	}
}

func Test_FFmpegEncoderArgs(t *testing.T) {
	args := ffmpegEncoderArgs(322, 242, 25, []string{"-c:v", "libx264"},
		"out.mp4")
	want := []string{"-y", "-loglevel", "error", "-f", "rawvideo",
		"-pixel_format", "gray", "-s", "322x242", "-r", "25.00", "-i", "-",
		"-pix_fmt", "yuv420p", "-c:v", "libx264", "out.mp4"}
	if !slices.Equal(args, want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
}
