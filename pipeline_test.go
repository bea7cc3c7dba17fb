package gomotion_test

import (
	"bytes"
	"testing"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

// A bright square moves up and to the left by 4 pixels on a flat background.
// The top-left block of the current frame finds the square 4 pixels further
// down and right in the reference, the other blocks find clean background,
// and the prediction is exact.
func Test_Pipeline_MovingSquare(t *testing.T) {
	reference := makeFlatFrame(t, 32, 32, 40)
	fillRect(reference, 8, 8, 8, 8, 230)
	current := makeFlatFrame(t, 32, 32, 40)
	fillRect(current, 4, 4, 8, 8, 230)

	vectors, err := motion.Estimate(reference, current, 16, 7)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if len(vectors) != 4 {
		t.Fatalf("got %d vectors, want 4", len(vectors))
	}
	if mv := vectors[0]; mv.U != 4 || mv.V != 4 || mv.Cost != 0 {
		t.Fatalf("top-left vector = %+v, want (4,4) cost 0", mv)
	}
	for i, mv := range vectors {
		if mv.Cost != 0 {
			t.Errorf("vector %d = %+v, want cost 0", i, mv)
		}
	}

	predicted, err := motion.Reconstruct(reference, vectors, 16)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if !bytes.Equal(predicted.Pix, current.Pix) {
		t.Fatal("prediction differs from the current frame")
	}

	psnr, err := motion.PSNR(current, predicted)
	if err != nil {
		t.Fatalf("PSNR: %v", err)
	}
	if psnr <= 30 {
		t.Fatalf("PSNR = %.2f dB, want > 30", psnr)
	}

	residual, err := motion.Residual(current, predicted)
	if err != nil {
		t.Fatalf("Residual: %v", err)
	}
	for i, v := range residual.Pix {
		if v != 0 {
			t.Fatalf("residual[%d] = %d, want 0", i, v)
		}
	}
}

// Without motion compensation the same pair is predicted much worse.
func Test_Pipeline_CompensationBeatsStaticPrediction(t *testing.T) {
	reference := makeFlatFrame(t, 32, 32, 40)
	fillRect(reference, 8, 8, 8, 8, 230)
	current := makeFlatFrame(t, 32, 32, 40)
	fillRect(current, 4, 4, 8, 8, 230)

	static, err := motion.PSNR(current, reference)
	if err != nil {
		t.Fatalf("PSNR: %v", err)
	}

	vectors, err := motion.Estimate(reference, current, 16, 7)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	predicted, err := motion.Reconstruct(reference, vectors, 16)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	compensated, err := motion.PSNR(current, predicted)
	if err != nil {
		t.Fatalf("PSNR: %v", err)
	}

	if compensated <= static {
		t.Fatalf("compensated PSNR %.2f dB not above static %.2f dB",
			compensated, static)
	}
}

func Test_Pipeline_Deterministic(t *testing.T) {
	reference := makeTestFrame(t, 64, 48)
	current := makeTestFrame(t, 48, 64)
	current.Width, current.Height = 64, 48

	run := func() (motion.VectorField, *motion.Frame) {
		vectors, err := motion.Estimate(reference, current, 8, 4)
		if err != nil {
			t.Fatalf("Estimate: %v", err)
		}
		predicted, err := motion.Reconstruct(reference, vectors, 8)
		if err != nil {
			t.Fatalf("Reconstruct: %v", err)
		}
		return vectors, predicted
	}

	v1, p1 := run()
	v2, p2 := run()
	if len(v1) != len(v2) {
		t.Fatalf("vector counts differ: %d vs %d", len(v1), len(v2))
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("vector %d differs: %+v vs %+v", i, v1[i], v2[i])
		}
	}
	if !bytes.Equal(p1.Pix, p2.Pix) {
		t.Fatal("predicted frames differ between runs")
	}
}
