package gomotion_test

import (
	"bytes"
	"errors"
	"testing"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

func Test_Residual_AbsoluteDifference(t *testing.T) {
	a := makeTestFrame(t, 33, 17)
	b := makeTestFrame(t, 17, 33)
	b.Width, b.Height = 33, 17

	ab, err := motion.Residual(a, b)
	if err != nil {
		t.Fatalf("Residual(a, b): %v", err)
	}
	ba, err := motion.Residual(b, a)
	if err != nil {
		t.Fatalf("Residual(b, a): %v", err)
	}

	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		if int(ab.Pix[i]) != d {
			t.Fatalf("residual[%d] = %d, want %d", i, ab.Pix[i], d)
		}
	}
	if !bytes.Equal(ab.Pix, ba.Pix) {
		t.Fatal("Residual is not symmetric")
	}
}

func Test_Residual_Extremes(t *testing.T) {
	black := makeFlatFrame(t, 4, 4, 0)
	white := makeFlatFrame(t, 4, 4, 255)

	res, err := motion.Residual(black, white)
	if err != nil {
		t.Fatalf("Residual: %v", err)
	}
	for i, v := range res.Pix {
		if v != 255 {
			t.Fatalf("residual[%d] = %d, want 255", i, v)
		}
	}

	res, err = motion.Residual(white, white)
	if err != nil {
		t.Fatalf("Residual: %v", err)
	}
	for i, v := range res.Pix {
		if v != 0 {
			t.Fatalf("residual[%d] = %d, want 0", i, v)
		}
	}
}

func Test_Residual_MismatchedDimensions(t *testing.T) {
	_, err := motion.Residual(makeFlatFrame(t, 4, 4, 0),
		makeFlatFrame(t, 4, 5, 0))
	if !errors.Is(err, motion.ErrInvalidDimension) {
		t.Fatalf("got %v, want ErrInvalidDimension", err)
	}
}

func Test_Amplify_Saturates(t *testing.T) {
	f := makeFlatFrame(t, 2, 1, 0)
	f.Pix[0], f.Pix[1] = 100, 200

	out, err := motion.Amplify(f, 2)
	if err != nil {
		t.Fatalf("Amplify: %v", err)
	}
	if out.Pix[0] != 200 || out.Pix[1] != 255 {
		t.Fatalf("Amplify = %v, want [200 255]", out.Pix)
	}
	if f.Pix[0] != 100 {
		t.Fatal("Amplify modified its input")
	}
	if _, err := motion.Amplify(f, -1); !errors.Is(err,
		motion.ErrInvalidParameter) {
		t.Fatalf("negative gain: got %v", err)
	}
}
