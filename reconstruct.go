package gomotion

import "fmt"

// Reconstruct builds the motion-compensated prediction of a frame from
// reference and the vector field describing it.
//
// For each vector the block at (X+U, Y+V) in reference, clamped so that it
// lies inside the frame, is copied to (X, Y) of the output. Vectors are
// trusted only as far as their destination: a destination too close to the
// right or bottom edge receives just the rows and columns that fit, and one
// outside the frame is ignored. Pixels no vector covers, such as the
// remainder strip Estimate leaves unmatched, stay 0.
//
// The output has reference's dimensions. Returns ErrInvalidDimension for an
// unusable reference and ErrInvalidParameter for blockSize < 1.
func Reconstruct(reference *Frame, vectors VectorField, blockSize int) (
	*Frame, error) {
	if err := reference.validate("reference"); err != nil {
		return nil, err
	}
	if blockSize < 1 {
		return nil, fmt.Errorf("%w: block size %d", ErrInvalidParameter,
			blockSize)
	}

	w, h := reference.Width, reference.Height
	out, err := NewFrame(w, h)
	if err != nil {
		return nil, err
	}

	for _, mv := range vectors {
		if mv.X < 0 || mv.Y < 0 || mv.X >= w || mv.Y >= h {
			continue
		}
		sx := clampAnchor(mv.X+mv.U, blockSize, w)
		sy := clampAnchor(mv.Y+mv.V, blockSize, h)

		// The copied region is limited by what is left of the frame both at
		// the source and at the destination.
		bw := min(blockSize, w-sx, w-mv.X)
		bh := min(blockSize, h-sy, h-mv.Y)

		for row := 0; row < bh; row++ {
			src := reference.Pix[(sy+row)*w+sx : (sy+row)*w+sx+bw]
			copy(out.Pix[(mv.Y+row)*w+mv.X:], src)
		}
	}
	return out, nil
}
