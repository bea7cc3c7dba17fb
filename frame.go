package gomotion

import "fmt"

// Frame is a single-channel 8-bit image stored row-major with no padding
// between rows.
//
// A Frame is treated as immutable by every operation in this package: inputs
// are only read, and results are always returned as freshly allocated
// frames owned by the caller.
type Frame struct {
	// Width and Height are the dimensions of the frame in pixels. Both must
	// be positive for the frame to be usable.
	Width, Height int
	// Pix holds Width*Height samples, row y starting at Pix[y*Width].
	Pix []byte
}

// NewFrame allocates a zero-filled frame of the given size.
//
// Returns ErrInvalidDimension if either dimension is not positive.
func NewFrame(width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: frame size %dx%d", ErrInvalidDimension,
			width, height)
	}
	return &Frame{Width: width, Height: height,
		Pix: make([]byte, width*height)}, nil
}

// NewFrameFromPlane copies a strided 8-bit plane into a new Frame.
//
// lineSize is the distance in bytes between the starts of two consecutive
// rows in data, as reported by decoders for each plane. It must be at least
// width and data must hold height rows of it (the last row only needs width
// bytes).
func NewFrameFromPlane(data []byte, lineSize, width, height int) (*Frame,
	error) {
	f, err := NewFrame(width, height)
	if err != nil {
		return nil, err
	}
	if lineSize < width {
		return nil, fmt.Errorf("%w: line size %d smaller than width %d",
			ErrInvalidDimension, lineSize, width)
	}
	if need := lineSize*(height-1) + width; len(data) < need {
		return nil, fmt.Errorf("%w: plane holds %d bytes, need %d",
			ErrInvalidDimension, len(data), need)
	}

	for y := 0; y < height; y++ {
		copy(f.Pix[y*width:(y+1)*width], data[y*lineSize:y*lineSize+width])
	}
	return f, nil
}

// At returns the sample at (x, y). It panics if the coordinates are outside
// the frame.
func (f *Frame) At(x, y int) uint8 { return f.Pix[y*f.Width+x] }

// SetAt stores v at (x, y). It is meant for building frames; none of the
// package operations call it on their inputs.
func (f *Frame) SetAt(x, y int, v uint8) { f.Pix[y*f.Width+x] = v }

// Row returns the samples of row y without copying.
func (f *Frame) Row(y int) []byte { return f.Pix[y*f.Width : (y+1)*f.Width] }

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &Frame{Width: f.Width, Height: f.Height, Pix: pix}
}

// SameSize reports whether f and other have identical dimensions.
func (f *Frame) SameSize(other *Frame) bool {
	return f.Width == other.Width && f.Height == other.Height
}

// validate checks the frame invariants every operation relies on.
func (f *Frame) validate(name string) error {
	if f == nil {
		return fmt.Errorf("%w: %s frame is nil", ErrInvalidDimension, name)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: %s frame is %dx%d", ErrInvalidDimension, name,
			f.Width, f.Height)
	}
	if len(f.Pix) != f.Width*f.Height {
		return fmt.Errorf("%w: %s frame holds %d samples, want %d",
			ErrInvalidDimension, name, len(f.Pix), f.Width*f.Height)
	}
	return nil
}

// validatePair checks both frames and that their dimensions match.
func validatePair(a, b *Frame, nameA, nameB string) error {
	if err := a.validate(nameA); err != nil {
		return err
	}
	if err := b.validate(nameB); err != nil {
		return err
	}
	if !a.SameSize(b) {
		return fmt.Errorf("%w: %s is %dx%d but %s is %dx%d",
			ErrInvalidDimension, nameA, a.Width, a.Height, nameB, b.Width,
			b.Height)
	}
	return nil
}

// SideBySide places left and right next to each other in a new frame of
// width left.Width+right.Width. Both frames must have the same height.
func SideBySide(left, right *Frame) (*Frame, error) {
	if err := left.validate("left"); err != nil {
		return nil, err
	}
	if err := right.validate("right"); err != nil {
		return nil, err
	}
	if left.Height != right.Height {
		return nil, fmt.Errorf("%w: heights %d and %d differ",
			ErrInvalidDimension, left.Height, right.Height)
	}

	out, err := NewFrame(left.Width+right.Width, left.Height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < out.Height; y++ {
		row := out.Row(y)
		copy(row, left.Row(y))
		copy(row[left.Width:], right.Row(y))
	}
	return out, nil
}
