package gomotion

import "fmt"

// Residual returns the per-pixel absolute difference between actual and
// predicted, the part of a frame a codec would still have to transmit after
// motion compensation.
//
// The difference is taken in int and clamped to [0, 255], so the result does
// not depend on operand order. Returns ErrInvalidDimension if the frames are
// unusable or differ in size.
func Residual(actual, predicted *Frame) (*Frame, error) {
	if err := validatePair(actual, predicted, "actual",
		"predicted"); err != nil {
		return nil, err
	}

	out, err := NewFrame(actual.Width, actual.Height)
	if err != nil {
		return nil, err
	}
	for i, a := range actual.Pix {
		out.Pix[i] = uint8(clamp(absInt(int(a)-int(predicted.Pix[i])), 0, 255))
	}
	return out, nil
}

// Amplify returns a copy of f with every sample multiplied by gain and
// saturated at 255. It is used to make faint residuals visible.
func Amplify(f *Frame, gain int) (*Frame, error) {
	if err := f.validate("input"); err != nil {
		return nil, err
	}
	if gain < 0 {
		return nil, fmt.Errorf("%w: gain %d", ErrInvalidParameter, gain)
	}

	out := f.Clone()
	for i, v := range out.Pix {
		out.Pix[i] = uint8(min(int(v)*gain, 255))
	}
	return out, nil
}
