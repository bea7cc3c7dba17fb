package gomotion

import "math"

// MotionVector is the result of matching one block of the current frame.
//
// (X, Y) is the block's top-left corner in the current frame and (U, V) the
// displacement to its best match in the reference frame, so the predicted
// block is read from (X+U, Y+V). Cost is the sum of absolute differences of
// that match; lower is better. A Cost of +Inf means no candidate was
// searched and (U, V) defaulted to (0, 0).
type MotionVector struct {
	X, Y int
	U, V int
	Cost float64
}

// IsZero reports whether the vector has no displacement.
func (mv MotionVector) IsZero() bool { return mv.U == 0 && mv.V == 0 }

// Searched reports whether the vector came from a non-empty search window.
func (mv MotionVector) Searched() bool { return !math.IsInf(mv.Cost, 1) }

// Magnitude returns the Euclidean length of the displacement.
func (mv MotionVector) Magnitude() float64 {
	return math.Hypot(float64(mv.U), float64(mv.V))
}

// VectorField holds one MotionVector per block in block raster order: left to
// right within a block row, block rows top to bottom.
type VectorField []MotionVector

// VectorFieldStats summarises a VectorField.
type VectorFieldStats struct {
	// Number of vectors in the field.
	Count int
	// Vectors with (U, V) == (0, 0), including unsearched ones.
	Zero int
	// Vectors whose search window was empty.
	Unsearched int
	// Mean displacement length over all vectors.
	MeanMagnitude float64
	// Mean Cost over searched vectors, 0 when there are none.
	MeanCost float64
	// Largest displacement component seen, in absolute value.
	MaxComponent int
}

// ZeroRatio returns the fraction of vectors without displacement.
func (s VectorFieldStats) ZeroRatio() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Zero) / float64(s.Count)
}

// Stats computes summary statistics for the field.
func (vf VectorField) Stats() VectorFieldStats {
	var s VectorFieldStats
	var magnitudeSum, costSum float64

	s.Count = len(vf)
	for _, mv := range vf {
		if mv.IsZero() {
			s.Zero++
		}
		if !mv.Searched() {
			s.Unsearched++
		} else {
			costSum += mv.Cost
		}
		magnitudeSum += mv.Magnitude()
		s.MaxComponent = max(s.MaxComponent, absInt(mv.U), absInt(mv.V))
	}

	if s.Count > 0 {
		s.MeanMagnitude = magnitudeSum / float64(s.Count)
	}
	if searched := s.Count - s.Unsearched; searched > 0 {
		s.MeanCost = costSum / float64(searched)
	}
	return s
}

// BlockGrid returns the number of whole blocks of side blockSize that fit
// across and down a width×height frame. Trailing columns and rows that do not
// fill a whole block are not part of the grid.
func BlockGrid(width, height, blockSize int) (cols, rows int) {
	if blockSize <= 0 || width <= 0 || height <= 0 {
		return 0, 0
	}
	return width / blockSize, height / blockSize
}
