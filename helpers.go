package gomotion

// clampAnchor bounds a block anchor coordinate so that a block of side
// blockSize starting there stays inside [0, limit). When the block is larger
// than the frame the only admissible anchor is 0.
//
// It is the single bound check shared by every place that turns a motion
// vector into a reference position, whoever produced the vector.
func clampAnchor(pos, blockSize, limit int) int {
	hi := limit - blockSize
	if hi < 0 {
		hi = 0
	}
	return clamp(pos, 0, hi)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
