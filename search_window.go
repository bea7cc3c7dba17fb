package gomotion

import (
	"fmt"
	"strings"
)

// WindowPolicy selects how the full-search window is clipped at the frame
// borders.
type WindowPolicy int

const (
	// WindowSymmetric searches anchors in [max(0, p-r), min(limit-b, p+r)],
	// both ends included. The window shrinks the same way at every border
	// and always contains the block's own position, so a static block is
	// always found with zero displacement.
	WindowSymmetric WindowPolicy = iota
	// WindowLegacy searches anchors in [max(0, p-r), min(limit-b, p+r)),
	// upper end excluded. Near the right and bottom borders the window is
	// narrower than near the left and top ones, blocks in the last column or
	// row can never keep their own position, and a radius of 0 leaves the
	// window empty. Use it to reproduce vector fields of tools that clip the
	// window this way.
	WindowLegacy
)

func (p WindowPolicy) String() string {
	switch p {
	case WindowSymmetric:
		return "symmetric"
	case WindowLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("WindowPolicy(%d)", int(p))
	}
}

// ParseWindowPolicy converts a policy name as printed by String back to a
// WindowPolicy.
func ParseWindowPolicy(s string) (WindowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "symmetric", "":
		return WindowSymmetric, nil
	case "legacy":
		return WindowLegacy, nil
	default:
		return 0, fmt.Errorf("%w: unknown window policy %q",
			ErrInvalidParameter, s)
	}
}

// searchRange returns the half-open range [lo, hi) of candidate anchors on
// one axis for a block anchored at pos. The range is empty when hi <= lo.
func (p WindowPolicy) searchRange(pos, radius, blockSize, limit int) (lo,
	hi int) {
	lo = max(0, pos-radius)
	hi = min(limit-blockSize, pos+radius)
	if p != WindowLegacy {
		hi++
	}
	return lo, hi
}
