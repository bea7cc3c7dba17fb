package gomotion

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultBlockSize is the macroblock side used when callers have no reason to
// pick another one.
const DefaultBlockSize = 16

// SearchOptions configures EstimateWithOptions.
type SearchOptions struct {
	// Side of the square blocks, at least 1.
	BlockSize int
	// Maximum displacement searched on each axis, at least 0.
	SearchRadius int
	// How the search window is clipped at the frame borders.
	Window WindowPolicy
	// Number of block rows searched concurrently. Zero or negative selects
	// runtime.NumCPU(); 1 searches sequentially on the calling goroutine.
	Workers int
}

func (o SearchOptions) validate() error {
	if o.BlockSize < 1 {
		return fmt.Errorf("%w: block size %d", ErrInvalidParameter,
			o.BlockSize)
	}
	if o.SearchRadius < 0 {
		return fmt.Errorf("%w: search radius %d", ErrInvalidParameter,
			o.SearchRadius)
	}
	if o.Window != WindowSymmetric && o.Window != WindowLegacy {
		return fmt.Errorf("%w: window policy %v", ErrInvalidParameter,
			o.Window)
	}
	return nil
}

// Estimate runs an exhaustive block-matching search of current against
// reference and returns one MotionVector per whole block, in raster order.
//
// It is EstimateWithOptions with the default window policy and worker count.
func Estimate(reference, current *Frame, blockSize, searchRadius int) (
	VectorField, error) {
	return EstimateWithOptions(reference, current, SearchOptions{
		BlockSize: blockSize, SearchRadius: searchRadius})
}

// EstimateWithOptions partitions current into non-overlapping blocks of side
// opts.BlockSize and, for each, evaluates every candidate position of the
// search window in reference, keeping the one with the lowest sum of absolute
// differences. Ties keep the first candidate in scan order (rows top to
// bottom, then columns left to right).
//
// Columns and rows at the right and bottom that do not fill a whole block are
// not matched. A block whose search window is empty gets a zero vector with
// +Inf cost.
//
// The result is independent of opts.Workers. Returns ErrInvalidDimension if
// the frames are not usable or differ in size, and ErrInvalidParameter for
// invalid options.
func EstimateWithOptions(reference, current *Frame, opts SearchOptions) (
	VectorField, error) {
	if err := validatePair(reference, current, "reference",
		"current"); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	cols, rows := BlockGrid(current.Width, current.Height, opts.BlockSize)
	vectors := make(VectorField, cols*rows)

	searchRow := func(row int) {
		y := row * opts.BlockSize
		for col := 0; col < cols; col++ {
			vectors[row*cols+col] = searchBlock(reference, current,
				col*opts.BlockSize, y, opts)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 || rows <= 1 {
		for row := 0; row < rows; row++ {
			searchRow(row)
		}
		return vectors, nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for row := 0; row < rows; row++ {
		g.Go(func() error {
			searchRow(row)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return vectors, nil
}

// searchBlock performs the full search for the block anchored at (x, y).
func searchBlock(reference, current *Frame, x, y int, opts SearchOptions,
) MotionVector {
	b := opts.BlockSize
	xLo, xHi := opts.Window.searchRange(x, opts.SearchRadius, b,
		current.Width)
	yLo, yHi := opts.Window.searchRange(y, opts.SearchRadius, b,
		current.Height)

	best := MotionVector{X: x, Y: y, Cost: math.Inf(1)}
	var bestCost int64 = math.MaxInt64

	for ry := yLo; ry < yHi; ry++ {
		for rx := xLo; rx < xHi; rx++ {
			cost := sad(current, x, y, reference, rx, ry, b, bestCost)
			if cost < bestCost {
				bestCost = cost
				best.U, best.V = rx-x, ry-y
				best.Cost = float64(cost)
			}
		}
	}
	return best
}

// sad returns the sum of absolute differences between the b×b blocks of a at
// (ax, ay) and c at (cx, cy). Both frames have the same width.
//
// Summation stops early once the partial sum reaches limit, since such a
// candidate can no longer win; the returned value is then >= limit.
func sad(a *Frame, ax, ay int, c *Frame, cx, cy, b int, limit int64) int64 {
	var sum int64
	stride := a.Width
	for row := 0; row < b; row++ {
		ra := a.Pix[(ay+row)*stride+ax : (ay+row)*stride+ax+b]
		rc := c.Pix[(cy+row)*stride+cx : (cy+row)*stride+cx+b]
		for i := range ra {
			d := int64(ra[i]) - int64(rc[i])
			if d < 0 {
				d = -d
			}
			sum += d
		}
		if sum >= limit {
			return sum
		}
	}
	return sum
}
