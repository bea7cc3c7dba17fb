package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
)

// printSummary displays a human-readable summary of all metric scores and
// of the per-pair timings to stderr.
func printSummary(scores map[string][]float64, elapsedMs []float64) {
	writeSummary(os.Stderr, scores, elapsedMs)
}

func writeSummary(w io.Writer, scores map[string][]float64,
	elapsedMs []float64) {
	if len(scores) == 0 && len(elapsedMs) == 0 {
		fmt.Fprintln(w, "No scores to report")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metric summary")
	fmt.Fprintln(w, "==============")

	// Get sorted metric names for deterministic output
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := scores[name]
		if len(values) == 0 {
			continue
		}
		printMetricSummary(w, name, values)
	}

	if len(elapsedMs) > 0 {
		printMetricSummary(w, "time_ms", elapsedMs)
	}

	if len(names) > 1 {
		printCorrelations(w, scores, names)
	}
}

// finiteValues drops infinite and NaN values. Identical frames have an
// infinite PSNR that would swamp every statistic.
func finiteValues(values []float64) (finite []float64, skipped int) {
	finite = make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			skipped++
			continue
		}
		finite = append(finite, v)
	}
	return finite, skipped
}

// printMetricSummary prints statistical summary for a single metric.
func printMetricSummary(w io.Writer, name string, all []float64) {
	values, skipped := finiteValues(all)
	n := len(values)

	fmt.Fprintln(w)
	fmt.Fprintln(w, name)
	fmt.Fprintln(w, strings.Repeat("-", len(name)))

	if skipped > 0 {
		fmt.Fprintf(w, "  infinite: %d of %d\n", skipped, len(all))
	}
	if n == 0 {
		return
	}

	// Work on a sorted copy for min/max/median
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	min := sorted[0]
	max := sorted[n-1]

	// Mean
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(n)

	// Median
	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2.0
	}

	// Population standard deviation
	var variance float64
	for _, v := range values {
		d := v - avg
		variance += d * d
	}
	variance /= float64(n)
	stddev := math.Sqrt(variance)

	fmt.Fprintf(w, "  min     : %.6f\n", min)
	fmt.Fprintf(w, "  max     : %.6f\n", max)
	fmt.Fprintf(w, "  average : %.6f\n", avg)
	fmt.Fprintf(w, "  median  : %.6f\n", median)
	fmt.Fprintf(w, "  stddev  : %.6f\n", stddev)
}

// printCorrelations prints pairwise absolute Pearson correlations between
// metrics, over the pairs where both values are finite.
func printCorrelations(w io.Writer, scores map[string][]float64,
	names []string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metric correlations")
	fmt.Fprintln(w, "===================")

	// Calculate max name length for alignment
	maxLen := 0
	for _, name := range names {
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}

	formatStr := fmt.Sprintf("  %%-%ds ↔ %%-%ds : %% .6f\n", maxLen, maxLen)

	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]
			x, y := scores[a], scores[b]

			if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
				continue
			}

			x, y = finitePairs(x, y)
			r := pearsonCorrelation(x, y)
			fmt.Fprintf(w, formatStr, a, b, math.Abs(r))
		}
	}
}

// pearsonCorrelation computes the Pearson correlation coefficient.
// Returns 0 if inputs are empty, mismatched, or perfectly constant.
func pearsonCorrelation(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}

	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, denomX, denomY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		num += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}

	denom := math.Sqrt(denomX * denomY)
	if denom == 0 {
		return 0
	}

	return num / denom
}

// finitePairs keeps the positions where both x and y are finite.
func finitePairs(x, y []float64) ([]float64, []float64) {
	fx := make([]float64, 0, len(x))
	fy := make([]float64, 0, len(y))
	for i := range x {
		if math.IsInf(x[i], 0) || math.IsNaN(x[i]) ||
			math.IsInf(y[i], 0) || math.IsNaN(y[i]) {
			continue
		}
		fx = append(fx, x[i])
		fy = append(fy, y[i])
	}
	return fx, fy
}
