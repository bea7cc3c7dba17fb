package main

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func Test_PearsonCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	if r := pearsonCorrelation(x, []float64{2, 4, 6, 8}); math.Abs(r-1) > 1e-12 {
		t.Fatalf("r = %v, want 1", r)
	}
	if r := pearsonCorrelation(x, []float64{8, 6, 4, 2}); math.Abs(r+1) > 1e-12 {
		t.Fatalf("r = %v, want -1", r)
	}
	if r := pearsonCorrelation(x, []float64{5, 5, 5, 5}); r != 0 {
		t.Fatalf("constant input: r = %v, want 0", r)
	}
	if r := pearsonCorrelation(x, x[:2]); r != 0 {
		t.Fatalf("mismatched input: r = %v, want 0", r)
	}
}

func Test_FiniteValues(t *testing.T) {
	got, skipped := finiteValues([]float64{1, math.Inf(1), 2, math.NaN()})
	if skipped != 2 || len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("finiteValues = %v, %d", got, skipped)
	}

	x, y := finitePairs([]float64{1, math.Inf(1), 3}, []float64{4, 5, 6})
	if len(x) != 2 || x[1] != 3 || y[1] != 6 {
		t.Fatalf("finitePairs = %v, %v", x, y)
	}
}

func Test_WriteSummary(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, map[string][]float64{
		"psnr": {30, math.Inf(1), 40},
		"sad":  {20, 0, 10},
	}, []float64{1.5, 2.5, 2})

	out := buf.String()
	for _, want := range []string{
		"Metric summary",
		"psnr",
		"infinite: 1 of 3",
		"  min     : 30.000000",
		"  max     : 40.000000",
		"time_ms",
		"  average : 2.000000",
		"Metric correlations",
		"psnr ↔ sad  :  1.000000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary lacks %q:\n%s", want, out)
		}
	}
}

func Test_WriteSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, nil, nil)
	if !strings.Contains(buf.String(), "No scores to report") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
