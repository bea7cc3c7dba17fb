package main

import (
	"encoding/json"
	"math"
	"os"
	"strconv"
	"time"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

// jsonFloat marshals non-finite values as null, which JSON has no number
// for.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func toJSONFloats(values []float64) []jsonFloat {
	out := make([]jsonFloat, len(values))
	for i, v := range values {
		out[i] = jsonFloat(v)
	}
	return out
}

func jsonScores(scores map[string]float64) map[string]jsonFloat {
	out := make(map[string]jsonFloat, len(scores))
	for k, v := range scores {
		out[k] = jsonFloat(v)
	}
	return out
}

// RunSummary is the JSON document written at the end of a run.
type RunSummary struct {
	RunID      string         `json:"run_id"`
	Input      string         `json:"input"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMs float64        `json:"duration_ms"`
	Config     AnalyzerConfig `json:"config"`

	Pairs int `json:"pairs"`
	// Pairs whose prediction was exact.
	IdenticalPairs int `json:"identical_pairs"`

	PSNR      []jsonFloat            `json:"psnr_db"`
	ElapsedMs []float64              `json:"elapsed_ms"`
	Metrics   map[string][]jsonFloat `json:"metrics"`
	Motion    []vectorSummary        `json:"motion"`
}

type vectorSummary struct {
	Blocks        int     `json:"blocks"`
	Zero          int     `json:"zero"`
	Unsearched    int     `json:"unsearched"`
	MeanMagnitude float64 `json:"mean_magnitude"`
	MeanCost      float64 `json:"mean_cost"`
	MaxComponent  int     `json:"max_component"`
}

func newVectorSummary(s motion.VectorFieldStats) vectorSummary {
	return vectorSummary{
		Blocks:        s.Count,
		Zero:          s.Zero,
		Unsearched:    s.Unsearched,
		MeanMagnitude: s.MeanMagnitude,
		MeanCost:      s.MeanCost,
		MaxComponent:  s.MaxComponent,
	}
}

// Summary collects the results of a finished run.
func (ma *MotionAnalyzer) Summary() RunSummary {
	sum := RunSummary{
		RunID:      ma.runID,
		Input:      ma.cfg.InputPath,
		StartedAt:  ma.started,
		DurationMs: float64(ma.duration.Microseconds()) / 1000,
		Config:     ma.cfg,
		Pairs:      len(ma.psnrScores),
		PSNR:       toJSONFloats(ma.psnrScores),
		ElapsedMs:  ma.elapsedMs,
		Metrics:    make(map[string][]jsonFloat, len(ma.finalMetricScores)),
	}

	for _, p := range ma.psnrScores {
		if motion.IsIdentical(p) {
			sum.IdenticalPairs++
		}
	}
	for name, values := range ma.finalMetricScores {
		sum.Metrics[name] = toJSONFloats(values)
	}
	for _, s := range ma.vectorStats {
		sum.Motion = append(sum.Motion, newVectorSummary(s))
	}
	return sum
}

func saveSummaryJSON(summary RunSummary, path string) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
