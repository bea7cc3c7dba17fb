package main

import (
	"fmt"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

// MetricHandler is the interface that every metric must implement
type MetricHandler interface {
	Name() string
	// Columns lists the score keys Compute returns, in output order.
	Columns() []string
	Close()
	Compute(r *pairResult) (map[string]float64, error)
}

// metricBuilders maps every metric name accepted on the command line to its
// constructor.
var metricBuilders = map[string]func() MetricHandler{
	"psnr":   func() MetricHandler { return psnrHandler{} },
	"mse":    func() MetricHandler { return mseHandler{} },
	"sad":    func() MetricHandler { return sadHandler{} },
	"motion": func() MetricHandler { return motionHandler{} },
}

// metricColumns returns the score keys produced by the named metrics.
func metricColumns(names []string) ([]string, error) {
	var cols []string
	for _, name := range names {
		build, ok := metricBuilders[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric %s", name)
		}
		m := build()
		cols = append(cols, m.Columns()...)
		m.Close()
	}
	return cols, nil
}

// psnrHandler reports the PSNR of the prediction in dB. Identical frames
// score +Inf.
type psnrHandler struct{}

func (psnrHandler) Name() string      { return "psnr" }
func (psnrHandler) Columns() []string { return []string{"psnr"} }
func (psnrHandler) Close()            {}

func (h psnrHandler) Compute(r *pairResult) (map[string]float64, error) {
	psnr, err := motion.PSNR(r.current, r.predicted)
	if err != nil {
		return nil, fmt.Errorf("psnr failed: %w", err)
	}
	return map[string]float64{h.Name(): psnr}, nil
}

// mseHandler reports the mean squared error of the prediction.
type mseHandler struct{}

func (mseHandler) Name() string      { return "mse" }
func (mseHandler) Columns() []string { return []string{"mse"} }
func (mseHandler) Close()            {}

func (h mseHandler) Compute(r *pairResult) (map[string]float64, error) {
	mse, err := motion.MSE(r.current, r.predicted)
	if err != nil {
		return nil, fmt.Errorf("mse failed: %w", err)
	}
	return map[string]float64{h.Name(): mse}, nil
}

// sadHandler reports the mean block-matching cost over the blocks that were
// searched.
type sadHandler struct{}

func (sadHandler) Name() string      { return "sad" }
func (sadHandler) Columns() []string { return []string{"sad"} }
func (sadHandler) Close()            {}

func (h sadHandler) Compute(r *pairResult) (map[string]float64, error) {
	stats := r.vectors.Stats()
	return map[string]float64{h.Name(): stats.MeanCost}, nil
}

// motionHandler summarises the vector field: the mean displacement length
// and the share of blocks that did not move.
type motionHandler struct{}

func (motionHandler) Name() string { return "motion" }
func (motionHandler) Columns() []string {
	return []string{"motion_magnitude", "motion_zero_ratio"}
}
func (motionHandler) Close() {}

func (h motionHandler) Compute(r *pairResult) (map[string]float64, error) {
	stats := r.vectors.Stats()
	return map[string]float64{
		h.Name() + "_magnitude":  stats.MeanMagnitude,
		h.Name() + "_zero_ratio": stats.ZeroRatio(),
	}, nil
}
