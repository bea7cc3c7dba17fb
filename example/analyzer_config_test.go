package main

import (
	"errors"
	"slices"
	"testing"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

func validConfig() AnalyzerConfig {
	cfg := defaultConfig()
	cfg.InputPath = "memory"
	return cfg
}

func Test_AnalyzerConfig_Validate(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics = []string{" PSNR", "Motion "}
	cfg.Window = "legacy"
	cfg.WorkerCount = 0
	cfg.ResidualGain = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !slices.Equal(cfg.Metrics, []string{"psnr", "motion"}) {
		t.Fatalf("Metrics = %v, want normalised names", cfg.Metrics)
	}
	if cfg.WorkerCount != 1 || cfg.ResidualGain != 1 {
		t.Fatalf("WorkerCount=%d ResidualGain=%d, want both clamped to 1",
			cfg.WorkerCount, cfg.ResidualGain)
	}

	opts := cfg.SearchOptions()
	if opts.Window != motion.WindowLegacy || opts.BlockSize != cfg.BlockSize ||
		opts.SearchRadius != cfg.SearchRadius {
		t.Fatalf("SearchOptions = %+v", opts)
	}
}

func Test_AnalyzerConfig_ValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*AnalyzerConfig)
	}{
		{"no input", func(c *AnalyzerConfig) { c.InputPath = "" }},
		{"zero block", func(c *AnalyzerConfig) { c.BlockSize = 0 }},
		{"negative radius", func(c *AnalyzerConfig) { c.SearchRadius = -1 }},
		{"one frame", func(c *AnalyzerConfig) { c.MaxFrames = 1 }},
		{"negative start", func(c *AnalyzerConfig) { c.StartIdx = -2 }},
		{"bad window", func(c *AnalyzerConfig) { c.Window = "diamond" }},
		{"bad decoder", func(c *AnalyzerConfig) { c.Decoder = "opencv" }},
		{"no metrics", func(c *AnalyzerConfig) { c.Metrics = nil }},
		{"bad metric", func(c *AnalyzerConfig) { c.Metrics = []string{"ssim"} }},
		{"video without fps", func(c *AnalyzerConfig) {
			c.ResidualVideo = "res.mp4"
			c.FrameRate = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func Test_AnalyzerConfig_BadWindowIsInvalidParameter(t *testing.T) {
	cfg := validConfig()
	cfg.Window = "diamond"
	if err := cfg.Validate(); !errors.Is(err, motion.ErrInvalidParameter) {
		t.Fatalf("Validate error = %v, want ErrInvalidParameter", err)
	}
}

func Test_AnalyzerConfig_BuildMetrics(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics = []string{"psnr", "mse", "sad", "motion"}
	metrics, err := cfg.BuildMetrics()
	if err != nil {
		t.Fatalf("BuildMetrics: %v", err)
	}
	var names []string
	for _, m := range metrics {
		names = append(names, m.Name())
	}
	if !slices.Equal(names, cfg.Metrics) {
		t.Fatalf("built %v, want %v", names, cfg.Metrics)
	}

	cfg.Metrics = []string{"butter"}
	if _, err := cfg.BuildMetrics(); err == nil {
		t.Fatal("unknown metric should fail")
	}
}

func Test_ScaledSize(t *testing.T) {
	tests := []struct {
		w, h, target int
		wantW, wantH int
	}{
		{1920, 1080, 320, 320, 180},
		{1920, 1080, 0, 1920, 1080},
		{640, 480, 640, 640, 480},
		// 101 * 50 / 100 = 50.5 rounds to 51, then up to an even 52.
		{100, 101, 50, 50, 52},
		{1000, 1, 10, 10, 2},
		// Native sizes are kept even when odd.
		{321, 241, 0, 321, 241},
		{321, 241, 321, 321, 241},
	}
	for _, tt := range tests {
		w, h := scaledSize(tt.w, tt.h, tt.target)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("scaledSize(%d, %d, %d) = %dx%d, want %dx%d", tt.w,
				tt.h, tt.target, w, h, tt.wantW, tt.wantH)
		}
	}
}
