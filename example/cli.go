package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

// parseCLI builds the run configuration from args. When --config names a
// YAML file its values replace the built-in defaults, and flags given on the
// command line override both.
func parseCLI(args []string) (AnalyzerConfig, error) {
	cfg := defaultConfig()

	// First pass: only look for --config so the file can provide the flag
	// defaults of the second pass.
	pre := pflag.NewFlagSet("config", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.SetOutput(io.Discard)
	pre.Usage = func() {}
	configPath := pre.String("config", "", "")
	// Errors are reported by the second pass, which knows every flag.
	pre.Parse(args)

	if *configPath != "" {
		if err := loadConfigFile(*configPath, &cfg); err != nil {
			return cfg, err
		}
	}

	fs := pflag.NewFlagSet("gomotion", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.String("config", *configPath, "YAML file with default settings")

	fs.StringVarP(&cfg.InputPath, "input", "i", cfg.InputPath,
		"video file, or image glob/directory with --decoder images (required)")

	fs.StringVar(&cfg.Decoder, "decoder", cfg.Decoder,
		"frame source: ffms2, ffmpeg or images")

	fs.IntVar(&cfg.StartIdx, "start", cfg.StartIdx,
		"index of the first frame to use")

	fs.IntVar(&cfg.MaxFrames, "frames", cfg.MaxFrames,
		"maximum number of frames to read (0 = all)")

	fs.IntVar(&cfg.ResizeWidth, "width", cfg.ResizeWidth,
		"scale frames to this width, keeping aspect (0 = native)")

	fs.IntVarP(&cfg.BlockSize, "block-size", "b", cfg.BlockSize,
		"macroblock size in pixels")

	fs.IntVarP(&cfg.SearchRadius, "search-radius", "r", cfg.SearchRadius,
		"full-search radius in pixels")

	fs.StringVar(&cfg.Window, "window", cfg.Window,
		"search window clipping: symmetric or legacy")

	fs.IntVar(&cfg.SearchWorkers, "search-workers", cfg.SearchWorkers,
		"block rows searched concurrently per pair (0 = all CPUs)")

	fs.IntVar(&cfg.WorkerCount, "workers", cfg.WorkerCount,
		"frame pairs analysed concurrently")

	fs.StringSliceVar(&cfg.Metrics, "metrics", cfg.Metrics,
		"comma-separated list of metrics: psnr, mse, sad, motion")

	fs.StringVarP(&cfg.CSVPath, "csv", "o", cfg.CSVPath,
		"path to save per-frame CSV results")

	fs.StringVar(&cfg.JSONPath, "json", cfg.JSONPath,
		"path to save the JSON run summary")

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath,
		"SQLite database to append per-frame results to")

	fs.StringVar(&cfg.VectorsPath, "vectors", cfg.VectorsPath,
		"path to save the compressed motion vector archive")

	fs.StringVar(&cfg.ComparisonVideo, "comparison-video",
		cfg.ComparisonVideo, "path to encode the actual | predicted video")

	fs.StringVar(&cfg.ResidualVideo, "residual-video", cfg.ResidualVideo,
		"path to encode the amplified residual video")

	fs.Float64Var(&cfg.FrameRate, "fps", cfg.FrameRate,
		"frame rate of encoded videos")

	fs.IntVar(&cfg.ResidualGain, "residual-gain", cfg.ResidualGain,
		"multiplier applied to residuals before encoding")

	fs.StringSliceVar(&cfg.EncoderSettings, "encoder-settings",
		cfg.EncoderSettings, "extra ffmpeg output arguments")

	fs.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel,
		"log level: error, info, debug")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.InputPath == "" && fs.NArg() > 0 {
		cfg.InputPath = fs.Arg(0)
	}
	if cfg.InputPath == "" {
		fs.Usage()
		return cfg, fmt.Errorf("an input is required (-i)")
	}

	return cfg, nil
}
