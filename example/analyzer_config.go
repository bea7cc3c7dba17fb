package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

const (
	decoderFFMS2  = "ffms2"
	decoderFFmpeg = "ffmpeg"
	decoderImages = "images"
)

// AnalyzerConfig holds everything one analysis run needs. It can be filled
// from a YAML file and from command-line flags; see parseCLI.
type AnalyzerConfig struct {
	InputPath string `yaml:"input"`
	// One of "ffms2", "ffmpeg" or "images".
	Decoder   string `yaml:"decoder"`
	StartIdx  int    `yaml:"start_index"`
	MaxFrames int    `yaml:"max_frames"`
	// Frames are scaled to this width keeping their aspect ratio. 0 keeps
	// the native size.
	ResizeWidth int `yaml:"resize_width"`

	BlockSize     int    `yaml:"block_size"`
	SearchRadius  int    `yaml:"search_radius"`
	Window        string `yaml:"window"`
	SearchWorkers int    `yaml:"search_workers"`
	// Number of frame pairs analysed concurrently.
	WorkerCount int      `yaml:"workers"`
	Metrics     []string `yaml:"metrics"`

	CSVPath         string  `yaml:"csv"`
	JSONPath        string  `yaml:"json"`
	DBPath          string  `yaml:"db"`
	VectorsPath     string  `yaml:"vectors"`
	ComparisonVideo string  `yaml:"comparison_video"`
	ResidualVideo   string  `yaml:"residual_video"`
	FrameRate       float64 `yaml:"fps"`
	ResidualGain    int     `yaml:"residual_gain"`
	// Extra ffmpeg arguments placed before the output path of encoded
	// videos.
	EncoderSettings []string `yaml:"encoder_settings"`

	LogLevel string `yaml:"loglevel"`

	window motion.WindowPolicy
}

// defaultConfig returns the configuration used when neither a file nor a flag
// sets a value.
func defaultConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Decoder:       decoderFFMS2,
		ResizeWidth:   320,
		BlockSize:     motion.DefaultBlockSize,
		SearchRadius:  7,
		Window:        motion.WindowSymmetric.String(),
		SearchWorkers: 1,
		WorkerCount:   runtime.NumCPU(),
		Metrics:       []string{"psnr", "sad", "motion"},
		FrameRate:     25,
		ResidualGain:  2,
		LogLevel:      "info",
	}
}

func (c *AnalyzerConfig) Validate() error {
	logf(LogInfo, "Validating analyzer configuration")

	if c.InputPath == "" {
		return fmt.Errorf("an input is required")
	}
	if c.WorkerCount <= 0 {
		logf(LogInfo, "WorkerCount <= 0, defaulting to 1")
		c.WorkerCount = 1
	}
	if c.BlockSize < 1 {
		return fmt.Errorf("block size must be positive, got %d", c.BlockSize)
	}
	if c.SearchRadius < 0 {
		return fmt.Errorf("search radius must not be negative, got %d",
			c.SearchRadius)
	}
	if c.StartIdx < 0 || c.MaxFrames < 0 || c.ResizeWidth < 0 {
		return fmt.Errorf("start index, max frames and resize width must " +
			"not be negative")
	}
	if c.MaxFrames == 1 {
		return fmt.Errorf("at least two frames are needed to form a pair")
	}

	window, err := motion.ParseWindowPolicy(c.Window)
	if err != nil {
		return err
	}
	c.window = window

	switch c.Decoder {
	case decoderFFMS2, decoderFFmpeg, decoderImages:
	default:
		return fmt.Errorf("unknown decoder %q", c.Decoder)
	}

	if len(c.Metrics) == 0 {
		err := fmt.Errorf("at least one metric must be specified")
		logf(LogError, "Validation failed: %v", err)
		return err
	}
	for i, m := range c.Metrics {
		c.Metrics[i] = strings.ToLower(strings.TrimSpace(m))
		if _, ok := metricBuilders[c.Metrics[i]]; !ok {
			return fmt.Errorf("unknown metric %q", m)
		}
	}

	if (c.ComparisonVideo != "" || c.ResidualVideo != "") && c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive to encode videos")
	}
	if c.ResidualGain < 1 {
		c.ResidualGain = 1
	}

	for _, p := range []string{c.CSVPath, c.JSONPath, c.DBPath, c.VectorsPath,
		c.ComparisonVideo, c.ResidualVideo} {
		if p != "" && strings.HasSuffix(p, string(os.PathSeparator)) {
			return fmt.Errorf("output %q cannot be a directory", p)
		}
	}

	logf(LogInfo, "Configuration validated successfully: WorkerCount=%d, "+
		"Metrics=%v", c.WorkerCount, c.Metrics)
	return nil
}

// SearchOptions returns the block-matching options of the configuration.
// Validate must have been called.
func (c *AnalyzerConfig) SearchOptions() motion.SearchOptions {
	return motion.SearchOptions{
		BlockSize:    c.BlockSize,
		SearchRadius: c.SearchRadius,
		Window:       c.window,
		Workers:      c.SearchWorkers,
	}
}

// OpenSource opens the configured input with the configured decoder and
// skips to StartIdx.
func (c *AnalyzerConfig) OpenSource() (FrameSource, error) {
	logf(LogInfo, "Opening %s with the %s decoder", c.InputPath, c.Decoder)

	var src FrameSource
	var err error

	switch c.Decoder {
	case decoderFFMS2:
		src, err = openFFMS2Source(c.InputPath, c.ResizeWidth)
	case decoderFFmpeg:
		src, err = NewVideoSource(c.InputPath, c.ResizeWidth)
	case decoderImages:
		src, err = newImageSequenceSource(c.InputPath, c.ResizeWidth)
	default:
		err = fmt.Errorf("unknown decoder %q", c.Decoder)
	}
	if err != nil {
		logf(LogError, "Failed to open input: %v", err)
		return nil, err
	}

	for i := 0; i < c.StartIdx; i++ {
		if _, err := src.Next(); err != nil {
			src.Close()
			return nil, fmt.Errorf("skip to frame %d: %w", c.StartIdx, err)
		}
	}

	return src, nil
}

func (c *AnalyzerConfig) BuildMetrics() ([]MetricHandler, error) {
	logf(LogInfo, "Building %d metrics: %v", len(c.Metrics), c.Metrics)

	var metrics []MetricHandler

	for _, name := range c.Metrics {
		build, ok := metricBuilders[name]
		if !ok {
			err := fmt.Errorf("unknown metric %s", name)
			logf(LogError, "Unknown metric requested: %s", name)
			return nil, err
		}
		metrics = append(metrics, build())
		logf(LogDebug, "Successfully built metric '%s'", name)
	}

	return metrics, nil
}

// BuildSinks opens every configured output. Sinks opened before a failure
// are closed again.
func (c *AnalyzerConfig) BuildSinks(runID string) ([]ResultSink, error) {
	var sinks []ResultSink

	fail := func(err error) ([]ResultSink, error) {
		for _, s := range sinks {
			s.Close()
		}
		return nil, err
	}

	if c.CSVPath != "" {
		s, err := newCSVSink(c.CSVPath, c.Metrics)
		if err != nil {
			return fail(fmt.Errorf("csv output: %w", err))
		}
		sinks = append(sinks, s)
	}
	if c.VectorsPath != "" {
		s, err := newArchiveSink(c.VectorsPath, c.SearchOptions())
		if err != nil {
			return fail(fmt.Errorf("vector archive: %w", err))
		}
		sinks = append(sinks, s)
	}
	if c.DBPath != "" {
		s, err := openMetricsStore(filepath.Clean(c.DBPath), runID, c)
		if err != nil {
			return fail(fmt.Errorf("metrics store: %w", err))
		}
		sinks = append(sinks, s)
	}
	if c.ComparisonVideo != "" || c.ResidualVideo != "" {
		sinks = append(sinks, newVideoSink(c.ComparisonVideo,
			c.ResidualVideo, float32(c.FrameRate), c.ResidualGain,
			c.EncoderSettings))
	}

	return sinks, nil
}
