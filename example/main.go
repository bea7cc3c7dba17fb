package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

type LoggingLevel int

const (
	LogError LoggingLevel = iota
	LogInfo
	LogDebug
)

var currentLogLevel = LogInfo

const logPrefixWidth = 9 // Fits "[DEBUG] "

func logf(level LoggingLevel, format string, args ...any) {
	if level > currentLogLevel {
		return
	}

	prefix := "[INFO] "
	switch level {
	case LogDebug:
		prefix = "[DEBUG]"
	case LogError:
		prefix = "[ERROR]"
	}

	padded := fmt.Sprintf("%-*s", logPrefixWidth, prefix)

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	log.Printf("%s%s", padded, msg)
}

func parseLogLevel(s string) (LoggingLevel, error) {
	switch strings.ToLower(s) {
	case "error":
		return LogError, nil
	case "info":
		return LogInfo, nil
	case "debug":
		return LogDebug, nil
	default:
		return 0, fmt.Errorf("invalid log level: %q", s)
	}
}

func main() {
	log.SetFlags(log.LstdFlags)

	cfg, err := parseCLI(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	currentLogLevel = level

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logf(LogError, "Analysis failed (%s): %v", motion.CodeOf(err), err)
		os.Exit(1)
	}
}

// run wires the frame source, the sinks and the analyzer for one input and
// writes the summary once every pair has been processed.
func run(ctx context.Context, cfg AnalyzerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	src, err := cfg.OpenSource()
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.InputPath, err)
	}
	defer src.Close()

	ma, err := NewMotionAnalyzer(cfg, src)
	if err != nil {
		return err
	}

	sinks, err := cfg.BuildSinks(ma.RunID())
	if err != nil {
		return err
	}
	ma.AddSinks(sinks...)

	logf(LogInfo, "Analysing %s (block size %d, search radius %d, %s "+
		"window) with %d workers", cfg.InputPath, cfg.BlockSize,
		cfg.SearchRadius, cfg.Window, cfg.WorkerCount)

	if err := ma.Run(ctx); err != nil {
		ma.AbortSinks()
		return err
	}
	if err := ma.CloseSinks(); err != nil {
		return err
	}

	scores := ma.FinalScores()
	printSummary(scores, ma.ElapsedMs())

	if cfg.JSONPath != "" {
		if err := saveSummaryJSON(ma.Summary(), cfg.JSONPath); err != nil {
			return fmt.Errorf("save summary to %s: %w", cfg.JSONPath, err)
		}
		logf(LogInfo, "Run summary saved to %s", cfg.JSONPath)
	}
	return nil
}

func prettyMap[K comparable, V any](m map[K]V) string {
	if len(m) == 0 {
		return "{}"
	}

	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})

	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v=%v", k, m[k])
	}
	sb.WriteString("}")
	return sb.String()
}
