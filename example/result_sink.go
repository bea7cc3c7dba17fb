package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

// ResultSink receives the result of every frame pair, in pair order, from a
// single goroutine.
type ResultSink interface {
	WriteResult(r *pairResult) error
	Close() error
}

// abortableSink is a ResultSink that can discard its output when the run
// fails instead of keeping a partial result.
type abortableSink interface {
	ResultSink
	Abort() error
}

// formatPSNR prints a PSNR in dB with two decimals, or "inf" for identical
// frames.
func formatPSNR(psnr float64) string {
	if math.IsInf(psnr, 1) {
		return "inf"
	}
	return strconv.FormatFloat(psnr, 'f', 2, 64)
}

func formatScore(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

var csvHeader = []string{"Frame", "PSNR_dB", "Time_ms", "Block_Size"}

// csvSink writes one row per frame pair.
type csvSink struct {
	file    *os.File
	buf     *bufio.Writer
	w       *csv.Writer
	columns []string
	row     []string
}

func newCSVSink(path string, metrics []string) (*csvSink, error) {
	columns, err := metricColumns(metrics)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	buf := bufio.NewWriter(f)
	s := &csvSink{file: f, buf: buf, w: csv.NewWriter(buf),
		columns: columns}

	header := append(append([]string{}, csvHeader...), columns...)
	if err := s.w.Write(header); err != nil {
		f.Close()
		return nil, err
	}

	logf(LogInfo, "Per-frame results will be saved to %s", path)
	return s, nil
}

func (s *csvSink) WriteResult(r *pairResult) error {
	s.row = append(s.row[:0],
		strconv.Itoa(r.index),
		formatPSNR(r.psnr),
		strconv.FormatFloat(r.elapsedMs, 'f', 1, 64),
		strconv.Itoa(r.blockSize),
	)
	for _, c := range s.columns {
		s.row = append(s.row, formatScore(r.scores[c]))
	}
	if err := s.w.Write(s.row); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	return nil
}

func (s *csvSink) Close() error {
	s.w.Flush()
	err := s.w.Error()
	if ferr := s.buf.Flush(); err == nil {
		err = ferr
	}
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// archiveSink appends every vector field to a compressed vector archive.
type archiveSink struct {
	file *os.File
	w    *motion.VectorArchiveWriter
	opts motion.SearchOptions
}

func newArchiveSink(path string, opts motion.SearchOptions) (*archiveSink,
	error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := motion.NewVectorArchiveWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	logf(LogInfo, "Motion vectors will be saved to %s", path)
	return &archiveSink{file: f, w: w, opts: opts}, nil
}

func (s *archiveSink) WriteResult(r *pairResult) error {
	return s.w.Write(motion.VectorRecord{
		PairIndex:    r.index,
		Width:        r.current.Width,
		Height:       r.current.Height,
		BlockSize:    s.opts.BlockSize,
		SearchRadius: s.opts.SearchRadius,
		Window:       s.opts.Window,
		Vectors:      r.vectors,
	})
}

func (s *archiveSink) Close() error {
	err := s.w.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}
