package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

// framePair is one unit of work: the previous frame used as the reference
// and the frame that is predicted from it.
type framePair struct {
	// The pair's index in the sequence of pairs, starting at 0.
	index     int
	reference *motion.Frame
	current   *motion.Frame
}

// pairResult holds everything computed for one frame pair. Sinks receive
// them in pair order.
type pairResult struct {
	index     int
	blockSize int
	reference *motion.Frame
	current   *motion.Frame
	vectors   motion.VectorField
	predicted *motion.Frame
	residual  *motion.Frame
	// PSNR of predicted against current in dB, +Inf when identical.
	psnr float64
	// Wall time of estimation plus reconstruction in milliseconds.
	elapsedMs float64
	scores    map[string]float64
}

// MotionAnalyzer runs motion estimation and compensation over consecutive
// frames of a FrameSource. It reads frames in one goroutine, pairs each
// frame with its predecessor in another, analyses pairs in WorkerCount
// workers and hands the results to its sinks in pair order.
type MotionAnalyzer struct {
	cfg   AnalyzerConfig
	opts  motion.SearchOptions
	src   FrameSource
	runID string

	metrics []MetricHandler
	sinks   []ResultSink

	frames  chan *motion.Frame
	pairs   chan framePair
	results chan *pairResult
	errs    chan error

	// Bounds the number of pairs between the pairer and the aggregator.
	inFlight BlockingPool[struct{}]

	started  time.Time
	duration time.Duration

	finalMetricScores map[string][]float64
	psnrScores        []float64
	elapsedMs         []float64
	vectorStats       []motion.VectorFieldStats
}

func NewMotionAnalyzer(cfg AnalyzerConfig, src FrameSource) (*MotionAnalyzer,
	error) {
	if src == nil {
		return nil, fmt.Errorf("no frame source")
	}

	metrics, err := cfg.BuildMetrics()
	if err != nil {
		return nil, err
	}

	workers := max(cfg.WorkerCount, 1)

	ma := &MotionAnalyzer{
		cfg:      cfg,
		opts:     cfg.SearchOptions(),
		src:      src,
		runID:    uuid.NewString(),
		metrics:  metrics,
		frames:   make(chan *motion.Frame, 1),
		pairs:    make(chan framePair, 1),
		results:  make(chan *pairResult, workers*3/2+1),
		errs:     make(chan error, 1),
		inFlight: newTokenPool(workers * 2),

		finalMetricScores: make(map[string][]float64),
	}
	ma.cfg.WorkerCount = workers

	return ma, nil
}

// RunID identifies this run in every output that records it.
func (ma *MotionAnalyzer) RunID() string { return ma.runID }

// AddSinks registers outputs. It must be called before Run.
func (ma *MotionAnalyzer) AddSinks(sinks ...ResultSink) {
	ma.sinks = append(ma.sinks, sinks...)
}

// CloseSinks closes every sink and metric handler and returns the first
// error met.
func (ma *MotionAnalyzer) CloseSinks() error {
	return ma.closeSinks(false)
}

// AbortSinks is CloseSinks for a failed run: sinks that can discard their
// output do so instead of keeping the results of the pairs written so far.
func (ma *MotionAnalyzer) AbortSinks() error {
	return ma.closeSinks(true)
}

func (ma *MotionAnalyzer) closeSinks(abort bool) error {
	var first error
	for _, s := range ma.sinks {
		var err error
		if a, ok := s.(abortableSink); ok && abort {
			err = a.Abort()
		} else {
			err = s.Close()
		}
		if err != nil && first == nil {
			first = err
		}
	}
	ma.sinks = nil

	for _, m := range ma.metrics {
		m.Close()
	}
	return first
}

// FinalScores returns every metric series in pair order, keyed by score
// name.
func (ma *MotionAnalyzer) FinalScores() map[string][]float64 {
	return ma.finalMetricScores
}

// ElapsedMs returns the estimation plus reconstruction time of every pair.
func (ma *MotionAnalyzer) ElapsedMs() []float64 { return ma.elapsedMs }

// PSNR returns the PSNR of every pair in dB.
func (ma *MotionAnalyzer) PSNR() []float64 { return ma.psnrScores }

// Run processes the whole source. It returns after every goroutine it
// started has exited, so the sinks are idle when it returns.
func (ma *MotionAnalyzer) Run(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	ma.started = time.Now()

	var wg sync.WaitGroup
	spawn := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	spawn(func() { ma.readFrames(ctx) })
	spawn(func() { ma.pairFrames(ctx) })

	var workers sync.WaitGroup
	workers.Add(ma.cfg.WorkerCount)
	for i := 0; i < ma.cfg.WorkerCount; i++ {
		spawn(func() { ma.pairWorker(ctx, i, &workers) })
	}
	spawn(func() {
		workers.Wait()
		close(ma.results)
	})

	done := make(chan struct{})
	spawn(func() {
		ma.aggregateResults(ctx)
		close(done)
	})

	var err error
	select {
	case err = <-ma.errs:
	case <-ctx.Done():
		err = ctx.Err()
	case <-done:
	}

	cancel()
	wg.Wait()
	ma.duration = time.Since(ma.started)

	if err == nil {
		// A stage may have failed just as the aggregator finished.
		select {
		case err = <-ma.errs:
		default:
			err = parent.Err()
		}
	}
	if err != nil {
		logf(LogError, "Run stopped after %d pairs: %v", len(ma.psnrScores),
			err)
		return err
	}

	logf(LogInfo, "Analysed %d frame pairs in %s", len(ma.psnrScores),
		ma.duration.Round(time.Millisecond))
	return nil
}

// fail records err as the reason the run stops. Only the first error is
// kept.
func (ma *MotionAnalyzer) fail(err error) {
	select {
	case ma.errs <- err:
	default:
	}
}

func (ma *MotionAnalyzer) readFrames(ctx context.Context) {
	defer close(ma.frames)
	logf(LogInfo, "Starting frame read")

	count := 0
	for ma.cfg.MaxFrames == 0 || count < ma.cfg.MaxFrames {
		if ctx.Err() != nil {
			return
		}

		f, err := ma.src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logf(LogError, "Error reading frame %d: %v", ma.cfg.StartIdx+count,
				err)
			ma.fail(fmt.Errorf("read frame %d: %w", ma.cfg.StartIdx+count,
				err))
			return
		}

		select {
		case ma.frames <- f:
			logf(LogDebug, "Read frame %d successfully", ma.cfg.StartIdx+count)
		case <-ctx.Done():
			return
		}
		count++
	}

	if count < 2 {
		ma.fail(fmt.Errorf("need at least two frames, the input has %d",
			count))
		return
	}
	logf(LogInfo, "Finished reading %d frames", count)
}

func (ma *MotionAnalyzer) pairFrames(ctx context.Context) {
	defer close(ma.pairs)
	logf(LogInfo, "Starting frame pairing")

	var reference *motion.Frame
	index := 0

	for current := range withContext(ctx, ma.frames) {
		if reference == nil {
			reference = current
			continue
		}

		if _, err := ma.inFlight.Get(ctx); err != nil {
			return
		}

		pair := framePair{index: index, reference: reference,
			current: current}
		select {
		case ma.pairs <- pair:
			logf(LogDebug, "Paired frame %d", index)
		case <-ctx.Done():
			return
		}

		reference = current
		index++
	}

	logf(LogInfo, "Finished pairing %d frames", index)
}

func (ma *MotionAnalyzer) pairWorker(ctx context.Context, workerID int,
	wg *sync.WaitGroup) {
	defer wg.Done()
	logf(LogDebug, "Pair worker %d starting", workerID)

	for pair := range withContext(ctx, ma.pairs) {
		res, err := ma.analysePair(pair)
		if err != nil {
			logf(LogError, "Worker %d failed on pair %d: %v", workerID,
				pair.index, err)
			ma.fail(fmt.Errorf("pair %d: %w", pair.index, err))
			return
		}

		select {
		case ma.results <- res:
			logf(LogDebug, "Worker %d computed scores for pair %d: %s",
				workerID, pair.index, prettyMap(res.scores))
		case <-ctx.Done():
			return
		}
	}

	logf(LogDebug, "Pair worker %d finished", workerID)
}

// analysePair estimates, reconstructs and scores one pair.
func (ma *MotionAnalyzer) analysePair(pair framePair) (*pairResult, error) {
	start := time.Now()

	vectors, err := motion.EstimateWithOptions(pair.reference, pair.current,
		ma.opts)
	if err != nil {
		return nil, err
	}
	predicted, err := motion.Reconstruct(pair.reference, vectors,
		ma.opts.BlockSize)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)

	residual, err := motion.Residual(pair.current, predicted)
	if err != nil {
		return nil, err
	}
	psnr, err := motion.PSNR(pair.current, predicted)
	if err != nil {
		return nil, err
	}

	res := &pairResult{
		index:     pair.index,
		blockSize: ma.opts.BlockSize,
		reference: pair.reference,
		current:   pair.current,
		vectors:   vectors,
		predicted: predicted,
		residual:  residual,
		psnr:      psnr,
		elapsedMs: float64(elapsed.Microseconds()) / 1000,
		scores:    make(map[string]float64),
	}

	for _, m := range ma.metrics {
		vals, err := m.Compute(res)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", m.Name(), err)
		}
		maps.Copy(res.scores, vals)
	}

	return res, nil
}

// aggregateResults restores pair order and feeds each result to the sinks.
func (ma *MotionAnalyzer) aggregateResults(ctx context.Context) {
	logf(LogInfo, "Starting aggregation of results")

	pending := make(map[int]*pairResult)
	next := 0

	for res := range withContext(ctx, ma.results) {
		pending[res.index] = res

		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)

			if err := ma.emit(r); err != nil {
				logf(LogError, "Failed to write results of pair %d: %v",
					r.index, err)
				ma.fail(err)
				return
			}
			ma.inFlight.Put(struct{}{})
			next++
		}
	}

	logf(LogInfo, "Finished aggregating %d results", next)
}

func (ma *MotionAnalyzer) emit(r *pairResult) error {
	for _, s := range ma.sinks {
		if err := s.WriteResult(r); err != nil {
			return err
		}
	}

	for name, val := range r.scores {
		ma.finalMetricScores[name] = append(ma.finalMetricScores[name], val)
	}
	ma.psnrScores = append(ma.psnrScores, r.psnr)
	ma.elapsedMs = append(ma.elapsedMs, r.elapsedMs)
	ma.vectorStats = append(ma.vectorStats, r.vectors.Stats())

	logf(LogInfo, "Frame %d | PSNR: %s dB | %.1f ms", r.index,
		formatPSNR(r.psnr), r.elapsedMs)
	return nil
}
