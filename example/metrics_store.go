package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"
)

const metricsSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	created_at    INTEGER NOT NULL,
	input         TEXT NOT NULL,
	block_size    INTEGER NOT NULL,
	search_radius INTEGER NOT NULL,
	search_window TEXT NOT NULL,
	config_json   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS frames (
	run_id         TEXT NOT NULL REFERENCES runs(run_id),
	frame_index    INTEGER NOT NULL,
	psnr_db        REAL,
	elapsed_ms     REAL NOT NULL,
	block_size     INTEGER NOT NULL,
	mean_cost      REAL NOT NULL,
	mean_magnitude REAL NOT NULL,
	zero_ratio     REAL NOT NULL,
	scores_json    TEXT NOT NULL,
	PRIMARY KEY (run_id, frame_index)
);`

// metricsStore appends the per-pair results of a run to a SQLite database.
// Every run adds one row to runs and its rows of frames in a single
// transaction, committed on Close and rolled back on Abort. Identical frames
// store a NULL psnr_db.
type metricsStore struct {
	db     *sql.DB
	tx     *sql.Tx
	insert *sql.Stmt
	runID  string
}

func openMetricsStore(path, runID string, cfg *AnalyzerConfig) (
	*metricsStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps the transaction and the schema on the same
	// handle.
	db.SetMaxOpenConns(1)

	s, err := initMetricsStore(db, runID, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	logf(LogInfo, "Results of run %s will be stored in %s", runID, path)
	return s, nil
}

func initMetricsStore(db *sql.DB, runID string, cfg *AnalyzerConfig) (
	*metricsStore, error) {
	if _, err := db.Exec(metricsSchema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		INSERT INTO runs
		(run_id, created_at, input, block_size, search_radius, search_window,
		 config_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UnixNano(), cfg.InputPath, cfg.BlockSize,
		cfg.SearchRadius, cfg.Window, string(cfgJSON))
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("insert run: %w", err)
	}

	insert, err := tx.Prepare(`
		INSERT INTO frames
		(run_id, frame_index, psnr_db, elapsed_ms, block_size, mean_cost,
		 mean_magnitude, zero_ratio, scores_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("prepare frame insert: %w", err)
	}

	return &metricsStore{db: db, tx: tx, insert: insert, runID: runID}, nil
}

// nullableFloat maps non-finite values to NULL.
func nullableFloat(v float64) sql.NullFloat64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func (s *metricsStore) WriteResult(r *pairResult) error {
	scores, err := json.Marshal(jsonScores(r.scores))
	if err != nil {
		return err
	}
	stats := r.vectors.Stats()

	_, err = s.insert.Exec(s.runID, r.index, nullableFloat(r.psnr),
		r.elapsedMs, r.blockSize, stats.MeanCost, stats.MeanMagnitude,
		stats.ZeroRatio(), string(scores))
	if err != nil {
		return fmt.Errorf("insert frame %d: %w", r.index, err)
	}
	return nil
}

func (s *metricsStore) Close() error {
	s.insert.Close()
	err := s.tx.Commit()
	if err != nil {
		logf(LogError, "Failed to commit results of run %s: %v", s.runID, err)
	}
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}

// Abort discards everything written for the run, including its runs row.
func (s *metricsStore) Abort() error {
	s.insert.Close()
	err := s.tx.Rollback()
	if err != nil {
		logf(LogError, "Failed to roll back run %s: %v", s.runID, err)
	} else {
		logf(LogInfo, "Discarded stored results of failed run %s", s.runID)
	}
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}
