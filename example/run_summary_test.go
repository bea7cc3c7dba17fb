package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func Test_JSONFloat(t *testing.T) {
	data, err := json.Marshal([]jsonFloat{1.5, jsonFloat(math.Inf(1)),
		jsonFloat(math.NaN()), 0})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[1.5,null,null,0]" {
		t.Fatalf("got %s", data)
	}
}

func Test_SaveSummaryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	sum := RunSummary{
		RunID:          "abc",
		Input:          "clip.mkv",
		Pairs:          2,
		IdenticalPairs: 1,
		PSNR:           toJSONFloats([]float64{math.Inf(1), 31}),
		ElapsedMs:      []float64{1, 2},
		Metrics: map[string][]jsonFloat{
			"sad": toJSONFloats([]float64{0, 4}),
		},
	}
	if err := saveSummaryJSON(sum, path); err != nil {
		t.Fatalf("saveSummaryJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		RunID   string               `json:"run_id"`
		Pairs   int                  `json:"pairs"`
		PSNR    []*float64           `json:"psnr_db"`
		Metrics map[string][]float64 `json:"metrics"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, data)
	}
	if decoded.RunID != "abc" || decoded.Pairs != 2 {
		t.Fatalf("decoded = %+v", decoded)
	}
	if len(decoded.PSNR) != 2 || decoded.PSNR[0] != nil ||
		decoded.PSNR[1] == nil || *decoded.PSNR[1] != 31 {
		t.Fatalf("psnr_db = %v", decoded.PSNR)
	}
	if s := decoded.Metrics["sad"]; len(s) != 2 || s[1] != 4 {
		t.Fatalf("metrics = %v", decoded.Metrics)
	}
}
