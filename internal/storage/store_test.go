package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndList(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	id, err := s.Save(RunMetadata{
		Scene:    "impact",
		Material: "bead",
		Dt:       1e-5,
		Steps:    1000,
		Metrics:  map[string]float64{"peak_force": 12.5},
	}, Series{
		Names:   []string{"time", "force"},
		Columns: [][]float64{{0, 1e-5, 2e-5}, {0, 4.2, 3.1}},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("empty run id")
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.Scene != "impact" || r.Steps != 1000 {
		t.Errorf("metadata roundtrip: %+v", r)
	}
	if r.Metrics["peak_force"] != 12.5 {
		t.Errorf("metrics roundtrip: %v", r.Metrics)
	}
}

func TestSeriesCSV(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	id, err := s.Save(RunMetadata{Scene: "shear"}, Series{
		Names:   []string{"a", "b"},
		Columns: [][]float64{{1, 2}, {3, 4}},
	})
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, id, "series.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(records))
	}
	if records[0][0] != "a" || records[0][1] != "b" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "1" || records[1][1] != "3" {
		t.Errorf("first row = %v", records[1])
	}
}

func TestListMissingDirectory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := s.List()
	if err != nil {
		t.Fatalf("List on a missing dir: %v", err)
	}
	if runs != nil {
		t.Errorf("expected no runs, got %v", runs)
	}
}
