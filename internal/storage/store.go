// Package storage persists run records: metadata as json, traces as csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Material  string             `json:"material"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Series is a named set of equally-sampled traces.
type Series struct {
	Names   []string
	Columns [][]float64
}

func (s *Store) Save(meta RunMetadata, series Series) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	meta.ID = runID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	dataFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer dataFile.Close()

	cw := csv.NewWriter(dataFile)
	defer cw.Flush()
	if err := cw.Write(series.Names); err != nil {
		return "", err
	}
	rows := 0
	if len(series.Columns) > 0 {
		rows = len(series.Columns[0])
	}
	record := make([]string, len(series.Columns))
	for r := 0; r < rows; r++ {
		for c := range series.Columns {
			record[c] = strconv.FormatFloat(series.Columns[c][r], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return "", err
		}
	}
	return runID, nil
}

// List returns the saved run metadata, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}
