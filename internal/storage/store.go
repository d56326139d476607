package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	metaFile   = "metadata.json"
	seriesFile = "series.csv"
	FramesFile = "frames.msgpack"
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
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Ticks      int                `json:"ticks"`
	Dt         float64            `json:"dt"`
	Integrator string             `json:"integrator"`
	Params     dynamo.Params      `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Dir returns the directory of a run.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// Save writes metadata.json and series.csv under a new run directory and
// returns the run ID.
func (s *Store) Save(name, integrator string, params dynamo.Params, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  now,
		Seed:       params.Seed,
		Ticks:      result.TicksTaken,
		Dt:         params.Dt(),
		Integrator: integrator,
		Params:     params,
		Metrics:    result.Metrics,
	}

	f, err := os.Create(filepath.Join(runDir, metaFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeSeries(filepath.Join(runDir, seriesFile), result.Stats); err != nil {
		return "", err
	}
	return runID, nil
}

func writeSeries(path string, stats []dynamo.TickStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"tick"}, sim.SeriesNames...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, st := range stats {
		row := []string{strconv.Itoa(st.Tick)}
		for _, name := range sim.SeriesNames {
			v, err := sim.Field(st, name)
			if err != nil {
				return err
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metaFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads series.csv back into tick stats. Unknown columns are
// ignored so older runs stay readable.
func (s *Store) LoadSeries(runID string) ([]dynamo.TickStats, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), seriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.TickStats{}, nil
	}

	header := records[0]
	stats := make([]dynamo.TickStats, 0, len(records)-1)
	for _, record := range records[1:] {
		var st dynamo.TickStats
		for j, col := range header {
			if j >= len(record) {
				break
			}
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: column %s: %w", seriesFile, col, err)
			}
			setField(&st, col, v)
		}
		stats = append(stats, st)
	}

	return stats, nil
}

func setField(st *dynamo.TickStats, name string, v float64) {
	switch name {
	case "tick":
		st.Tick = int(v)
	case "count":
		st.Count = int(v)
	case "collisions":
		st.Collisions = int(v)
	case "absorbed":
		st.Absorbed = int(v)
	case "escaped":
		st.Escaped = int(v)
	case "spawned":
		st.Spawned = int(v)
	case "tested":
		st.Tested = int(v)
	case "cells":
		st.Cells = int(v)
	case "kinetic":
		st.Kinetic = v
	}
}
