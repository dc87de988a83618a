package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/schotter/internal/grid"
	"github.com/san-kum/schotter/internal/metrics"
	"github.com/san-kum/schotter/internal/sim"
)

const (
	metadataFile = "metadata.json"
	activityFile = "activity.csv"
)

type Store struct {
	baseDir string
	index   *Index
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// UseIndex makes Save also record runs in ix.
func (s *Store) UseIndex(ix *Index) { s.index = ix }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Cols      int                `json:"cols"`
	Rows      int                `json:"rows"`
	Ticks     int                `json:"ticks"`
	Animation AnimationSettings  `json:"animation"`
	Frames    int                `json:"frames,omitempty"`
	FramesDir string             `json:"frames_dir,omitempty"`
	Elapsed   float64            `json:"elapsed_seconds"`
	Metrics   map[string]float64 `json:"metrics"`
	Profile   []metrics.RowStat  `json:"profile,omitempty"`
}

type AnimationSettings struct {
	Displacement float64 `json:"displacement"`
	Rotation     float64 `json:"rotation"`
	Motion       float64 `json:"motion"`
	MinCycles    int     `json:"min_cycles"`
	MaxCycles    int     `json:"max_cycles"`
}

// Run describes a finished run for saving.
type Run struct {
	Name      string
	Grid      *grid.Grid
	Result    *sim.Result
	Frames    int
	FramesDir string
}

// NewRunID returns "<name>_<8 hex digits>".
func NewRunID(name string) string {
	if name == "" {
		name = "schotter"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("%s_%s", name, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *Store) Save(run Run) (string, error) {
	runID := NewRunID(run.Name)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	cfg := run.Grid.Config()
	meta := RunMetadata{
		ID:        runID,
		Name:      run.Name,
		Timestamp: time.Now(),
		Seed:      run.Result.Seed,
		Cols:      run.Grid.Cols(),
		Rows:      run.Grid.Rows(),
		Ticks:     run.Result.Ticks,
		Animation: AnimationSettings{
			Displacement: cfg.Displacement,
			Rotation:     cfg.Rotation,
			Motion:       cfg.Motion,
			MinCycles:    cfg.MinCycles,
			MaxCycles:    cfg.MaxCycles,
		},
		Frames:    run.Frames,
		FramesDir: run.FramesDir,
		Elapsed:   run.Result.Elapsed.Seconds(),
		Metrics:   run.Result.Metrics,
		Profile:   run.Result.Profile,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeActivity(filepath.Join(runDir, activityFile), run.Result.Activity); err != nil {
		return "", err
	}
	if s.index != nil {
		if err := s.index.Add(meta); err != nil {
			return runID, err
		}
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeActivity(path string, activity []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"tick", "active"}); err != nil {
		return err
	}
	for i, a := range activity {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(a, 'f', 6, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns saved runs, newest first. Unreadable entries are skipped.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadActivity reads the per-tick moving fraction of a run.
func (s *Store) LoadActivity(runID string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, activityFile))
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
		return []float64{}, nil
	}

	activity := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		activity = append(activity, v)
	}

	return activity, nil
}
