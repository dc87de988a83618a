package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	Activity []float64 `json:"activity"`
}

// ExportJSON writes a run's metadata and activity series as one document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	activity, err := s.LoadActivity(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: *meta, Activity: activity})
}
