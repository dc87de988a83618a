package analysis

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/schotter/internal/metrics"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{0.2, 0.4, 0.6})
	if math.Abs(s.Mean-0.4) > 1e-12 {
		t.Errorf("expected mean 0.4, got %f", s.Mean)
	}
	if math.Abs(s.StdDev-0.2) > 1e-12 {
		t.Errorf("expected stddev 0.2, got %f", s.StdDev)
	}
	if s.Min != 0.2 || s.Max != 0.6 {
		t.Errorf("unexpected range %f..%f", s.Min, s.Max)
	}

	if (Summarize(nil) != Summary{}) {
		t.Error("expected zero summary for empty series")
	}
	if one := Summarize([]float64{3}); one.StdDev != 0 || one.Mean != 3 {
		t.Errorf("unexpected single-sample summary %+v", one)
	}
}

func profile(disp ...float64) []metrics.RowStat {
	out := make([]metrics.RowStat, len(disp))
	for i, d := range disp {
		out[i] = metrics.RowStat{Row: i, Displacement: d, Rotation: d / 2}
	}
	return out
}

func TestSeverityCorrelation(t *testing.T) {
	if r := SeverityCorrelation(profile(0, 1, 2, 3)); math.Abs(r-1) > 1e-12 {
		t.Errorf("expected perfect correlation, got %f", r)
	}
	if r := SeverityCorrelation(profile(3, 2, 1, 0)); math.Abs(r+1) > 1e-12 {
		t.Errorf("expected perfect anti-correlation, got %f", r)
	}
	if r := SeverityCorrelation(profile(1, 1, 1)); r != 0 {
		t.Errorf("expected 0 without variation, got %f", r)
	}
	if r := SeverityCorrelation(profile(1)); r != 0 {
		t.Errorf("expected 0 for a single row, got %f", r)
	}
}

func TestSavePlots(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		save func(string) error
	}{
		{"profile.png", func(p string) error { return SaveProfilePlot(p, profile(0, 0.1, 0.3), "profile") }},
		{"profile.svg", func(p string) error { return SaveProfilePlot(p, profile(0, 0.2), "profile") }},
		{"activity.png", func(p string) error { return SaveActivityPlot(p, []float64{0.5, 0.4, 0.6}, "activity") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := tt.save(path); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil || info.Size() == 0 {
				t.Errorf("expected non-empty file, got %v", err)
			}
		})
	}
}

func TestSavePlotsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := SaveProfilePlot(filepath.Join(dir, "p.png"), nil, ""); err == nil {
		t.Error("expected error for empty profile")
	}
	if err := SaveActivityPlot(filepath.Join(dir, "a.png"), nil, ""); err == nil {
		t.Error("expected error for empty activity")
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, "run", []float64{0.5, 0.4, 0.6}, profile(0, 0.1, 0.3)); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	page := buf.String()
	for _, want := range []string{"<html", "Moving cells", "Disorder by row", "echarts"} {
		if !strings.Contains(page, want) {
			t.Errorf("report missing %q", want)
		}
	}

	buf.Reset()
	if err := WriteReport(&buf, "run", []float64{0.5}, nil); err != nil {
		t.Fatalf("report without profile failed: %v", err)
	}
	if strings.Contains(buf.String(), "Disorder by row") {
		t.Error("profile chart should be omitted")
	}

	if err := WriteReport(&buf, "run", nil, nil); err == nil {
		t.Error("expected error for empty activity")
	}
}

func TestSaveReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	if err := SaveReport(path, "run", []float64{0.1, 0.2}, nil); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty report, got %v", err)
	}
}
