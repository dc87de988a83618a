package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/schotter/internal/config"
	"github.com/san-kum/schotter/internal/storage"
)

func execute(t *testing.T, args ...string) {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
}

func TestFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	if err := os.WriteFile(base, []byte("cols: 5\nrows: 6\nseed: 11\nanimation:\n  displacement: 2\n  motion: 0.1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.yaml")

	execute(t, "init-config", out, "--config", base, "--preset", "calm", "--rows", "9", "--motion", "0.7")

	cfg, err := config.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cols != 5 || cfg.Seed != 11 {
		t.Errorf("config file values lost: cols=%d seed=%d", cfg.Cols, cfg.Seed)
	}
	if cfg.Rows != 9 {
		t.Errorf("explicit --rows should win, got %d", cfg.Rows)
	}
	if cfg.Animation.Displacement != 0.5 {
		t.Errorf("preset should override the file, got displacement %v", cfg.Animation.Displacement)
	}
	if cfg.Animation.Motion != 0.7 {
		t.Errorf("explicit --motion should win, got %v", cfg.Animation.Motion)
	}
}

func TestFlagsClampNegativeScales(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.yaml")
	execute(t, "init-config", out, "--displacement=-3", "--motion", "4")

	cfg, err := config.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Animation.Displacement != 0 || cfg.Animation.Motion != 1 {
		t.Errorf("expected clamped values, got %+v", cfg.Animation)
	}
}

func TestUnknownPreset(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"init-config", filepath.Join(t.TempDir(), "x.yaml"), "--preset", "nope"})
	if err := root.Execute(); err == nil {
		t.Error("expected an error for an unknown preset")
	}
}

func TestRunSavesToStore(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "runs")
	frames := filepath.Join(dir, "frames")

	execute(t, "run", "--data", data, "--frames", frames, "--cols", "3", "--rows", "3",
		"--seed", "4", "--ticks", "10", "--record", "--name", "smoke")

	runs, err := storage.New(data).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one saved run, got %d", len(runs))
	}
	if runs[0].Seed != 4 || runs[0].Ticks != 10 {
		t.Errorf("unexpected run metadata %+v", runs[0])
	}
	if runs[0].Frames != 5 {
		t.Errorf("expected 5 recorded frames, got %d", runs[0].Frames)
	}
	if _, err := os.Stat(filepath.Join(frames, "schotter0005.png")); err != nil {
		t.Errorf("expected last frame on disk: %v", err)
	}

	ix, err := storage.New(data).OpenIndex()
	if err != nil {
		t.Fatal(err)
	}
	defer ix.Close()
	indexed, err := ix.Search(storage.Filter{Name: "smoke"})
	if err != nil {
		t.Fatal(err)
	}
	if len(indexed) != 1 || indexed[0].ID != runs[0].ID {
		t.Errorf("run missing from index: %+v", indexed)
	}
}

func TestScenarioTogglesRecording(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "runs")
	frames := filepath.Join(dir, "frames")
	sc := filepath.Join(dir, "sc.yaml")
	yaml := "name: toggled\nticks: 20\nsteps:\n" +
		"  - at: 0\n    command: toggle_recording\n" +
		"  - at: 10\n    command: toggle_recording\n"
	if err := os.WriteFile(sc, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	execute(t, "run", "--data", data, "--frames", frames, "--cols", "3", "--rows", "3",
		"--seed", "4", "--scenario", sc)

	entries, err := os.ReadDir(frames)
	if err != nil {
		t.Fatalf("frames dir missing: %v", err)
	}
	// ticks 0..9 are recorded, every second one kept
	if len(entries) != 5 {
		t.Errorf("expected 5 frames on disk, got %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(frames, "schotter0005.png")); err != nil {
		t.Errorf("expected last frame on disk: %v", err)
	}

	runs, err := storage.New(data).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one saved run, got %d", len(runs))
	}
	if runs[0].Frames != 5 || runs[0].FramesDir != frames {
		t.Errorf("frames not stored with the run: %d in %q", runs[0].Frames, runs[0].FramesDir)
	}
}

func TestSnapshotCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.svg")
	execute(t, "snapshot", path, "--cols", "2", "--rows", "2", "--ticks", "3")

	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}
