package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	indexFile = "runs.db"
	// fixed width so created sorts as text
	createdLayout = "2006-01-02T15:04:05.000000000Z"
)

const indexSchema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created TEXT NOT NULL,
		seed INTEGER NOT NULL,
		cols INTEGER NOT NULL,
		rows INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		displacement REAL NOT NULL,
		rotation REAL NOT NULL,
		motion REAL NOT NULL,
		activity REAL,
		frames INTEGER
	);
	CREATE INDEX IF NOT EXISTS runs_seed ON runs (seed);
`

// Index is a SQLite catalogue of saved runs, so runs can be filtered without
// reading every metadata file. The run directories stay authoritative; an
// index can always be rebuilt from them.
type Index struct {
	db *sql.DB
}

// IndexEntry is one row of the index.
type IndexEntry struct {
	ID           string
	Name         string
	Timestamp    time.Time
	Seed         int64
	Cols, Rows   int
	Ticks        int
	Displacement float64
	Rotation     float64
	Motion       float64
	Activity     float64
	Frames       int
}

// Filter narrows a search. Zero fields match everything.
type Filter struct {
	Name        string
	Seed        int64
	MinActivity float64
	Limit       int
}

func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Index{db: db}, nil
}

// OpenIndex opens the index kept alongside the store's runs.
func (s *Store) OpenIndex() (*Index, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	return OpenIndex(filepath.Join(s.baseDir, indexFile))
}

func (ix *Index) Close() error { return ix.db.Close() }

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func addRun(db execer, meta RunMetadata) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO runs (id, name, created, seed, cols, rows, ticks, displacement, rotation, motion, activity, frames)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID,
		meta.Name,
		meta.Timestamp.UTC().Format(createdLayout),
		meta.Seed,
		meta.Cols,
		meta.Rows,
		meta.Ticks,
		meta.Animation.Displacement,
		meta.Animation.Rotation,
		meta.Animation.Motion,
		meta.Metrics["active_cells"],
		meta.Frames,
	)
	if err != nil {
		return fmt.Errorf("index run %s: %w", meta.ID, err)
	}
	return nil
}

func (ix *Index) Add(meta RunMetadata) error { return addRun(ix.db, meta) }

func (ix *Index) Remove(runID string) error {
	_, err := ix.db.Exec(`DELETE FROM runs WHERE id = ?`, runID)
	return err
}

// Search returns matching runs, newest first.
func (ix *Index) Search(f Filter) ([]IndexEntry, error) {
	var (
		where []string
		args  []any
	)
	if f.Name != "" {
		where = append(where, "name = ?")
		args = append(args, f.Name)
	}
	if f.Seed != 0 {
		where = append(where, "seed = ?")
		args = append(args, f.Seed)
	}
	if f.MinActivity > 0 {
		where = append(where, "activity >= ?")
		args = append(args, f.MinActivity)
	}

	query := `SELECT id, name, created, seed, cols, rows, ticks, displacement, rotation, motion, activity, frames FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := ix.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	defer rows.Close()

	entries := make([]IndexEntry, 0)
	for rows.Next() {
		var (
			e        IndexEntry
			created  string
			activity sql.NullFloat64
			frames   sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Name, &created, &e.Seed, &e.Cols, &e.Rows, &e.Ticks,
			&e.Displacement, &e.Rotation, &e.Motion, &activity, &frames); err != nil {
			return nil, err
		}
		if e.Timestamp, err = time.Parse(createdLayout, created); err != nil {
			return nil, fmt.Errorf("run %s: %w", e.ID, err)
		}
		e.Activity = activity.Float64
		e.Frames = int(frames.Int64)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Rebuild replaces the index contents with the runs found in s.
func (ix *Index) Rebuild(s *Store) (int, error) {
	runs, err := s.List()
	if err != nil {
		return 0, err
	}

	tx, err := ix.db.Begin()
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`DELETE FROM runs`); err != nil {
		tx.Rollback()
		return 0, err
	}
	for _, meta := range runs {
		if err := addRun(tx, meta); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	return len(runs), tx.Commit()
}
