package store

import (
	"database/sql"
	"time"
)

// Run represents one preprocessing run recorded in the catalog.
type Run struct {
	ID         string    `json:"id"`
	DatasetDir string    `json:"dataset_dir"`
	OutputDir  string    `json:"output_dir"`
	Classes    int       `json:"classes"`
	Videos     int       `json:"videos"`
	Sequences  int       `json:"sequences"`
	Samples    int       `json:"samples"`
	Skipped    int       `json:"skipped"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// RunVideo records the outcome of one video within a run.
type RunVideo struct {
	ID        int64  `json:"id"`
	RunID     string `json:"run_id"`
	Class     string `json:"class"`
	Path      string `json:"path"`
	Sequences int    `json:"sequences"`
	Status    string `json:"status"`
	Error     string `json:"error"`
}

// RunRepository provides CRUD operations for the run catalog.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

// Create inserts a new run row at run start.
func (r *RunRepository) Create(run *Run) error {
	_, err := r.db.Exec(
		`INSERT INTO runs (id, dataset_dir, output_dir, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.DatasetDir, run.OutputDir, run.StartedAt,
	)
	return err
}

// Finish updates a run's counters and finish time.
func (r *RunRepository) Finish(run *Run) error {
	_, err := r.db.Exec(
		`UPDATE runs
		 SET classes = ?, videos = ?, sequences = ?, samples = ?, skipped = ?, finished_at = ?
		 WHERE id = ?`,
		run.Classes, run.Videos, run.Sequences, run.Samples, run.Skipped,
		run.FinishedAt, run.ID,
	)
	return err
}

// AddVideos inserts the per-video outcomes for a run in a single transaction.
func (r *RunRepository) AddVideos(runID string, videos []RunVideo) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO run_videos (run_id, class, path, sequences, status, error)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range videos {
		if _, err := stmt.Exec(runID, v.Class, v.Path, v.Sequences, v.Status, v.Error); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List returns all runs, newest first.
func (r *RunRepository) List() ([]Run, error) {
	rows, err := r.db.Query(
		`SELECT id, dataset_dir, output_dir, classes, videos, sequences, samples, skipped,
		        started_at, COALESCE(finished_at, started_at)
		 FROM runs
		 ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.DatasetDir, &run.OutputDir,
			&run.Classes, &run.Videos, &run.Sequences, &run.Samples, &run.Skipped,
			&run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// Videos returns the per-video outcomes for a run in insert order.
func (r *RunRepository) Videos(runID string) ([]RunVideo, error) {
	rows, err := r.db.Query(
		`SELECT id, run_id, class, path, sequences, status, error
		 FROM run_videos
		 WHERE run_id = ?
		 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []RunVideo
	for rows.Next() {
		var v RunVideo
		if err := rows.Scan(&v.ID, &v.RunID, &v.Class, &v.Path,
			&v.Sequences, &v.Status, &v.Error); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return videos, nil
}
