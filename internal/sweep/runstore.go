package sweep

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// RunMeta records the parameters a run was executed with.
type RunMeta struct {
	CSVDir               string
	MaxRayDistanceMM     float64
	RelativePermittivity float64
}

// RunStore keeps per-run results in a sqlite database, as supplementary
// bookkeeping next to the CSV results file.
type RunStore struct {
	db *sql.DB
}

// OpenRunStore opens (or creates) the run database at path.
func OpenRunStore(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			csv_dir TEXT,
			rows INTEGER,
			max_ray_distance_mm DOUBLE,
			relative_permittivity DOUBLE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS run_samples (
			run_id TEXT,
			row INTEGER,
			model TEXT,
			capacitance_f DOUBLE,
			triangle_count INTEGER,
			hit_count INTEGER,
			avg_hit_distance_mm DOUBLE,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create run store schema: %w", err)
	}
	return &RunStore{db: db}, nil
}

// Close releases the database handle.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a run's metadata and every row sample, returning the
// generated run ID. The insert is transactional: a failed run leaves no
// partial rows behind.
func (s *RunStore) SaveRun(meta RunMeta, res *Results) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin run insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO runs (run_id, csv_dir, rows, max_ray_distance_mm, relative_permittivity) VALUES (?, ?, ?, ?, ?)",
		runID, meta.CSVDir, len(res.Rows), meta.MaxRayDistanceMM, meta.RelativePermittivity,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO run_samples (run_id, row, model, capacitance_f, triangle_count, hit_count, avg_hit_distance_mm) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return "", fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range res.Rows {
		for _, smp := range row.Samples {
			_, err := stmt.Exec(runID, row.Row+1, smp.Model.Short(),
				smp.Capacitance, smp.TriangleCount, smp.HitCount, smp.AvgHitDistanceMM)
			if err != nil {
				return "", fmt.Errorf("insert sample row %d: %w", row.Row+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}
