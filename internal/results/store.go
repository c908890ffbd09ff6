// Package results persists evaluation reports and predictions in a SQLite database.
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/askiada/hatstall/pkg/learn"
	"github.com/askiada/hatstall/pkg/persona"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Evaluation is a stored evaluation report.
type Evaluation struct {
	ID        int64
	CreatedAt string
	Report    learn.Report
}

// Store is a SQLite backed results store.
type Store struct {
	db *sql.DB
}

// New opens the database at path, creating it and its directory when missing.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Wrap(err, "results: create data dir")
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "results: open database")
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "results: pragma %q", p)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "results: migration")
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS evaluations (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			score      REAL NOT NULL,
			labels     TEXT NOT NULL,
			f1         TEXT NOT NULL,
			confusion  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS prediction_runs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS predictions (
			run_id   INTEGER NOT NULL REFERENCES prediction_runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name     TEXT NOT NULL,
			label    TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		);
	`
	_, err := s.db.Exec(schema)

	return err
}

// SaveEvaluation stores report and returns its id.
func (s *Store) SaveEvaluation(ctx context.Context, report learn.Report) (int64, error) {
	labels, err := json.Marshal(report.Labels)
	if err != nil {
		return 0, errors.Wrap(err, "results: encode labels")
	}
	f1, err := json.Marshal(report.F1)
	if err != nil {
		return 0, errors.Wrap(err, "results: encode f1")
	}
	confusion, err := json.Marshal(report.Confusion)
	if err != nil {
		return 0, errors.Wrap(err, "results: encode confusion")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluations (score, labels, f1, confusion) VALUES (?, ?, ?, ?)`,
		report.Score, string(labels), string(f1), string(confusion),
	)
	if err != nil {
		return 0, errors.Wrap(err, "results: insert evaluation")
	}

	return res.LastInsertId()
}

// Evaluations returns the latest limit evaluations, newest first.
func (s *Store) Evaluations(ctx context.Context, limit int) ([]Evaluation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, score, labels, f1, confusion FROM evaluations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "results: query evaluations")
	}
	defer rows.Close()

	var res []Evaluation
	for rows.Next() {
		var (
			e                     Evaluation
			labels, f1, confusion string
		)
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Report.Score, &labels, &f1, &confusion); err != nil {
			return nil, errors.Wrap(err, "results: scan evaluation")
		}
		if err := json.Unmarshal([]byte(labels), &e.Report.Labels); err != nil {
			return nil, errors.Wrap(err, "results: decode labels")
		}
		if err := json.Unmarshal([]byte(f1), &e.Report.F1); err != nil {
			return nil, errors.Wrap(err, "results: decode f1")
		}
		if err := json.Unmarshal([]byte(confusion), &e.Report.Confusion); err != nil {
			return nil, errors.Wrap(err, "results: decode confusion")
		}
		res = append(res, e)
	}

	return res, errors.Wrap(rows.Err(), "results: iterate evaluations")
}

// SavePredictions stores predictions as one run and returns the run id.
func (s *Store) SavePredictions(ctx context.Context, predictions []persona.Prediction) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "results: begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `INSERT INTO prediction_runs DEFAULT VALUES`)
	if err != nil {
		return 0, errors.Wrap(err, "results: insert prediction run")
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "results: prediction run id")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO predictions (run_id, position, name, label) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "results: prepare prediction insert")
	}
	defer stmt.Close()
	for i, p := range predictions {
		if _, err := stmt.ExecContext(ctx, runID, i, p.Name, string(p.Label)); err != nil {
			return 0, errors.Wrapf(err, "results: insert prediction %s", p.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "results: commit predictions")
	}

	return runID, nil
}

// Predictions returns the predictions of a run in their original order.
func (s *Store) Predictions(ctx context.Context, runID int64) ([]persona.Prediction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, label FROM predictions WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "results: query predictions")
	}
	defer rows.Close()

	var res []persona.Prediction
	for rows.Next() {
		var (
			p     persona.Prediction
			label string
		)
		if err := rows.Scan(&p.Name, &label); err != nil {
			return nil, errors.Wrap(err, "results: scan prediction")
		}
		p.Label = persona.Label(label)
		res = append(res, p)
	}

	return res, errors.Wrap(rows.Err(), "results: iterate predictions")
}
