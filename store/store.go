/*
Package store keeps an append-only SQLite log of experiment runs so metric
reports stay comparable across estimator and preprocessing changes.
*/
package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"math"
	"time"

	"github.com/SARARANJBAR/Radiomics-Ki67/model"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/xerrors"
)

//go:embed schema.sql
var schemaSQL string

var nan = math.NaN()

// Store provides durable storage for experiment runs.
type Store struct {
	db *sql.DB
}

// Run is one recorded experiment.
type Run struct {
	ID             int64
	CreatedAt      time.Time
	Dataset        string
	Estimator      string
	Params         model.Params
	Metrics        model.Metrics
	DroppedTargets int
}

/*
Open creates or opens the run database at path. SQLite runs in WAL mode
with a single writer connection; safe to call repeatedly.
*/
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, xerrors.Errorf("open run store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, xerrors.Errorf("connect run store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, xerrors.Errorf("apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, xerrors.Errorf("apply run store schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append records one finished run and returns its id.
func (s *Store) Append(r Run) (int64, error) {
	params, err := json.Marshal(r.Params)
	if err != nil {
		return 0, xerrors.Errorf("encode params: %w", err)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	var r2 interface{}
	if r.Metrics.R2Defined() {
		r2 = r.Metrics.R2
	}
	res, err := s.db.Exec(
		`INSERT INTO runs (created_at, dataset, estimator, params, mse, rmse, r2, n_eval, dropped_targets)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CreatedAt.Format(time.RFC3339), r.Dataset, r.Estimator, string(params),
		r.Metrics.MSE, r.Metrics.RMSE, r2, r.Metrics.Evaluated, r.DroppedTargets)
	if err != nil {
		return 0, xerrors.Errorf("append run: %w", err)
	}
	return res.LastInsertId()
}

// List returns recorded runs for a dataset, newest first; dataset "" means all.
func (s *Store) List(dataset string) ([]Run, error) {
	q := `SELECT id, created_at, dataset, estimator, params, mse, rmse, r2, n_eval, dropped_targets
	      FROM runs`
	var args []interface{}
	if dataset != "" {
		q += ` WHERE dataset = ?`
		args = append(args, dataset)
	}
	q += ` ORDER BY id DESC`
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, xerrors.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		var created, params string
		var r2 sql.NullFloat64
		if err := rows.Scan(&r.ID, &created, &r.Dataset, &r.Estimator, &params,
			&r.Metrics.MSE, &r.Metrics.RMSE, &r2, &r.Metrics.Evaluated, &r.DroppedTargets); err != nil {
			return nil, xerrors.Errorf("scan run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		if r2.Valid {
			r.Metrics.R2 = r2.Float64
		} else {
			r.Metrics.R2 = nan
		}
		if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
			return nil, xerrors.Errorf("decode params of run %d: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
