package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

// DefaultDatabase is the SQLite path used when none is given.
const DefaultDatabase = "playtests.db"

const schema = `
CREATE TABLE IF NOT EXISTS simulations (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	annotations TEXT NOT NULL DEFAULT '',
	body        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS simulations_created_at ON simulations (created_at DESC);
`

// SQLite stores each result as a JSON document with its id, timestamp,
// outcome and annotations in columns.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates the database at path. ":memory:" keeps it in memory.
func NewSQLite(path string) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultDatabase
	}
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, stmt := range []string{`PRAGMA busy_timeout = 5000;`, `PRAGMA journal_mode = WAL;`, schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("initialising sqlite store: %w", err)
		}
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, res *models.SimulationResult) error {
	body, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO simulations (id, created_at, outcome, annotations, body)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at = excluded.created_at,
	outcome = excluded.outcome,
	annotations = excluded.annotations,
	body = excluded.body`,
		res.ID, res.Timestamp.UTC().Format(time.RFC3339Nano), string(res.Outcome), res.Annotations, string(body))
	return err
}

func (s *SQLite) List(ctx context.Context) ([]*models.SimulationResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT annotations, body FROM simulations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*models.SimulationResult{}
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	newestFirst(results)
	return results, nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*models.SimulationResult, error) {
	row := s.db.QueryRowContext(ctx, `SELECT annotations, body FROM simulations WHERE id = ?`, id)
	res, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return res, err
}

func (s *SQLite) UpdateAnnotations(ctx context.Context, id, text string) error {
	out, err := s.db.ExecContext(ctx, `UPDATE simulations SET annotations = ? WHERE id = ?`, text, id)
	if err != nil {
		return err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanResult decodes a row; the annotations column wins over the copy in the body.
func scanResult(row scanner) (*models.SimulationResult, error) {
	var annotations, body string
	if err := row.Scan(&annotations, &body); err != nil {
		return nil, err
	}
	var res models.SimulationResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return nil, fmt.Errorf("decoding stored result: %w", err)
	}
	res.Annotations = annotations
	return &res, nil
}
