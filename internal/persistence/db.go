// Package persistence provides the SQLite run archive: completed runs, their
// final person snapshots, and their action logs. Purely post-run; the engine
// never consults it while stepping.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/econsim/internal/config"
	"github.com/talgya/econsim/internal/sim"
)

// DB wraps a SQLite connection for the run archive.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates an archive database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		entity_count INTEGER NOT NULL,
		max_steps INTEGER NOT NULL,
		scenario TEXT NOT NULL,
		config_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS persons (
		run_id TEXT NOT NULL,
		person_id INTEGER NOT NULL,
		money REAL NOT NULL,
		savings REAL NOT NULL,
		active INTEGER NOT NULL,
		PRIMARY KEY (run_id, person_id)
	);

	CREATE TABLE IF NOT EXISTS actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		type TEXT NOT NULL,
		payload_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_actions_run_step ON actions(run_id, step);
	CREATE INDEX IF NOT EXISTS idx_persons_run ON persons(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun archives one completed run and returns its generated id.
func (db *DB) SaveRun(cfg config.SimulationConfig, result *sim.SimulationResult, log *sim.ActionLog) (string, error) {
	runID := uuid.NewString()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, seed, entity_count, max_steps, scenario, config_json, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, cfg.Seed, cfg.EntityCount, cfg.MaxSteps, string(cfg.Scenario),
		string(cfgJSON), string(resultJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO persons
		(run_id, person_id, money, savings, active) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, p := range result.Persons {
		active := 0
		if p.Active {
			active = 1
		}
		if _, err := stmt.Exec(runID, p.ID, p.Money, p.Savings, active); err != nil {
			return "", fmt.Errorf("insert person %d: %w", p.ID, err)
		}
	}

	actionCount := 0
	if log != nil {
		actStmt, err := tx.Preparex(`INSERT INTO actions
			(run_id, step, type, payload_json) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return "", err
		}
		defer actStmt.Close()

		for _, a := range log.Actions {
			payload, err := json.Marshal(a)
			if err != nil {
				return "", fmt.Errorf("encode action: %w", err)
			}
			if _, err := actStmt.Exec(runID, a.Step, a.Type, string(payload)); err != nil {
				return "", fmt.Errorf("insert action: %w", err)
			}
		}
		actionCount = len(log.Actions)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Info("run archived", "run_id", runID, "actions", actionCount)
	return runID, nil
}

// RunSummary is one row of the archive listing.
type RunSummary struct {
	ID          string `db:"id" json:"id"`
	Seed        uint64 `db:"seed" json:"seed"`
	EntityCount int    `db:"entity_count" json:"entity_count"`
	MaxSteps    int    `db:"max_steps" json:"max_steps"`
	Scenario    string `db:"scenario" json:"scenario"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

// RecentRuns returns the most recent N archived runs.
func (db *DB) RecentRuns(limit int) ([]RunSummary, error) {
	var runs []RunSummary
	err := db.conn.Select(&runs,
		`SELECT id, seed, entity_count, max_steps, scenario, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	return runs, err
}

// LoadResult reads one archived run's result back.
func (db *DB) LoadResult(runID string) (*sim.SimulationResult, error) {
	var resultJSON string
	if err := db.conn.Get(&resultJSON, "SELECT result_json FROM runs WHERE id = ?", runID); err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	var result sim.SimulationResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("decode result for run %s: %w", runID, err)
	}
	return &result, nil
}
