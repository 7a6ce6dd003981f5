package bench

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS bench_runs (
	n              INTEGER NOT NULL,
	max_len        INTEGER NOT NULL,
	length         INTEGER NOT NULL,
	elapsed_ms     INTEGER NOT NULL,
	explored       INTEGER NOT NULL,
	states_per_sec REAL NOT NULL
)`

const insertRowSQL = `
INSERT INTO bench_runs (n, max_len, length, elapsed_ms, explored, states_per_sec)
VALUES (?, ?, ?, ?, ?, ?)`

// WriteSQLite persists rows to a bench_runs table in a local SQLite
// database at path, creating the table if it doesn't already exist.
func WriteSQLite(path string, rows []Row) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("create bench_runs table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(insertRowSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row.N, row.MaxLen, row.Length, row.ElapsedMillis, row.Explored, row.StatesPerSec); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert row for n=%d: %w", row.N, err)
		}
	}
	return tx.Commit()
}
