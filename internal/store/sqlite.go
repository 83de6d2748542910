package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fmoraes/quadro/internal/task"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLite stores the grid in an embedded SQLite database. Rows are kept as
// JSON cell arrays ordered by insertion position, which preserves the
// natural row order of the table.
//
// The database is opened in embedded mode with WAL for concurrent reads.
type SQLite struct {
	conn *sql.DB
	path string
}

// OpenSQLite opens (or creates) the grid database at path and initializes
// its schema. The caller MUST call Close() when done.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, task.StoreIOf("create database directory", err)
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, task.StoreIOf("open database", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, task.StoreIOf("ping database", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	s := &SQLite{conn: conn, path: path}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := s.conn.Exec(pragma); err != nil {
			_ = s.Close()
			return nil, task.StoreIOf(pragma, err)
		}
	}

	if err := s.initSchema(context.Background()); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close checkpoints the WAL and closes the connection.
func (s *SQLite) Close() error {
	if s.conn == nil {
		return nil
	}
	if _, err := s.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}
	if err := s.conn.Close(); err != nil {
		return task.StoreIOf("close database", err)
	}
	s.conn = nil
	return nil
}

// initSchema creates the grid tables and seeds the canonical header.
// Idempotent, safe to call repeatedly.
func (s *SQLite) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS grid_header (
		id INTEGER PRIMARY KEY CHECK (id = 0),
		cells TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS grid_rows (
		pos INTEGER PRIMARY KEY AUTOINCREMENT,
		cells TEXT NOT NULL
	);
	`
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return task.StoreIOf("initialize schema", err)
	}

	header, err := json.Marshal(task.Headers())
	if err != nil {
		return task.StoreIOf("marshal header", err)
	}
	query := `INSERT INTO grid_header (id, cells) VALUES (0, ?) ON CONFLICT(id) DO NOTHING`
	if _, err := s.conn.ExecContext(ctx, query, string(header)); err != nil {
		return task.StoreIOf("seed header", err)
	}
	return nil
}

// LoadAll returns the header row followed by data rows ordered by position.
func (s *SQLite) LoadAll(ctx context.Context) ([][]string, error) {
	var headerJSON string
	err := s.conn.QueryRowContext(ctx, `SELECT cells FROM grid_header WHERE id = 0`).Scan(&headerJSON)
	if err != nil {
		return nil, task.StoreIOf("load header", err)
	}

	var header []string
	if err := json.Unmarshal([]byte(headerJSON), &header); err != nil {
		return nil, task.Consistencyf("header row is not a valid cell array: %v", err)
	}

	values := [][]string{header}

	rows, err := s.conn.QueryContext(ctx, `SELECT cells FROM grid_rows ORDER BY pos ASC`)
	if err != nil {
		return nil, task.StoreIOf("load rows", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cellsJSON string
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, task.StoreIOf("scan row", err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
			return nil, task.Consistencyf("row is not a valid cell array: %v", err)
		}
		values = append(values, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, task.StoreIOf("iterate rows", err)
	}
	return values, nil
}

// AppendRows inserts all rows in a single transaction.
func (s *SQLite) AppendRows(ctx context.Context, rows [][]string) error {
	if err := validateWidths(rows); err != nil {
		return err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return task.StoreIOf("begin transaction", err)
	}
	defer tx.Rollback()

	for _, row := range rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return task.StoreIOf("marshal row", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO grid_rows (cells) VALUES (?)`, string(cells)); err != nil {
			return task.StoreIOf("insert row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return task.StoreIOf("commit append", err)
	}
	return nil
}

// OverwriteRows updates the targeted data rows in a single transaction.
// Keys are 0-based data-row indices in natural order.
func (s *SQLite) OverwriteRows(ctx context.Context, rows map[int][]string) error {
	if len(rows) == 0 {
		return nil
	}

	positions, err := s.positions(ctx)
	if err != nil {
		return err
	}
	for idx, row := range rows {
		if idx < 0 || idx >= len(positions) {
			return task.Consistencyf("row index %d out of range (store has %d data rows)", idx, len(positions))
		}
		if len(row) != task.NumColumns {
			return task.Consistencyf("row %d has %d cells, want %d", idx, len(row), task.NumColumns)
		}
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return task.StoreIOf("begin transaction", err)
	}
	defer tx.Rollback()

	for idx, row := range rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return task.StoreIOf("marshal row", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE grid_rows SET cells = ? WHERE pos = ?`, string(cells), positions[idx]); err != nil {
			return task.StoreIOf("update row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return task.StoreIOf("commit overwrite", err)
	}
	return nil
}

// positions maps data-row indices to grid_rows positions.
func (s *SQLite) positions(ctx context.Context) ([]int64, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT pos FROM grid_rows ORDER BY pos ASC`)
	if err != nil {
		return nil, task.StoreIOf("load row positions", err)
	}
	defer rows.Close()

	var positions []int64
	for rows.Next() {
		var pos int64
		if err := rows.Scan(&pos); err != nil {
			return nil, task.StoreIOf("scan position", err)
		}
		positions = append(positions, pos)
	}
	if err := rows.Err(); err != nil {
		return nil, task.StoreIOf("iterate positions", err)
	}
	return positions, nil
}

var _ Store = (*SQLite)(nil)
