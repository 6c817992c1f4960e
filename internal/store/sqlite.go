// Package store persists Tables into SQLite databases.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// Mode decides what happens to an existing table on write.
type Mode string

const (
	// Replace drops and recreates the table.
	Replace Mode = "replace"
	// Append inserts after the existing rows.
	Append Mode = "append"
)

// ParseMode validates a mode name. Empty means Replace.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return Replace, nil
	case Replace, Append:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (use replace|append)", s)
}

// ErrNoTable is returned when reading a table that does not exist.
var ErrNoTable = errors.New("no such table")

// DB wraps a SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) the SQLite file at dbPath.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time
	conn.SetMaxOpenConns(1)
	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func sqlType(k table.Kind) string {
	if k == table.KindNumeric {
		return "REAL"
	}
	return "TEXT"
}

// WriteTable stores t as the SQL table name in one transaction and returns the
// number of rows inserted. Numeric columns are REAL, the rest TEXT holding the
// original cell text; nulls are NULL.
func (db *DB) WriteTable(ctx context.Context, name string, t *table.Table, mode Mode) (int, error) {
	if t == nil {
		return 0, fmt.Errorf("write table: nil table")
	}
	if name == "" {
		return 0, fmt.Errorf("write table: empty table name")
	}
	if mode == "" {
		mode = Replace
	}
	cols := t.Columns()
	if len(cols) == 0 {
		return 0, fmt.Errorf("write table %q: no columns", name)
	}

	defs := make([]string, len(cols))
	idents := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		idents[i] = quote(c.Name)
		defs[i] = idents[i] + " " + sqlType(c.Kind)
		marks[i] = "?"
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if mode == Replace {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(name)); err != nil {
			return 0, fmt.Errorf("drop %q: %w", name, err)
		}
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("create %q: %w", name, err)
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(name), strings.Join(idents, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for r := 0; r < t.Rows(); r++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for i, c := range cols {
			switch {
			case c.IsNull(r):
				args[i] = nil
			case c.Kind == table.KindNumeric:
				args[i], _ = c.Float(r)
			default:
				args[i] = c.String(r)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", r+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return t.Rows(), nil
}

// ReadTable loads the SQL table name back as a Table. REAL columns come back
// numeric; everything else is categorical text.
func (db *DB) ReadTable(ctx context.Context, name string) (*table.Table, error) {
	info, err := db.conn.QueryContext(ctx, "SELECT name, type FROM pragma_table_info(?)", name)
	if err != nil {
		return nil, fmt.Errorf("table info %q: %w", name, err)
	}
	var names, types []string
	for info.Next() {
		var n, typ string
		if err := info.Scan(&n, &typ); err != nil {
			info.Close()
			return nil, err
		}
		names = append(names, n)
		types = append(types, strings.ToUpper(typ))
	}
	info.Close()
	if err := info.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoTable, name)
	}

	idents := make([]string, len(names))
	for i, n := range names {
		idents[i] = quote(n)
	}
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s", strings.Join(idents, ", "), quote(name)))
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", name, err)
	}
	defer rows.Close()

	nums := make([][]float64, len(names))
	texts := make([][]string, len(names))
	nulls := make([][]bool, len(names))
	dest := make([]any, len(names))
	vals := make([]sql.NullString, len(names))
	fvals := make([]sql.NullFloat64, len(names))
	for rows.Next() {
		for i := range names {
			if types[i] == "REAL" {
				dest[i] = &fvals[i]
			} else {
				dest[i] = &vals[i]
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %q: %w", name, err)
		}
		for i := range names {
			if types[i] == "REAL" {
				nums[i] = append(nums[i], fvals[i].Float64)
				nulls[i] = append(nulls[i], !fvals[i].Valid)
				continue
			}
			texts[i] = append(texts[i], vals[i].String)
			nulls[i] = append(nulls[i], !vals[i].Valid)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cols := make([]*table.Column, len(names))
	for i, n := range names {
		if types[i] == "REAL" {
			cols[i] = table.NewNumeric(n, nums[i], nulls[i])
			continue
		}
		cols[i] = table.NewCategorical(n, texts[i], nulls[i])
	}
	return table.New(name, cols...)
}

// Tables lists the user tables in the database.
func (db *DB) Tables(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// WriteTable opens dbPath, writes t as name and closes the database.
func WriteTable(ctx context.Context, dbPath, name string, t *table.Table, mode Mode) (int, error) {
	db, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return db.WriteTable(ctx, name, t, mode)
}

// ReadTable opens dbPath and reads the table name.
func ReadTable(ctx context.Context, dbPath, name string) (*table.Table, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.ReadTable(ctx, name)
}
