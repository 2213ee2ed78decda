package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type dialect struct {
	createTable string
	insert      string
	recent      string
}

const recentLines = `SELECT line FROM (SELECT id, line FROM history ORDER BY id DESC LIMIT %s) recent ORDER BY id`

var dialects = map[string]dialect{
	"sqlite3": {
		createTable: `CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			line TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
		insert: `INSERT INTO history (line) VALUES (?)`,
		recent: fmt.Sprintf(recentLines, "?"),
	},
	"mysql": {
		createTable: `CREATE TABLE IF NOT EXISTS history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			line TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
		insert: `INSERT INTO history (line) VALUES (?)`,
		recent: fmt.Sprintf(recentLines, "?"),
	},
	"postgres": {
		createTable: `CREATE TABLE IF NOT EXISTS history (
			id BIGSERIAL PRIMARY KEY,
			line TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now())`,
		insert: `INSERT INTO history (line) VALUES ($1)`,
		recent: fmt.Sprintf(recentLines, "$1"),
	},
}

// Store keeps REPL input lines in a SQL table so they survive restarts.
type Store struct {
	db      *sql.DB
	dialect dialect
	driver  string
}

// Open connects to dsn with one of the sqlite3, mysql or postgres drivers
// and creates the history table if it does not exist.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("history: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		// every pooled connection to ":memory:" would be a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: create table: %w", err)
	}

	slog.Debug("history store opened", slog.String("driver", driver))
	return &Store{db: db, dialect: d, driver: driver}, nil
}

func (s *Store) Append(ctx context.Context, line string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.insert, line); err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	slog.Debug("history line stored", slog.String("driver", s.driver), slog.Int("length", len(line)))
	return nil
}

// Recent returns up to limit of the newest lines, oldest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.recent, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	lines := []string{}
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return lines, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
