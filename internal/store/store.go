package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the ent SQL driver and hands out repositories. Queries are
// built with the ent dialect builders.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Open connects to the SQLite database at dsn, applies pragmas and
// creates any missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, drv: drv}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the ent SQL driver wrapping DB.
func (s *Store) Driver() dialect.Driver {
	return s.drv
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// KV returns the key/value repository.
func (s *Store) KV() KVRepo {
	return &kvRepo{drv: s.drv}
}

// EventRepo returns the LLM request event repository.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{drv: s.drv}
}

// Profiles returns the user profile repository.
func (s *Store) Profiles() ProfileRepo {
	return &profileRepo{drv: s.drv}
}

// Sessions returns the study session repository.
func (s *Store) Sessions() SessionRepo {
	return &sessionRepo{drv: s.drv}
}

// Plans returns the study plan repository.
func (s *Store) Plans() PlanRepo {
	return &planRepo{drv: s.drv}
}

// Users returns the account repository.
func (s *Store) Users() UserRepo {
	return &userRepo{drv: s.drv}
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(ctx context.Context, drv dialect.Driver) error {
	b := entsql.Dialect(dialect.SQLite)
	text := func(name string) *entsql.ColumnBuilder {
		return entsql.Column(name).Type("TEXT").Attr("NOT NULL")
	}
	integer := func(name string) *entsql.ColumnBuilder {
		return entsql.Column(name).Type("INTEGER").Attr("NOT NULL")
	}

	stmts := []querier{
		b.CreateTable("kv").IfNotExists().Columns(
			entsql.Column("key").Type("TEXT").Attr("PRIMARY KEY"),
			text("value"),
			integer("updated_at"),
		),
		b.CreateTable("llm_request_events").IfNotExists().Columns(
			entsql.Column("id").Type("INTEGER").Attr("PRIMARY KEY AUTOINCREMENT"),
			integer("timestamp"),
			text("provider"),
			text("model"),
			text("purpose"),
			integer("input_tokens").Attr("DEFAULT 0"),
			integer("output_tokens").Attr("DEFAULT 0"),
			integer("latency_ms").Attr("DEFAULT 0"),
			integer("success"),
			text("error_message").Attr("DEFAULT ''"),
			text("request_body").Attr("DEFAULT ''"),
			text("response_body").Attr("DEFAULT ''"),
		),
		b.CreateIndex("idx_llm_events_purpose").IfNotExists().Table("llm_request_events").Columns("purpose"),
		b.CreateTable("profiles").IfNotExists().Columns(
			entsql.Column("user_id").Type("TEXT").Attr("PRIMARY KEY"),
			text("data"),
			integer("updated_at"),
		),
		b.CreateTable("study_sessions").IfNotExists().Columns(
			entsql.Column("id").Type("TEXT").Attr("PRIMARY KEY"),
			text("user_id"),
			integer("started_at"),
			text("data"),
		),
		b.CreateIndex("idx_study_sessions_user").IfNotExists().Table("study_sessions").Columns("user_id", "started_at"),
		b.CreateTable("study_plans").IfNotExists().Columns(
			entsql.Column("id").Type("TEXT").Attr("PRIMARY KEY"),
			text("user_id"),
			integer("created_at"),
			text("data"),
		),
		b.CreateIndex("idx_study_plans_user").IfNotExists().Table("study_plans").Columns("user_id", "created_at"),
		b.CreateTable("users").IfNotExists().Columns(
			entsql.Column("id").Type("TEXT").Attr("PRIMARY KEY"),
			text("email").Attr("UNIQUE"),
			text("password_hash"),
			text("name").Attr("DEFAULT ''"),
			integer("created_at"),
		),
	}
	for _, stmt := range stmts {
		if _, err := execQuery(ctx, drv, stmt); err != nil {
			return err
		}
	}
	return nil
}

// querier is any ent builder that renders to a statement and its args.
type querier interface {
	Query() (string, []any)
}

func execQuery(ctx context.Context, drv dialect.ExecQuerier, q querier) (sql.Result, error) {
	query, args := q.Query()
	var res sql.Result
	if err := drv.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// selectRows runs a query. The caller closes the returned rows.
func selectRows(ctx context.Context, drv dialect.ExecQuerier, q querier) (*entsql.Rows, error) {
	query, args := q.Query()
	rows := &entsql.Rows{}
	if err := drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// selectOne scans the first row of q into dest and reports whether a row
// was found.
func selectOne(ctx context.Context, drv dialect.ExecQuerier, q querier, dest ...any) (bool, error) {
	rows, err := selectRows(ctx, drv, q)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return false, rows.Err()
	}
	if err := rows.Scan(dest...); err != nil {
		return false, err
	}
	return true, nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. STUDYBUDDY_DB environment variable
// 2. $XDG_DATA_HOME/studybuddy/studybuddy.db
// 3. ~/.local/share/studybuddy/studybuddy.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("STUDYBUDDY_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "studybuddy.db")
	return p, EnsureDir(p)
}

// DataDir returns the per-user data directory for studybuddy files.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "studybuddy"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
