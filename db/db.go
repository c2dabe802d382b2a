package db

import (
	"fmt"
	"time"

	"museum_recommender/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var (
	DB *sqlx.DB // shared database handle
)

// Init opens the configured database and tunes the connection pool.
// The sqlite driver additionally bootstraps the schema, since an
// embedded database starts out empty.
func Init(cfg *config.Config) error {
	driver := cfg.DB.Driver
	if driver == "" {
		driver = "mysql"
	}

	var err error
	DB, err = sqlx.Open(driver, cfg.DB.DSN)
	if err != nil {
		return err
	}

	maxOpenConns := cfg.DB.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 50
	}

	maxIdleConns := cfg.DB.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = 10
	}

	connMaxLifetime := cfg.DB.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 60 // minutes
	}

	if driver == "sqlite" {
		// A single writer avoids SQLITE_BUSY on concurrent retains.
		DB.SetMaxOpenConns(1)
	} else {
		DB.SetMaxOpenConns(maxOpenConns)
		DB.SetMaxIdleConns(maxIdleConns)
		DB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Minute)
	}

	if err := DB.Ping(); err != nil {
		return err
	}

	if driver == "sqlite" {
		return EnsureSchema()
	}
	return nil
}

// InitSQLite opens an embedded database at path and bootstraps the
// schema. ":memory:" gives an isolated throwaway store, used by tests.
func InitSQLite(path string) error {
	var err error
	DB, err = sqlx.Open("sqlite", path)
	if err != nil {
		return err
	}
	DB.SetMaxOpenConns(1)
	if err := DB.Ping(); err != nil {
		return err
	}
	return EnsureSchema()
}

// schema is the sqlite bootstrap DDL; mysql deployments are migrated
// externally. List-valued columns hold JSON text; the codec lives on
// the model types, not in SQL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		era_ids TEXT NOT NULL DEFAULT '[]',
		similar_ids TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS artworks (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		author_id INTEGER NOT NULL,
		era_ids TEXT NOT NULL DEFAULT '[]',
		theme TEXT NOT NULL DEFAULT '',
		base_visit_minutes INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		visit_id TEXT NOT NULL UNIQUE,
		group_id TEXT NOT NULL,
		group_size_class INTEGER NOT NULL,
		group_type TEXT NOT NULL,
		knowledge_level INTEGER NOT NULL,
		preferred_eras TEXT NOT NULL DEFAULT '[]',
		preferred_author TEXT NOT NULL DEFAULT '',
		preferred_themes TEXT NOT NULL DEFAULT '[]',
		pacing_coefficient REAL NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		cluster_id TEXT NOT NULL DEFAULT '',
		ordered_artworks TEXT NOT NULL DEFAULT '[]',
		match_scores TEXT NOT NULL DEFAULT '[]',
		visited_count INTEGER NOT NULL DEFAULT 0,
		rating REAL NOT NULL,
		feedback TEXT NOT NULL DEFAULT '',
		usage_count INTEGER NOT NULL DEFAULT 0,
		redundancy REAL NOT NULL DEFAULT 0,
		utility REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		group_id TEXT NOT NULL,
		artwork_id INTEGER NOT NULL,
		rating REAL NOT NULL,
		visit_count INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (group_id, artwork_id)
	)`,
}

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema() error {
	for _, stmt := range schema {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
