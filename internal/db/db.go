package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/vytor/hvladder/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

type DB struct {
	*sql.DB
	Path string
	log  *logger.Logger
}

// Open opens (creating if needed) the SQLite store at path and brings its
// schema up to date. Stores use the rollback journal so that a closed store is
// a single self-contained file that can be copied.
func Open(ctx context.Context, path string) (*DB, error) {
	log := logger.FromContext(ctx).WithPrefix("db")

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on&_journal_mode=DELETE&_synchronous=FULL", path)
	log.Debug("opening database: %s", path)

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1) // SQLite best practice for single writer

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		log.Error("failed to connect to database: %v", err)
		return nil, fmt.Errorf("connect to %s: %w", path, err)
	}

	db := &DB{DB: sqlDB, Path: path, log: log}

	log.Debug("applying migrations")
	if err := db.applyMigrations(ctx); err != nil {
		sqlDB.Close()
		log.Error("failed to apply migrations: %v", err)
		return nil, err
	}

	log.Debug("database ready")
	return db, nil
}

func (db *DB) applyMigrations(ctx context.Context) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{db.log})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		return fmt.Errorf("run goose migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output to the debug log.
type gooseLogger struct {
	log *logger.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) { l.log.Debug(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.log.Error(format, v...) }
