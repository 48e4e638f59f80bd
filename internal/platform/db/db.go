package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported relational engines. The engine selector comes from
// configuration; everything above this package is engine-agnostic.
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
)

func driverName(engine string) (string, error) {
	switch engine {
	case EnginePostgres:
		return "pgx", nil
	case EngineSQLite:
		return "sqlite", nil
	case EngineMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported database engine %q", engine)
	}
}

// Open connects to the selected engine and verifies the connection.
func Open(engine, dsn string) (*sql.DB, error) {
	driver, err := driverName(engine)
	if err != nil {
		return nil, fmt.Errorf("openDB: %w", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("openDB: open %s database: %w", engine, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("openDB: verify %s connection: %w", engine, err)
	}

	return db, nil
}
