package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Tables holds every table the service reads or writes.
var Tables = []string{"users", "files", "grants"}

var sqlOpen = sql.Open

// Open opens a traced database/sql handle using the pgx stdlib driver.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate applies all pending migrations and verifies the resulting schema.
func Migrate(ctx context.Context, dsn string) error {
	db, err := Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return CheckSchema(ctx, db)
}

// CheckSchema returns an error naming the first table that does not exist.
func CheckSchema(ctx context.Context, db *sql.DB) error {
	for _, table := range Tables {
		var name sql.NullString
		if err := db.QueryRowContext(ctx, `SELECT to_regclass($1)::text`, table).Scan(&name); err != nil {
			return fmt.Errorf("failed to look up table %s: %w", table, err)
		}
		if !name.Valid {
			return fmt.Errorf("table %s is missing", table)
		}
	}
	return nil
}
