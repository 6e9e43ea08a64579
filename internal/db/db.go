package db

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"lms-evaluation/internal/migrations"
)

// Driver names accepted by Open.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Open connects to the database and makes sure the evaluations schema
// exists. Postgres goes through the embedded migrations; sqlite runs the
// schema directly.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case Postgres:
		if err := migrations.Run(dsn); err != nil {
			return nil, err
		}
		return sqlx.ConnectContext(ctx, "pgx", dsn)
	case SQLite:
		dbx, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
		if err != nil {
			return nil, err
		}
		// one writer; sqlite serializes anyway
		dbx.SetMaxOpenConns(1)
		schema, err := migrations.Schema()
		if err != nil {
			dbx.Close()
			return nil, err
		}
		if _, err := dbx.ExecContext(ctx, schema); err != nil {
			dbx.Close()
			return nil, fmt.Errorf("apply sqlite schema: %w", err)
		}
		return dbx, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

func WithTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
