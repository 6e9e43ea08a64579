package storage

import (
	"context"
	"fmt"
	"log/slog"

	"lms-evaluation/internal/db"
)

// Backend names.
const (
	DriverFile     = "file"
	DriverS3       = "s3"
	DriverPostgres = db.Postgres
	DriverSQLite   = db.SQLite
)

type Options struct {
	Driver string
	// Path is the JSON file for the file backend.
	Path string
	// DSN is the connection string for the SQL backends.
	DSN string
	S3  S3Config
}

// Open builds the configured backend. The returned cleanup closes any
// connection it opened.
func Open(ctx context.Context, o Options, logger *slog.Logger) (Store, func(), error) {
	noop := func() {}
	switch o.Driver {
	case "", DriverFile:
		return NewFileStore(o.Path), noop, nil
	case DriverS3:
		s, err := NewS3Store(ctx, o.S3, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("s3 store: %w", err)
		}
		return s, noop, nil
	case DriverPostgres, DriverSQLite:
		dbx, err := db.Open(ctx, o.Driver, o.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("%s store: %w", o.Driver, err)
		}
		return NewSQLStore(dbx), func() { _ = dbx.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", o.Driver)
	}
}
