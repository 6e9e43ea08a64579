package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

//go:embed *.sql
var files embed.FS

// Run applies all up migrations embedded in this package to a Postgres
// database. It is idempotent.
func Run(dsn string) error {
	if dsn == "" {
		return errors.New("migrations: database dsn is not set")
	}

	// iofs driver from embedded files
	d, err := iofs.New(files, ".")
	if err != nil {
		return fmt.Errorf("iofs: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, dsn)
	if err != nil {
		return fmt.Errorf("migrate new: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Schema returns the concatenated up migrations, in order, for databases
// that apply the schema directly instead of through migrate (sqlite).
func Schema() (string, error) {
	names, err := fs.Glob(files, "*.up.sql")
	if err != nil {
		return "", err
	}
	var out []byte
	for _, n := range names {
		b, err := files.ReadFile(n)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", n, err)
		}
		out = append(out, b...)
		out = append(out, '\n')
	}
	return string(out), nil
}
