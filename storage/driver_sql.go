package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type SQLDriver struct {
	a       *SQLAdapter
	dialect string
}

func newSQLDriver(dialect string) driverFactory {
	return func(adapter Adapter) (Driver, error) {
		a, ok := adapter.(*SQLAdapter)
		if !ok {
			return nil, fmt.Errorf("sql driver expects *SQLAdapter, got %T", adapter)
		}
		return &SQLDriver{a: a, dialect: dialect}, nil
	}
}

func (d *SQLDriver) Dialect() string { return d.dialect }

func (d *SQLDriver) Facts() FactRepo {
	return &sqlFactRepo{db: d.a.DB, dialect: d.dialect}
}

func (d *SQLDriver) Migrate(ctx context.Context) error {
	if d.a == nil || d.a.DB == nil {
		return ErrNotStarted
	}

	var migrations map[int][]string
	switch d.dialect {
	case DialectSQLite:
		migrations = sqliteMigrations
	case DialectPostgres:
		migrations = postgresMigrations
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDialect, d.dialect)
	}

	// The version table must exist before it can be read.
	if _, err := d.a.DB.ExecContext(ctx, createSchemaVersionSQL); err != nil {
		return fmt.Errorf("create schema version table: %w", err)
	}

	currentVersion, err := d.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if currentVersion >= schemaVersion {
		return nil
	}

	tx, err := d.a.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for v := currentVersion + 1; v <= schemaVersion; v++ {
		for _, op := range migrations[v] {
			if _, err := tx.ExecContext(ctx, op); err != nil {
				return fmt.Errorf("migration %d failed: %w", v, err)
			}
		}
	}

	if currentVersion == 0 {
		_, err = tx.ExecContext(ctx, rebind(d.dialect, "INSERT INTO histfacts_schema_version (num) VALUES (?)"), schemaVersion)
	} else {
		_, err = tx.ExecContext(ctx, rebind(d.dialect, "UPDATE histfacts_schema_version SET num = ?"), schemaVersion)
	}
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

func (d *SQLDriver) schemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := d.a.DB.QueryRowContext(ctx, "SELECT num FROM histfacts_schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(version.Int64), nil
}

// rebind rewrites ? placeholders as $n for postgres.
func rebind(dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
