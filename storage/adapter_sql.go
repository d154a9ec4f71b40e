package storage

import (
	"database/sql"
	"fmt"
	"strings"
)

type SQLAdapter struct {
	DB      *sql.DB
	dialect string
}

func (a *SQLAdapter) Dialect() string { return a.dialect }

func isSQLDB(conn any) bool {
	db, ok := conn.(*sql.DB)
	return ok && db != nil
}

func newSQLAdapter(conn any) (Adapter, error) {
	db := conn.(*sql.DB)
	dialect, err := sniffDialect(db)
	if err != nil {
		return nil, err
	}
	return &SQLAdapter{DB: db, dialect: dialect}, nil
}

// sniffDialect derives the dialect from the registered driver's type name,
// e.g. *sqlite.Driver or *stdlib.Driver for pgx.
func sniffDialect(db *sql.DB) (string, error) {
	name := strings.ToLower(fmt.Sprintf("%T", db.Driver()))
	switch {
	case strings.Contains(name, "sqlite"):
		return DialectSQLite, nil
	case strings.Contains(name, "pgx"), strings.Contains(name, "stdlib"), strings.Contains(name, "postgres"), strings.Contains(name, "pq."):
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("%w: sql driver %s", ErrUnsupportedDialect, name)
}
