package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Domenick1991/dummydata/internal/database"
	"github.com/Domenick1991/dummydata/internal/domain"
)

var ErrViewNotFound = errors.New("view not found")

// Inspector reads schema metadata from the live catalog of a database.
type Inspector interface {
	SchemaNames(ctx context.Context) ([]string, error)
	TableNames(ctx context.Context, schema string) ([]string, error)
	ViewNames(ctx context.Context, schema string) ([]string, error)
	Columns(ctx context.Context, schema, table string) ([]domain.Column, error)
	ViewDefinition(ctx context.Context, schema, view string) (string, error)
}

func New(db *sql.DB, dialect database.Dialect) Inspector {
	switch dialect {
	case database.MySQL:
		return &MySQLInspector{db: db, sb: dialect.Builder()}
	case database.SQLite:
		return &SQLiteInspector{db: db, sb: dialect.Builder()}
	default:
		return &PostgresInspector{db: db, sb: dialect.Builder()}
	}
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func checkName(kind, name string) error {
	if !database.ValidIdentifier(name) {
		return fmt.Errorf("invalid %s name: %q", kind, name)
	}
	return nil
}
