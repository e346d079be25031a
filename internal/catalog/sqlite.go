package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/dummydata/internal/domain"
	sq "github.com/Masterminds/squirrel"
)

type SQLiteInspector struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// SchemaNames lists the attached databases (main, temp and any ATTACHed file).
func (s *SQLiteInspector) SchemaNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "PRAGMA database_list")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var (
			seq        int
			name, file string
		)
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteInspector) TableNames(ctx context.Context, schema string) ([]string, error) {
	return s.objectsOfType(ctx, schema, "table")
}

func (s *SQLiteInspector) ViewNames(ctx context.Context, schema string) ([]string, error) {
	return s.objectsOfType(ctx, schema, "view")
}

func (s *SQLiteInspector) objectsOfType(ctx context.Context, schema, objType string) ([]string, error) {
	if err := checkName("schema", schema); err != nil {
		return nil, err
	}
	query, args, err := s.sb.Select("name").
		From(schema + ".sqlite_master").
		Where(sq.Eq{"type": objType}).
		Where(sq.NotLike{"name": "sqlite_%"}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	return queryStrings(ctx, s.db, query, args...)
}

// Columns reads PRAGMA table_info, which also works for views.
func (s *SQLiteInspector) Columns(ctx context.Context, schema, table string) ([]domain.Column, error) {
	if err := checkName("schema", schema); err != nil {
		return nil, err
	}
	if err := checkName("table", table); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA %s.table_info("%s")`, schema, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make([]domain.Column, 0)
	pkCount := 0
	for rows.Next() {
		var (
			cid, notNull, pk int
			col              domain.Column
			def              sql.NullString
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &def, &pk); err != nil {
			return nil, err
		}
		col.Primary = pk > 0
		col.Nullable = notNull == 0 && !col.Primary
		col.Default = nullable(def)
		if col.Primary {
			pkCount++
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// a single INTEGER PRIMARY KEY column is an alias for the rowid
	if pkCount == 1 {
		for i := range columns {
			if columns[i].Primary && strings.EqualFold(columns[i].Type, "INTEGER") {
				columns[i].AutoIncrement = true
			}
		}
	}
	return columns, nil
}

func (s *SQLiteInspector) ViewDefinition(ctx context.Context, schema, view string) (string, error) {
	if err := checkName("schema", schema); err != nil {
		return "", err
	}
	query, args, err := s.sb.Select("sql").
		From(schema + ".sqlite_master").
		Where(sq.Eq{"type": "view", "name": view}).
		ToSql()
	if err != nil {
		return "", err
	}

	var def string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&def); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrViewNotFound, view)
		}
		return "", err
	}
	return def, nil
}

var _ Inspector = (*SQLiteInspector)(nil)
