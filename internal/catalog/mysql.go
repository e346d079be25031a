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

type MySQLInspector struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func (m *MySQLInspector) SchemaNames(ctx context.Context) ([]string, error) {
	query, args, err := m.sb.Select("schema_name").
		From("information_schema.schemata").
		OrderBy("schema_name").
		ToSql()
	if err != nil {
		return nil, err
	}
	return queryStrings(ctx, m.db, query, args...)
}

func (m *MySQLInspector) TableNames(ctx context.Context, schema string) ([]string, error) {
	return m.tablesOfType(ctx, schema, "BASE TABLE")
}

func (m *MySQLInspector) ViewNames(ctx context.Context, schema string) ([]string, error) {
	return m.tablesOfType(ctx, schema, "VIEW")
}

func (m *MySQLInspector) tablesOfType(ctx context.Context, schema, tableType string) ([]string, error) {
	query, args, err := m.sb.Select("table_name").
		From("information_schema.tables").
		Where(sq.Eq{"table_schema": schema, "table_type": tableType}).
		OrderBy("table_name").
		ToSql()
	if err != nil {
		return nil, err
	}
	return queryStrings(ctx, m.db, query, args...)
}

func (m *MySQLInspector) Columns(ctx context.Context, schema, table string) ([]domain.Column, error) {
	query, args, err := m.sb.Select(
		"column_name", "column_type", "column_key", "column_comment",
		"column_default", "is_nullable", "extra",
	).
		From("information_schema.columns").
		Where(sq.Eq{"table_schema": schema, "table_name": table}).
		OrderBy("ordinal_position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make([]domain.Column, 0)
	for rows.Next() {
		var (
			col                         domain.Column
			key, comment, isNull, extra string
			def                         sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.Type, &key, &comment, &def, &isNull, &extra); err != nil {
			return nil, err
		}
		col.Primary = key == "PRI"
		col.Nullable = isNull == "YES"
		col.AutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		col.Default = nullable(def)
		if comment != "" {
			col.Comment = &comment
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (m *MySQLInspector) ViewDefinition(ctx context.Context, schema, view string) (string, error) {
	query, args, err := m.sb.Select("view_definition").
		From("information_schema.views").
		Where(sq.Eq{"table_schema": schema, "table_name": view}).
		ToSql()
	if err != nil {
		return "", err
	}

	var def string
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&def); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrViewNotFound, view)
		}
		return "", err
	}
	return def, nil
}

var _ Inspector = (*MySQLInspector)(nil)
