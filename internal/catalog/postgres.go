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

type PostgresInspector struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func (p *PostgresInspector) SchemaNames(ctx context.Context) ([]string, error) {
	query, args, err := p.sb.Select("schema_name").
		From("information_schema.schemata").
		Where(sq.NotEq{"schema_name": []string{"information_schema", "pg_catalog"}}).
		Where(sq.NotLike{"schema_name": "pg_toast%"}).
		Where(sq.NotLike{"schema_name": "pg_temp_%"}).
		OrderBy("schema_name").
		ToSql()
	if err != nil {
		return nil, err
	}
	return queryStrings(ctx, p.db, query, args...)
}

func (p *PostgresInspector) TableNames(ctx context.Context, schema string) ([]string, error) {
	query, args, err := p.sb.Select("table_name").
		From("information_schema.tables").
		Where(sq.Eq{"table_schema": schema, "table_type": "BASE TABLE"}).
		OrderBy("table_name").
		ToSql()
	if err != nil {
		return nil, err
	}
	return queryStrings(ctx, p.db, query, args...)
}

func (p *PostgresInspector) ViewNames(ctx context.Context, schema string) ([]string, error) {
	query, args, err := p.sb.Select("table_name").
		From("information_schema.views").
		Where(sq.Eq{"table_schema": schema}).
		OrderBy("table_name").
		ToSql()
	if err != nil {
		return nil, err
	}
	return queryStrings(ctx, p.db, query, args...)
}

const postgresColumnsQuery = `
	SELECT
		c.column_name,
		pg_catalog.format_type(a.atttypid, a.atttypmod),
		COALESCE(pk.is_primary, false),
		pg_catalog.col_description(a.attrelid, a.attnum),
		c.column_default,
		c.is_nullable,
		c.is_identity
	FROM information_schema.columns c
	JOIN pg_catalog.pg_namespace n ON n.nspname = c.table_schema
	JOIN pg_catalog.pg_class t ON t.relname = c.table_name AND t.relnamespace = n.oid
	JOIN pg_catalog.pg_attribute a ON a.attrelid = t.oid AND a.attname = c.column_name
	LEFT JOIN (
		SELECT kcu.column_name, true AS is_primary
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON kcu.constraint_name = tc.constraint_name
			AND kcu.table_schema = tc.table_schema
			AND kcu.table_name = tc.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
	) pk ON pk.column_name = c.column_name
	WHERE c.table_schema = $1 AND c.table_name = $2
	ORDER BY c.ordinal_position`

func (p *PostgresInspector) Columns(ctx context.Context, schema, table string) ([]domain.Column, error) {
	rows, err := p.db.QueryContext(ctx, postgresColumnsQuery, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make([]domain.Column, 0)
	for rows.Next() {
		var (
			col              domain.Column
			comment, def     sql.NullString
			isNull, identity string
		)
		if err := rows.Scan(&col.Name, &col.Type, &col.Primary, &comment, &def, &isNull, &identity); err != nil {
			return nil, err
		}
		col.Nullable = isNull == "YES"
		col.Comment = nullable(comment)
		col.Default = nullable(def)
		col.AutoIncrement = identity == "YES" || strings.HasPrefix(def.String, "nextval(")
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (p *PostgresInspector) ViewDefinition(ctx context.Context, schema, view string) (string, error) {
	query, args, err := p.sb.Select("view_definition").
		From("information_schema.views").
		Where(sq.Eq{"table_schema": schema, "table_name": view}).
		ToSql()
	if err != nil {
		return "", err
	}

	var def sql.NullString
	if err := p.db.QueryRowContext(ctx, query, args...).Scan(&def); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrViewNotFound, view)
		}
		return "", err
	}
	return def.String, nil
}

var _ Inspector = (*PostgresInspector)(nil)
