package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Domenick1991/dummydata/internal/database"
	"github.com/Domenick1991/dummydata/internal/domain"
)

var ErrInvalidIdentifier = errors.New("invalid identifier")

type RecordRepository interface {
	Insert(ctx context.Context, table string, columns []string, rows [][]any, mode domain.Mode) (int, error)
	Rows(ctx context.Context, table string) (domain.RowSet, error)
}

type SQLRecordRepository struct {
	db        *sql.DB
	dialect   database.Dialect
	batchSize int
}

func NewRecordRepository(db *sql.DB, dialect database.Dialect, batchSize int) RecordRepository {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &SQLRecordRepository{db: db, dialect: dialect, batchSize: batchSize}
}

// Insert writes rows into table inside one transaction. In reset mode every
// existing row is deleted first.
func (r *SQLRecordRepository) Insert(ctx context.Context, table string, columns []string, rows [][]any, mode domain.Mode) (int, error) {
	if err := checkIdentifiers(table, columns...); err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	sb := r.dialect.Builder()
	quoted := r.dialect.Quote(table)

	if mode == domain.ModeReset {
		query, args, err := sb.Delete(quoted).ToSql()
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	quotedCols := make([]string, len(columns))
	for i, c := range columns {
		quotedCols[i] = r.dialect.Quote(c)
	}

	inserted := 0
	for start := 0; start < len(rows); start += r.batchSize {
		end := min(start+r.batchSize, len(rows))

		ins := sb.Insert(quoted).Columns(quotedCols...)
		for _, row := range rows[start:end] {
			ins = ins.Values(row...)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert into %s: %w", table, err)
		}
		inserted += end - start
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// Rows returns every row of table keyed by column name, with the columns in
// table order. An empty table yields an empty, non-nil slice of records.
// Decimal values that the driver hands out as numbers are rendered with the
// column's scale, so 12.5 in a DECIMAL(10,2) column reads back as "12.50".
func (r *SQLRecordRepository) Rows(ctx context.Context, table string) (domain.RowSet, error) {
	if err := checkIdentifiers(table); err != nil {
		return domain.RowSet{}, err
	}

	query, args, err := r.dialect.Builder().Select("*").From(r.dialect.Quote(table)).ToSql()
	if err != nil {
		return domain.RowSet{}, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.RowSet{}, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return domain.RowSet{}, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return domain.RowSet{}, err
	}
	scales := make([]int, len(types))
	for i, ct := range types {
		scales[i] = decimalScale(ct)
	}

	result := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return domain.RowSet{}, err
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			record[col] = readValue(values[i], scales[i])
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return domain.RowSet{}, err
	}
	return domain.RowSet{Columns: columns, Records: result}, nil
}

var decimalType = regexp.MustCompile(`(?i)^(DECIMAL|NUMERIC)\s*\(\s*\d+\s*,\s*(\d+)\s*\)$`)

// decimalScale returns the number of fractional digits of a DECIMAL column,
// or -1 for other columns. SQLite reports no scale, only the declared type.
func decimalScale(ct *sql.ColumnType) int {
	if _, scale, ok := ct.DecimalSize(); ok {
		return int(scale)
	}
	if m := decimalType.FindStringSubmatch(strings.TrimSpace(ct.DatabaseTypeName())); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			return n
		}
	}
	return -1
}

func readValue(v any, scale int) any {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case float64:
		if scale >= 0 {
			return strconv.FormatFloat(v, 'f', scale, 64)
		}
	case int64:
		// SQLite stores 12.00 in a NUMERIC column as the integer 12
		if scale >= 0 {
			return strconv.FormatFloat(float64(v), 'f', scale, 64)
		}
	}
	return v
}

func checkIdentifiers(table string, columns ...string) error {
	if !database.ValidIdentifier(table) {
		return fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}
	for _, c := range columns {
		if !database.ValidIdentifier(c) {
			return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, c)
		}
	}
	return nil
}

var _ RecordRepository = (*SQLRecordRepository)(nil)
