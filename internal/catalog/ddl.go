package catalog

import (
	"strings"

	"github.com/Domenick1991/dummydata/internal/database"
	"github.com/Domenick1991/dummydata/internal/domain"
)

// CompileCreateTable renders a CREATE TABLE statement for table from its
// reflected columns. Primary key columns are collected into one PRIMARY KEY
// clause in column order, except for a SQLite autoincrement key, which SQLite
// only accepts inline.
func CompileCreateTable(dialect database.Dialect, table string, columns []domain.Column) string {
	lines := make([]string, 0, len(columns)+1)
	var pk []string
	inlineKey := sqliteAutoIncrementKey(dialect, columns)

	for i, col := range columns {
		var b strings.Builder
		b.WriteString(dialect.Quote(col.Name))
		b.WriteString(" ")
		b.WriteString(col.Type)
		if !col.Nullable {
			b.WriteString(" NOT NULL")
		}
		if col.Default != nil {
			b.WriteString(" DEFAULT ")
			b.WriteString(*col.Default)
		}
		if col.AutoIncrement {
			switch {
			case dialect == database.MySQL:
				b.WriteString(" AUTO_INCREMENT")
			case dialect == database.Postgres && col.Default == nil:
				// serial columns already carry their nextval() default
				b.WriteString(" GENERATED BY DEFAULT AS IDENTITY")
			case i == inlineKey:
				b.WriteString(" PRIMARY KEY AUTOINCREMENT")
			}
		}
		if col.Comment != nil && dialect == database.MySQL {
			b.WriteString(" COMMENT '")
			b.WriteString(strings.ReplaceAll(*col.Comment, "'", "''"))
			b.WriteString("'")
		}
		lines = append(lines, b.String())

		if col.Primary && i != inlineKey {
			pk = append(pk, dialect.Quote(col.Name))
		}
	}
	if len(pk) > 0 {
		lines = append(lines, "PRIMARY KEY ("+strings.Join(pk, ", ")+")")
	}

	return "CREATE TABLE " + dialect.Quote(table) + " (\n\t" + strings.Join(lines, ",\n\t") + "\n)"
}

// sqliteAutoIncrementKey returns the index of the only primary key column when
// it is autoincrement, or -1.
func sqliteAutoIncrementKey(dialect database.Dialect, columns []domain.Column) int {
	if dialect != database.SQLite {
		return -1
	}
	key := -1
	for i, col := range columns {
		if !col.Primary {
			continue
		}
		if key != -1 {
			return -1
		}
		key = i
	}
	if key == -1 || !columns[key].AutoIncrement {
		return -1
	}
	return key
}
