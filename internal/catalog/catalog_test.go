package catalog

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/Domenick1991/dummydata/internal/database"
	"github.com/Domenick1991/dummydata/internal/domain"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixture = []string{
	`CREATE TABLE bookings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		flight_id INTEGER NOT NULL,
		seat VARCHAR(4),
		passenger_id INTEGER NOT NULL,
		price DECIMAL(10,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE passengers (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`,
	`CREATE VIEW booking_seats AS SELECT b.flight_id, b.seat AS seat_code FROM bookings AS b`,
	`CREATE VIEW booking_passengers AS SELECT b.flight_id, p.name FROM bookings b JOIN passengers p ON p.id = b.passenger_id`,
}

func newInspector(t *testing.T) (Inspector, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range fixture {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return New(db, database.SQLite), db
}

func TestSQLiteInspector_Names(t *testing.T) {
	insp, _ := newInspector(t)
	ctx := context.Background()

	schemas, err := insp.SchemaNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, schemas, "main")

	tables, err := insp.TableNames(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"bookings", "passengers"}, tables)

	views, err := insp.ViewNames(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"booking_passengers", "booking_seats"}, views)
}

func TestSQLiteInspector_Columns(t *testing.T) {
	insp, _ := newInspector(t)

	cols, err := insp.Columns(context.Background(), "main", "bookings")
	require.NoError(t, err)
	require.Len(t, cols, 5)

	assert.Equal(t, "id", cols[0].Name)
	assert.True(t, cols[0].Primary)
	assert.True(t, cols[0].AutoIncrement)
	assert.False(t, cols[0].Nullable)

	assert.Equal(t, "seat", cols[2].Name)
	assert.Equal(t, "VARCHAR(4)", cols[2].Type)
	assert.True(t, cols[2].Nullable)
	assert.Nil(t, cols[2].Default)

	require.NotNil(t, cols[4].Default)
	assert.Equal(t, "0", *cols[4].Default)
	assert.False(t, cols[4].Nullable)
}

func TestSQLiteInspector_Columns_InvalidName(t *testing.T) {
	insp, _ := newInspector(t)

	_, err := insp.Columns(context.Background(), "main", `bookings"); DROP TABLE bookings; --`)
	assert.Error(t, err)
}

func TestSQLiteInspector_ViewDefinition(t *testing.T) {
	insp, _ := newInspector(t)
	ctx := context.Background()

	def, err := insp.ViewDefinition(ctx, "main", "booking_seats")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(def, "CREATE VIEW booking_seats"))

	_, err = insp.ViewDefinition(ctx, "main", "missing")
	assert.ErrorIs(t, err, ErrViewNotFound)
}

func TestCompileCreateTable(t *testing.T) {
	def := "0"
	comment := "ticket's price"
	columns := []domain.Column{
		{Name: "id", Type: "INTEGER", Primary: true, AutoIncrement: true},
		{Name: "seat", Type: "VARCHAR(4)", Nullable: true},
		{Name: "price", Type: "DECIMAL(10,2)", Default: &def, Comment: &comment},
	}

	got := CompileCreateTable(database.SQLite, "bookings", columns)
	want := "CREATE TABLE \"bookings\" (\n" +
		"\t\"id\" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,\n" +
		"\t\"seat\" VARCHAR(4),\n" +
		"\t\"price\" DECIMAL(10,2) NOT NULL DEFAULT 0\n" +
		")"
	assert.Equal(t, want, got)

	got = CompileCreateTable(database.MySQL, "bookings", columns)
	assert.Contains(t, got, "CREATE TABLE `bookings` (")
	assert.Contains(t, got, "`id` INTEGER NOT NULL AUTO_INCREMENT")
	assert.Contains(t, got, "COMMENT 'ticket''s price'")
	assert.Contains(t, got, "PRIMARY KEY (`id`)")
}

func TestCompileCreateTable_AutoIncrement(t *testing.T) {
	seq := "nextval('bookings_id_seq'::regclass)"

	got := CompileCreateTable(database.Postgres, "bookings", []domain.Column{
		{Name: "id", Type: "integer", Primary: true, AutoIncrement: true},
	})
	assert.Contains(t, got, "\"id\" integer NOT NULL GENERATED BY DEFAULT AS IDENTITY")
	assert.Contains(t, got, "PRIMARY KEY (\"id\")")

	got = CompileCreateTable(database.Postgres, "bookings", []domain.Column{
		{Name: "id", Type: "integer", Primary: true, AutoIncrement: true, Default: &seq},
	})
	assert.Contains(t, got, "DEFAULT "+seq)
	assert.NotContains(t, got, "IDENTITY")

	// составной ключ в SQLite остаётся отдельным PRIMARY KEY
	got = CompileCreateTable(database.SQLite, "legs", []domain.Column{
		{Name: "booking_id", Type: "INTEGER", Primary: true, AutoIncrement: true},
		{Name: "leg", Type: "INTEGER", Primary: true},
	})
	assert.NotContains(t, got, "AUTOINCREMENT")
	assert.Contains(t, got, "PRIMARY KEY (\"booking_id\", \"leg\")")
}

func TestCompileCreateTable_SQLiteRoundTrip(t *testing.T) {
	inspector, db := newInspector(t)

	cols, err := inspector.Columns(context.Background(), "main", "bookings")
	require.NoError(t, err)
	ddl := CompileCreateTable(database.SQLite, "bookings_copy", cols)
	assert.Contains(t, ddl, "PRIMARY KEY AUTOINCREMENT")

	_, err = db.Exec(ddl)
	require.NoError(t, err, ddl)
}

func TestCompileCreateTable_NoPrimaryKey(t *testing.T) {
	got := CompileCreateTable(database.Postgres, "log", []domain.Column{{Name: "line", Type: "text", Nullable: true}})
	assert.Equal(t, "CREATE TABLE \"log\" (\n\t\"line\" text\n)", got)
}

func TestParseViewSource(t *testing.T) {
	testCases := []struct {
		name       string
		definition string
		table      string
		columns    []string
		all        bool
	}{
		{
			name:       "mysql stored definition",
			definition: "select `shop`.`bookings`.`flight_id` AS `flight_id`,`shop`.`bookings`.`seat` AS `seat` from `shop`.`bookings`",
			table:      "bookings",
			columns:    []string{"flight_id", "seat"},
		},
		{
			name:       "postgres stored definition",
			definition: " SELECT bookings.flight_id,\n    bookings.price\n   FROM bookings;",
			table:      "bookings",
			columns:    []string{"flight_id", "price"},
		},
		{
			name:       "sqlite create view with alias",
			definition: `CREATE VIEW booking_seats AS SELECT b.flight_id, b.seat AS seat_code FROM "bookings" AS b`,
			table:      "bookings",
			columns:    []string{"flight_id", "seat"},
		},
		{
			name:       "wildcard",
			definition: "SELECT * FROM bookings WHERE price > 10",
			table:      "bookings",
			all:        true,
		},
		{
			name:       "expressions are skipped",
			definition: "SELECT flight_id, price * 2 AS doubled FROM bookings",
			table:      "bookings",
			columns:    []string{"flight_id"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src, err := ParseViewSource(tc.definition)
			require.NoError(t, err)
			assert.Equal(t, tc.table, src.Table)
			assert.Equal(t, tc.columns, src.Columns)
			assert.Equal(t, tc.all, src.AllColumns)
		})
	}
}

func TestParseViewSource_Unresolved(t *testing.T) {
	for _, def := range []string{
		"SELECT b.flight_id, p.name FROM bookings b JOIN passengers p ON p.id = b.passenger_id",
		"SELECT flight_id FROM bookings UNION SELECT id FROM passengers",
		"SELECT flight_id FROM (SELECT flight_id FROM bookings) t",
		"SELECT 1",
		"SELECT COUNT(*) FROM bookings",
	} {
		_, err := ParseViewSource(def)
		assert.ErrorIs(t, err, ErrUnresolvedView, def)
	}

	_, err := ParseViewSource("this is not sql")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnresolvedView)
}

func TestViewSource_Selects(t *testing.T) {
	src := ViewSource{Table: "bookings", Columns: []string{"flight_id"}}
	assert.True(t, src.Selects("FLIGHT_ID"))
	assert.False(t, src.Selects("seat"))
	assert.True(t, ViewSource{AllColumns: true}.Selects("seat"))
}
