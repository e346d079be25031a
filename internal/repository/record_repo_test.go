package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Domenick1991/dummydata/internal/database"
	"github.com/Domenick1991/dummydata/internal/domain"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookingsDDL = `CREATE TABLE bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	flight_id INTEGER NOT NULL,
	seat TEXT,
	passenger_id INTEGER NOT NULL,
	price TEXT NOT NULL
)`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(bookingsDDL)
	require.NoError(t, err)
	return db
}

func bookingRows(n int) [][]any {
	rows := make([][]any, 0, n)
	for i := 0; i < n; i++ {
		seat := "AB12"
		b := domain.Booking{FlightID: int64(100000 + i), PassengerID: 10000, Price: 1205}
		if i%2 == 0 {
			b.Seat = &seat
		}
		rows = append(rows, b.Row())
	}
	return rows
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM bookings`).Scan(&n))
	return n
}

func TestSQLRecordRepository_Insert_Append(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecordRepository(db, database.SQLite, 3)
	ctx := context.Background()

	n, err := repo.Insert(ctx, "bookings", domain.BookingColumns, bookingRows(4), domain.ModeAppend)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = repo.Insert(ctx, "bookings", domain.BookingColumns, bookingRows(7), domain.ModeAppend)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, 11, countRows(t, db))
}

func TestSQLRecordRepository_Insert_Reset(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecordRepository(db, database.SQLite, 500)
	ctx := context.Background()

	_, err := repo.Insert(ctx, "bookings", domain.BookingColumns, bookingRows(5), domain.ModeAppend)
	require.NoError(t, err)

	n, err := repo.Insert(ctx, "bookings", domain.BookingColumns, bookingRows(3), domain.ModeReset)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, countRows(t, db))
}

func TestSQLRecordRepository_Insert_ResetWithNoRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecordRepository(db, database.SQLite, 500)
	ctx := context.Background()

	_, err := repo.Insert(ctx, "bookings", domain.BookingColumns, bookingRows(5), domain.ModeAppend)
	require.NoError(t, err)

	n, err := repo.Insert(ctx, "bookings", domain.BookingColumns, nil, domain.ModeReset)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, countRows(t, db))
}

func TestSQLRecordRepository_Insert_FailureRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecordRepository(db, database.SQLite, 500)
	ctx := context.Background()

	_, err := repo.Insert(ctx, "bookings", domain.BookingColumns, bookingRows(2), domain.ModeAppend)
	require.NoError(t, err)

	bad := [][]any{{nil, nil, nil, nil}}
	_, err = repo.Insert(ctx, "bookings", domain.BookingColumns, bad, domain.ModeReset)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT NULL")
	assert.Equal(t, 2, countRows(t, db))
}

func TestSQLRecordRepository_Insert_UnknownTable(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecordRepository(db, database.SQLite, 500)

	_, err := repo.Insert(context.Background(), "missing", domain.BookingColumns, bookingRows(1), domain.ModeAppend)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}

func TestSQLRecordRepository_InvalidIdentifier(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecordRepository(db, database.SQLite, 500)
	ctx := context.Background()

	_, err := repo.Insert(ctx, "bookings; DROP TABLE bookings", domain.BookingColumns, nil, domain.ModeAppend)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = repo.Insert(ctx, "bookings", []string{"flight id"}, nil, domain.ModeAppend)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = repo.Rows(ctx, "1bookings")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestSQLRecordRepository_Rows(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecordRepository(db, database.SQLite, 500)
	ctx := context.Background()

	rows, err := repo.Rows(ctx, "bookings")
	require.NoError(t, err)
	assert.NotNil(t, rows.Records)
	assert.Empty(t, rows.Records)
	assert.Equal(t, []string{"id", "flight_id", "seat", "passenger_id", "price"}, rows.Columns)

	_, err = repo.Insert(ctx, "bookings", domain.BookingColumns, bookingRows(2), domain.ModeAppend)
	require.NoError(t, err)

	rows, err = repo.Rows(ctx, "bookings")
	require.NoError(t, err)
	require.Len(t, rows.Records, 2)

	assert.Equal(t, int64(100000), rows.Records[0]["flight_id"])
	assert.Equal(t, "AB12", rows.Records[0]["seat"])
	assert.Equal(t, "12.05", rows.Records[0]["price"])
	assert.Nil(t, rows.Records[1]["seat"])
	assert.Equal(t, int64(100001), rows.Records[1]["flight_id"])
}

func TestSQLRecordRepository_Rows_DecimalScale(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`CREATE TABLE bookings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		flight_id INTEGER NOT NULL,
		seat VARCHAR(4),
		passenger_id INTEGER NOT NULL,
		price DECIMAL(10,2) NOT NULL
	)`)
	require.NoError(t, err)

	repo := NewRecordRepository(db, database.SQLite, 500)
	ctx := context.Background()
	// SQLite хранит 12.50 как REAL 12.5, а 7.00 как INTEGER 7
	rows := [][]any{
		domain.Booking{FlightID: 100000, PassengerID: 10000, Price: 1250}.Row(),
		domain.Booking{FlightID: 100001, PassengerID: 10000, Price: 700}.Row(),
	}
	_, err = repo.Insert(ctx, "bookings", domain.BookingColumns, rows, domain.ModeAppend)
	require.NoError(t, err)

	got, err := repo.Rows(ctx, "bookings")
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "12.50", got.Records[0]["price"])
	assert.Equal(t, "7.00", got.Records[1]["price"])
	assert.Equal(t, int64(100000), got.Records[0]["flight_id"])
}

func TestReadValue(t *testing.T) {
	assert.Equal(t, "12.50", readValue(12.5, 2))
	assert.Equal(t, "3.000", readValue(int64(3), 3))
	assert.Equal(t, int64(3), readValue(int64(3), -1))
	assert.Equal(t, 0.5, readValue(0.5, -1))
	assert.Equal(t, "12.05", readValue([]byte("12.05"), 2))
	assert.Nil(t, readValue(nil, 2))
}
