package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Domenick1991/dummydata/config"
	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func ParseDialect(provider string) (Dialect, error) {
	switch provider {
	case "mysql":
		return MySQL, nil
	case "postgresql", "postgres":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database provider: %s", provider)
	}
}

func (d Dialect) DriverName() string {
	switch d {
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite3"
	default:
		return "pgx"
	}
}

func (d Dialect) Placeholder() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}
	return sq.Question
}

// Builder returns a squirrel statement builder using the dialect's placeholders.
func (d Dialect) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Placeholder())
}

// Quote quotes an identifier for the dialect.
func (d Dialect) Quote(ident string) string {
	switch d {
	case MySQL:
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	case Postgres:
		return pq.QuoteIdentifier(ident)
	default:
		return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
	}
}

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidIdentifier reports whether name is a plain table or column identifier
// that is safe to place into SQL text.
func ValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

type poolLimits struct {
	maxOpen     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

// poolLimitsFor returns the pool settings of a dialect. Zero means unlimited.
func poolLimitsFor(dialect Dialect, cfg config.DatabaseConfig) poolLimits {
	if dialect == SQLite {
		// every new connection to an in-memory database is a different
		// database, so the single connection must never be closed by the pool
		return poolLimits{maxOpen: 1}
	}
	return poolLimits{
		maxOpen:     cfg.MaxOpenConns,
		maxLifetime: 15 * time.Minute,
		maxIdleTime: 3 * time.Minute,
	}
}

// Open opens and pings the configured database.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(cfg.Provider)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(dialect.DriverName(), cfg.DSN())
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}

	limits := poolLimitsFor(dialect, cfg)
	db.SetMaxOpenConns(limits.maxOpen)
	db.SetConnMaxLifetime(limits.maxLifetime)
	db.SetConnMaxIdleTime(limits.maxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, dialect, nil
}
