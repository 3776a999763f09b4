package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
)

//go:embed migrations/*.sql
var migrations embed.FS

const System = "sqlite"

type DB struct {
	*sql.DB
	QueryBuilder sq.StatementBuilderType
	name         string
}

type Options struct {
	// Path is a file path, or ":memory:" for a private in-memory database.
	Path       string
	LogQueries bool
}

func New(opts Options) (*DB, error) {
	dsn := DSN(opts.Path)

	sqlDB, err := otelsql.Open("sqlite3", dsn,
		otelsql.WithDBSystem(System),
		otelsql.WithDBName("taskapp"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, err
	}

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	db := sqlDB

	if opts.LogQueries {
		logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "sqlite").Logger()
		db = sqldblogger.OpenDriver(dsn, sqlDB.Driver(), zerologadapter.New(logger),
			sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
			sqldblogger.WithSQLQueryAsMessage(true),
		)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if !inMemory(dsn) {
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if db != sqlDB && !inMemory(dsn) {
		sqlDB.Close()
	}

	return &DB{
		DB:           db,
		QueryBuilder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		name:         opts.Path,
	}, nil
}

// DSN enables foreign keys on every connection. ":memory:" is mapped to a
// uniquely named shared-cache database so that every pooled connection sees
// the same schema.
func DSN(path string) string {
	if path == "" || path == ":memory:" {
		return fmt.Sprintf("file:mem-%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	}

	if strings.HasPrefix(path, "file:") {
		return path
	}

	return "file:" + path + "?_fk=1&_busy_timeout=5000&_journal_mode=WAL"
}

func inMemory(dsn string) bool {
	return strings.Contains(dsn, "mode=memory")
}

func (db *DB) Name() string {
	return db.name
}

// RunMigrations applies the embedded migrations. The migrate instance is not
// closed because that would close db as well.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations, "migrations")

	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
