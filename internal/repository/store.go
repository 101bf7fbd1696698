package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/romanzh1/lingua-srs/internal/models"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// inChunk bounds the number of bind variables in a single IN list.
const inChunk = 500

//go:embed migrations/*/*.sql
var migrations embed.FS

type dialect struct {
	sqlDriver   string
	gooseName   string
	placeholder squirrel.PlaceholderFormat
}

var dialects = map[string]dialect{
	DriverPostgres: {sqlDriver: "pgx", gooseName: "postgres", placeholder: squirrel.Dollar},
	DriverSQLite:   {sqlDriver: "sqlite", gooseName: "sqlite3", placeholder: squirrel.Question},
}

// Store implements models.Repository on top of PostgreSQL or SQLite.
// SQLite DSNs should carry _time_format=sqlite so timestamps round-trip as time.Time.
type Store struct {
	db     *sqlx.DB
	tx     *sqlx.Tx
	driver string
	psql   squirrel.StatementBuilderType
}

func NewDB(driver, dsn string, maxIdle, maxOpen int) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(d.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database (driver: %s): %w", driver, err)
	}

	db.SetMaxIdleConns(maxIdle)
	db.SetMaxOpenConns(maxOpen)
	db.SetConnMaxLifetime(time.Hour)
	if driver == DriverPostgres {
		db.SetConnMaxIdleTime(time.Minute * 10)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database (driver: %s): %w", driver, err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(d.placeholder)

	return &Store{db: db, driver: driver, psql: psql}, nil
}

func (r Store) Driver() string {
	return r.driver
}

func (r Store) Close() error {
	return r.db.Close()
}

// gooseLogger sends goose progress lines to the global zap logger at debug level.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	zap.S().Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	zap.S().Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (r Store) migrate(fn func(db *sql.DB, dir string, opts ...goose.OptionsFunc) error) error {
	d := dialects[r.driver]
	goose.SetLogger(gooseLogger{})
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(d.gooseName); err != nil {
		return fmt.Errorf("set migration dialect (driver: %s): %w", r.driver, err)
	}
	return fn(r.db.DB, "migrations/"+r.driver)
}

func (r Store) Reset() error {
	if err := r.migrate(goose.Reset); err != nil {
		return fmt.Errorf("reset migrations (driver: %s): %w", r.driver, err)
	}

	return nil
}

func (r Store) Up() error {
	if err := r.migrate(goose.Up); err != nil {
		return fmt.Errorf("run migrations (driver: %s): %w", r.driver, err)
	}

	return nil
}

func (r *Store) Begin(ctx context.Context) (*Store, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &Store{
		db:     r.db,
		tx:     tx,
		driver: r.driver,
		psql:   r.psql,
	}, nil
}

func (r *Store) Commit() error {
	if r.tx == nil {
		return fmt.Errorf("no active transaction to commit")
	}
	return r.tx.Commit()
}

func (r *Store) Rollback() error {
	if r.tx == nil {
		return fmt.Errorf("no active transaction to rollback")
	}
	return r.tx.Rollback()
}

// RunInTx runs fn against a transactional copy of the store. Nested calls reuse the open transaction.
func (r *Store) RunInTx(ctx context.Context, fn func(models.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}

	txRepo, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = txRepo.Rollback()
			panic(p)
		}
	}()

	if err = fn(txRepo); err != nil {
		_ = txRepo.Rollback()
		return err
	}

	if err = txRepo.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *Store) executor() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *Store) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.executor().ExecContext(ctx, query, args...)
}

func (r *Store) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, r.executor(), dest, query, args...)
}

func (r *Store) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, r.executor(), dest, query, args...)
}

func (r *Store) exec(ctx context.Context, q squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query: %w", err)
	}
	return r.ExecContext(ctx, query, args...)
}

func (r *Store) get(ctx context.Context, dest any, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query: %w", err)
	}
	return r.GetContext(ctx, dest, query, args...)
}

func (r *Store) sel(ctx context.Context, dest any, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query: %w", err)
	}
	return r.SelectContext(ctx, dest, query, args...)
}
