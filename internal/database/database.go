package database

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// ConnectPostgres открывает пул соединений с PostgreSQL по заданной строке подключения.
// Возвращает *pgxpool.Pool, который надо закрывать.
func ConnectPostgres(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "pgx connect")
	}

	// Проверка связи
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "pgx ping")
	}

	return pool, nil
}

// MigratePostgres создаёт таблицы, если их ещё нет.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate postgres")
		}
	}
	return nil
}

// OpenSQLite открывает файл SQLite (или ":memory:") с включёнными внешними ключами.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// SQLite допускает одного писателя; для ":memory:" это ещё и одна общая база.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "sqlite ping")
	}
	return db, nil
}

// MigrateSQLite создаёт таблицы, если их ещё нет.
func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate sqlite")
		}
	}
	return nil
}
