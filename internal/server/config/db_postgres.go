// Package config содержит инициализацию подключения к базе данных сервера.
//
// Пакет выполняет:
//   - открытие соединения с PostgreSQL (через драйвер pgx);
//   - проверку доступности базы (Ping);
//   - запуск миграций (golang-migrate) вверх и вниз.
//
// Глобального *sql.DB больше нет: соединение возвращается вызывающему
// и дальше передаётся в конструкторы репозиториев.
package config

import (
	"context"
	"database/sql"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/IvanChernomyrdin/go-devlog/internal/shared/logger"
)

// OpenPostgres открывает подключение к базе данных по DSN и проверяет его доступность.
func OpenPostgres(ctx context.Context, cfg DBConfig, log *logger.HTTPLogger) (*sql.DB, error) {
	customLog := log.Sugar()

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		customLog.Errorf("error to connect db: %v", err)
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLife)
	}

	if err = db.PingContext(ctx); err != nil {
		customLog.Errorf("error check db connection: %v", err)
		db.Close()
		return nil, err
	}
	return db, nil
}

// newMigrator создаёт migrate.Migrate поверх уже открытого соединения.
func newMigrator(db *sql.DB, path string) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, err
	}
	return migrate.NewWithDatabaseInstance(path, "postgres", driver)
}

// MigrateUp применяет все миграции из path (например file://migrations/postgres).
// Если миграции уже применены, migrate.ErrNoChange не считается ошибкой.
func MigrateUp(db *sql.DB, path string, log *logger.HTTPLogger) error {
	customLog := log.Sugar()

	m, err := newMigrator(db, path)
	if err != nil {
		customLog.Errorf("error creating migrations: %v", err)
		return err
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		customLog.Errorf("error applying migrations: %v", err)
		return err
	}

	customLog.Info("migrations applied successfully")
	return nil
}

// MigrateDown откатывает steps миграций назад, steps <= 0 — все.
func MigrateDown(db *sql.DB, path string, steps int, log *logger.HTTPLogger) error {
	customLog := log.Sugar()

	m, err := newMigrator(db, path)
	if err != nil {
		customLog.Errorf("error creating migrations: %v", err)
		return err
	}

	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		customLog.Errorf("error rolling back migrations: %v", err)
		return err
	}

	customLog.Infof("rolled back %d migration(s)", steps)
	return nil
}
