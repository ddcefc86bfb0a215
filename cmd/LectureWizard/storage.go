package main

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/natindo/LectureWizard/internal/config"
	"github.com/natindo/LectureWizard/internal/database"
	"github.com/natindo/LectureWizard/internal/services"
)

// openStore подключается к выбранному хранилищу и применяет схему.
// Возвращённую функцию нужно вызвать для закрытия соединений.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.LectureStore, func(), error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("storage ready", zap.String("storage", cfg.Storage), zap.String("path", cfg.SQLitePath))
		return services.NewSQLiteStore(db), func() { db.Close() }, nil

	case config.StoragePostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect postgres")
		}
		if err := database.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("storage ready", zap.String("storage", cfg.Storage))
		return services.NewPostgresStore(pool), pool.Close, nil
	}
	return nil, nil, errors.Errorf("unknown storage %q", cfg.Storage)
}
