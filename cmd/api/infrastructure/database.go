package infrastructure

import (
	"fmt"

	"newsfeed-service/internal/adapter/db/gormdb"
	"newsfeed-service/internal/config"
	"newsfeed-service/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewDatabase opens the relational user store for the configured driver
// (sqlite or postgres) and runs migrations.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.NewGormLoggerWithConfig(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	gormCfg := &gorm.Config{
		Logger: gormLogger,
		// Map driver duplicate-key failures to gorm.ErrDuplicatedKey
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DB.Driver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.DB.Path), gormCfg)
	case "postgres":
		db, err = gorm.Open(pgdriver.Open(cfg.DB.DSN()), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.DB.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := gormdb.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	l.Info("database connected successfully",
		zap.String("driver", cfg.DB.Driver),
	)

	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
