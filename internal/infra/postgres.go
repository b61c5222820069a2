package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fullgorilla/internal/models/db_models"
)

func InitPostgresql(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		log.Error("error connecting to database", zap.Error(err))
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

func ClosePostgresql(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("error closing database connection", zap.Error(err))
	} else {
		log.Info("postgres connection closed")
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(db_models.All()...)
}

func StartTransaction(db *gorm.DB) *gorm.DB {
	return db.Begin()
}

// ReleaseTransaction commits tx when err is nil and rolls it back otherwise.
// It returns err, or the commit failure.
func ReleaseTransaction(tx *gorm.DB, err error) error {
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
