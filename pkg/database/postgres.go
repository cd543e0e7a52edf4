package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormWriter forwards GORM's printf-style logger into zerolog.
type gormWriter struct {
	zl zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.zl.Warn().Str("component", "gorm").Msgf(format, args...)
}

// Connect opens the pooled Postgres connection shared by every request.
func Connect(dsn string, zl zerolog.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		gormWriter{zl: zl},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statements for poolers in transaction mode
	}), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	zl.Info().Msg("database connection established")
	return db, nil
}
