package database

import (
	"fmt"
	"strings"

	"softwire/internal/microservices/http-api/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the credential store named by databaseURL and migrates the
// users table. postgres:// and postgresql:// URLs select Postgres, anything
// else is handed to SQLite as a file path or DSN.
func Connect(databaseURL string, logger *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		// unique violations come back as gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         newGormLogger(logger),
	}

	postgresURL := isPostgresURL(databaseURL)

	var dialector gorm.Dialector
	if postgresURL {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	if !postgresURL {
		// SQLite allows a single writer; serialising on one connection keeps
		// in-memory databases shared and avoids SQLITE_BUSY under load.
		sqlDB.SetMaxOpenConns(1)
		// journal_mode is not supported for in-memory databases
		_ = db.Exec("PRAGMA journal_mode=WAL").Error
		if err := db.Exec("PRAGMA busy_timeout=5000").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to configure sqlite: %w", err)
		}
	}

	if err := sqlDB.Ping(); err != nil {
		// close the db handle if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("connected to the database",
		zap.String("dialect", db.Dialector.Name()),
	)
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isPostgresURL(u string) bool {
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}
