package db

import (
	"fmt"

	"infinite-experiment/coursehub/internal/logging"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitPostgresORM layers GORM over the registry pool opened by InitPostgres,
// so both share one set of connections.
func InitPostgresORM(conn *sqlx.DB, autoMigrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn.DB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if autoMigrate {
		if err := db.AutoMigrate(gormModels.RegistryModels()...); err != nil {
			return nil, fmt.Errorf("failed to migrate registry schema: %w", err)
		}
		logging.Info("Registry schema migrated")
	}

	logging.Info("Connected to Postgres via GORM")
	return db, nil
}
