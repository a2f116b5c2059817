package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"infinite-experiment/coursehub/internal/logging"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"
	"infinite-experiment/coursehub/internal/tenancy"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver for sqlx
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	logging.Use(zap.NewNop().Sugar())
}

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(gormModels.RegistryModels()...); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupSQLX shares the gorm test pool with sqlx, as the server does.
func setupSQLX(t *testing.T, db *gorm.DB) *sqlx.DB {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get pool: %v", err)
	}
	return sqlx.NewDb(sqlDB, "sqlite3")
}

// Static credential store
type staticStore map[string]*tenancy.Credentials

func (s staticStore) GetCredentials(ctx context.Context, courseID string) (*tenancy.Credentials, error) {
	c, ok := s[courseID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// setupCourseRepo gives every listed course its own SQLite database. A course
// named "offline" gets credentials pointing at a path that cannot be opened.
func setupCourseRepo(t *testing.T, courseIDs ...string) *CourseContentRepo {
	t.Helper()
	dir := t.TempDir()

	store := staticStore{}
	for _, id := range courseIDs {
		path := filepath.Join(dir, id+".db")
		if id == "offline" {
			path = filepath.Join(dir, "missing", id+".db")
		}
		store[id] = &tenancy.Credentials{
			CourseID:   id,
			Endpoint:   "sqlite://" + path + "?_busy_timeout=5000",
			ServiceKey: "service-" + id,
		}
	}

	router := tenancy.NewRouter(nil, store, &tenancy.GormConnector{
		ConnectTimeout: 2 * time.Second,
		AutoMigrate:    true,
	}, nil)
	t.Cleanup(func() { _ = router.Close() })

	return NewCourseContentRepo(router, nil)
}
