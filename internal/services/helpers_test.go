package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/logging"
	"infinite-experiment/coursehub/internal/models/dtos"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"
	"infinite-experiment/coursehub/internal/tenancy"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	logging.Use(zap.NewNop().Sugar())
}

// testEnv wires every service against a temp-file registry. Course databases
// are SQLite files resolved through the real credential store and router.
type testEnv struct {
	t   *testing.T
	dir string
	db  *gorm.DB

	users         *repositories.UserRepository
	roles         *repositories.RoleRepository
	courses       *repositories.CourseRepository
	memberships   *repositories.MembershipRepository
	notifications *repositories.NotificationRepository
	content       *repositories.CourseContentRepo
	router        *tenancy.Router

	userSvc    *UserService
	roleSvc    *RoleService
	courseSvc  *CourseService
	contentSvc *ContentService
	aggregator *AggregatorService
}

// Setup test database
func setupTestDB(t *testing.T, dir string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "registry.db")+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
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

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	db := setupTestDB(t, dir)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get pool: %v", err)
	}
	sealer, err := common.NewSealer("test-sealing-key")
	if err != nil {
		t.Fatalf("Failed to build sealer: %v", err)
	}
	credentials := repositories.NewCredentialsRepo(sqlx.NewDb(sqlDB, "sqlite3"), sealer)

	router := tenancy.NewRouter(nil, credentials, &tenancy.GormConnector{
		ConnectTimeout: 2 * time.Second,
		AutoMigrate:    true,
	}, nil)
	t.Cleanup(func() { _ = router.Close() })

	e := &testEnv{
		t:             t,
		dir:           dir,
		db:            db,
		users:         repositories.NewUserRepository(db),
		roles:         repositories.NewRoleRepository(db),
		courses:       repositories.NewCourseRepository(db),
		memberships:   repositories.NewMembershipRepository(db),
		notifications: repositories.NewNotificationRepository(db),
		content:       repositories.NewCourseContentRepo(router, nil),
		router:        router,
	}

	cache := common.NewCacheService(time.Minute, time.Minute)
	e.aggregator = NewAggregatorService(e.users, e.memberships, e.content, cache, nil, 4, time.Minute)
	e.userSvc = NewUserService(e.users, e.roles)
	e.roleSvc = NewRoleService(e.roles, e.users, e.memberships)
	e.courseSvc = NewCourseService(e.courses, e.memberships, e.users, credentials, sealer, router, e.aggregator)
	e.contentSvc = NewContentService(e.content, e.roleSvc, e.memberships, e.users, e.notifications, e.aggregator)
	return e
}

func (e *testEnv) addUser(id, username string, creator bool) *gormModels.User {
	e.t.Helper()
	u := &gormModels.User{ID: id, Username: username, Email: username + "@example.com", IsCreator: creator}
	if err := e.users.Create(context.Background(), u); err != nil {
		e.t.Fatalf("Failed to create user: %v", err)
	}
	return u
}

// addCourse creates a course backed by its own SQLite file. The course named
// "offline" points at a directory that does not exist.
func (e *testEnv) addCourse(name string) *gormModels.Course {
	e.t.Helper()
	path := filepath.Join(e.dir, name+".db")
	if name == "offline" {
		path = filepath.Join(e.dir, "missing", name+".db")
	}

	course, err := e.courseSvc.CreateCourse(context.Background(), "creator", dtos.CreateCourseRequest{
		Name:        name,
		EndpointURL: "sqlite://" + path + "?_busy_timeout=5000",
		PublicKey:   "anon-" + name,
		ServiceKey:  "service-" + name,
	})
	if err != nil {
		e.t.Fatalf("Failed to create course: %v", err)
	}
	return course
}

func (e *testEnv) enroll(userID, courseID string, role constants.MembershipRole) {
	e.t.Helper()
	_, err := e.courseSvc.AddMember(context.Background(), courseID, dtos.AddMemberRequest{UserID: userID, Role: role})
	if err != nil {
		e.t.Fatalf("Failed to enrol user: %v", err)
	}
}

func (e *testEnv) claims(userID string) auth.UserClaims {
	e.t.Helper()
	u, err := e.users.GetByID(context.Background(), userID)
	if err != nil || u == nil {
		e.t.Fatalf("Failed to load user %s: %v", userID, err)
	}
	c, err := e.userSvc.BuildClaims(context.Background(), u)
	if err != nil {
		e.t.Fatalf("Failed to build claims: %v", err)
	}
	return c
}

func (e *testEnv) points(courseID, userID string) int {
	e.t.Helper()
	st, err := e.content.GetUserStats(context.Background(), courseID, userID)
	if err != nil {
		e.t.Fatalf("Failed to read stats: %v", err)
	}
	if st == nil {
		return 0
	}
	return st.Points
}
