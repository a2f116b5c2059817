package api

import (
	"time"

	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/config"
	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/logging"
	"infinite-experiment/coursehub/internal/metrics"
	"infinite-experiment/coursehub/internal/services"
	"infinite-experiment/coursehub/internal/tenancy"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

const tenantConnMaxLifetime = 30 * time.Minute

type Repositories struct {
	Users         *repositories.UserRepository
	Roles         *repositories.RoleRepository
	Courses       *repositories.CourseRepository
	Memberships   *repositories.MembershipRepository
	Settings      *repositories.SettingsRepository
	Notifications *repositories.NotificationRepository
	Pinned        *repositories.PinnedPostRepository
	Badges        *repositories.BadgeRepository
	Credentials   *repositories.CredentialsRepo
	Content       *repositories.CourseContentRepo
}

type Services struct {
	User          *services.UserService
	Role          *services.RoleService
	Course        *services.CourseService
	Content       *services.ContentService
	Settings      *services.SettingsService
	Notifications *services.NotificationService
	Pinned        *services.PinnedPostService
	Badges        *services.BadgeService
	Aggregator    *services.AggregatorService
}

type Dependencies struct {
	Registry *sqlx.DB
	Router   *tenancy.Router
	Cache    common.CacheInterface
	Metrics  *metrics.MetricsRegistry
	Repo     *Repositories
	Services *Services
	UpSince  time.Time
}

// InitDependencies wires repositories and services on top of the registry
// connections. Course databases are opened lazily through the router.
func InitDependencies(
	cfg *config.Config,
	registry *sqlx.DB,
	orm *gorm.DB,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {
	sealer, err := common.NewSealer(cfg.CredentialsSealingKey)
	if err != nil {
		return nil, err
	}
	if !sealer.Enabled() {
		logging.Warn("CREDENTIALS_SEALING_KEY not set, course credentials are stored unsealed")
	}

	credentials := repositories.NewCredentialsRepo(registry, sealer)
	router := tenancy.NewRouter(nil, credentials, &tenancy.GormConnector{
		ConnectTimeout:  cfg.TenantConnectTimeout,
		AutoMigrate:     cfg.TenantAutoMigrate,
		MaxOpenConns:    cfg.TenantMaxOpenConns,
		MaxIdleConns:    cfg.TenantMaxIdleConns,
		ConnMaxLifetime: tenantConnMaxLifetime,
	}, metricsReg)

	repos := &Repositories{
		Users:         repositories.NewUserRepository(orm),
		Roles:         repositories.NewRoleRepository(orm),
		Courses:       repositories.NewCourseRepository(orm),
		Memberships:   repositories.NewMembershipRepository(orm),
		Settings:      repositories.NewSettingsRepository(orm),
		Notifications: repositories.NewNotificationRepository(orm),
		Pinned:        repositories.NewPinnedPostRepository(orm),
		Badges:        repositories.NewBadgeRepository(orm),
		Credentials:   credentials,
		Content:       repositories.NewCourseContentRepo(router, metricsReg),
	}

	aggregator := services.NewAggregatorService(
		repos.Users,
		repos.Memberships,
		repos.Content,
		cache,
		metricsReg,
		cfg.AggregatorConcurrency,
		cfg.LeaderboardCacheTTL,
	)
	roleSvc := services.NewRoleService(repos.Roles, repos.Users, repos.Memberships)

	svcs := &Services{
		User:          services.NewUserService(repos.Users, repos.Roles),
		Role:          roleSvc,
		Course:        services.NewCourseService(repos.Courses, repos.Memberships, repos.Users, credentials, sealer, router, aggregator),
		Content:       services.NewContentService(repos.Content, roleSvc, repos.Memberships, repos.Users, repos.Notifications, aggregator),
		Settings:      services.NewSettingsService(repos.Settings),
		Notifications: services.NewNotificationService(repos.Notifications),
		Pinned:        services.NewPinnedPostService(repos.Pinned),
		Badges:        services.NewBadgeService(repos.Badges, repos.Users),
		Aggregator:    aggregator,
	}

	return &Dependencies{
		Registry: registry,
		Router:   router,
		Cache:    cache,
		Metrics:  metricsReg,
		Repo:     repos,
		Services: svcs,
		UpSince:  time.Now(),
	}, nil
}

// Close releases every course database handle.
func (d *Dependencies) Close() error {
	return d.Router.Close()
}
