package tenancy

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"infinite-experiment/coursehub/internal/models/tenant"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connector opens a course database from its credentials.
type Connector interface {
	Connect(ctx context.Context, creds Credentials) (*gorm.DB, error)
}

const (
	sqliteScheme     = "sqlite://"
	fileScheme       = "file:"
	tenantDBUser     = "postgres"
	tenantDBName     = "postgres"
	tenantDBPort     = "5432"
	tenantHostPrefix = "db."
)

var ErrMalformedEndpoint = errors.New("malformed course database endpoint")

// GormConnector connects to hosted Postgres course databases, or to local
// SQLite files for sqlite:// and file: endpoints.
type GormConnector struct {
	ConnectTimeout  time.Duration
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c *GormConnector) Connect(ctx context.Context, creds Credentials) (*gorm.DB, error) {
	dialector, err := c.dialector(creds)
	if err != nil {
		return nil, err
	}

	if c.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.ConnectTimeout)
		defer cancel()
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open course database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get course database pool: %w", err)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping course database: %w", err)
	}

	if c.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(tenant.Models()...); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to provision course schema: %w", err)
		}
	}

	return db, nil
}

func (c *GormConnector) dialector(creds Credentials) (gorm.Dialector, error) {
	endpoint := strings.TrimSpace(creds.Endpoint)
	switch {
	case strings.HasPrefix(endpoint, sqliteScheme):
		path := strings.TrimPrefix(endpoint, sqliteScheme)
		if path == "" {
			return nil, ErrMalformedEndpoint
		}
		return sqlite.Open(path), nil
	case strings.HasPrefix(endpoint, fileScheme):
		return sqlite.Open(endpoint), nil
	}

	dsn, err := PostgresDSN(creds, c.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	return postgres.Open(dsn), nil
}

// PostgresDSN derives the direct database address from a hosted project
// endpoint: https://<ref>.<domain> becomes db.<ref>.<domain>:5432, and the
// service key is the password of the postgres role.
func PostgresDSN(creds Credentials, connectTimeout time.Duration) (string, error) {
	endpoint := strings.TrimSpace(creds.Endpoint)
	if endpoint == "" || creds.ServiceKey == "" {
		return "", ErrMalformedEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedEndpoint, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", ErrMalformedEndpoint
	}
	if !strings.HasPrefix(host, tenantHostPrefix) {
		host = tenantHostPrefix + host
	}

	q := url.Values{}
	q.Set("sslmode", "require")
	secs := int(connectTimeout / time.Second)
	if secs < 1 {
		secs = 1
	}
	q.Set("connect_timeout", strconv.Itoa(secs))

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(tenantDBUser, creds.ServiceKey),
		Host:     host + ":" + tenantDBPort,
		Path:     "/" + tenantDBName,
		RawQuery: q.Encode(),
	}
	return dsn.String(), nil
}
