package db

import (
	"fmt"
	"time"

	"infinite-experiment/coursehub/internal/logging"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	connectAttempts = 10
	connectBackoff  = 500 * time.Millisecond
)

// InitPostgres connects to the registry database, retrying while it comes up.
func InitPostgres(dsn string) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	for i := 0; i < connectAttempts; i++ {
		conn, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			conn.SetMaxOpenConns(25)
			conn.SetMaxIdleConns(5)
			conn.SetConnMaxLifetime(30 * time.Minute)
			return conn, nil
		}
		logging.Warn("Registry database not ready", "attempt", i+1, "error", err.Error())
		time.Sleep(connectBackoff)
	}
	return nil, fmt.Errorf("failed to connect to registry database: %w", err)
}
