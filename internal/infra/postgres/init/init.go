package infra_pg_init

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/cinematch/core/internal/config"
)

const (
	maxOpenConns    = 16
	connMaxLifetime = 30 * time.Minute
)

// MustEstablishConn opens the room store connection pool or aborts the
// process. Rooms have no degraded mode without their store.
func MustEstablishConn(cfg config.Postgres) *sqlx.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatal("postgres connect failed: ", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return db
}
