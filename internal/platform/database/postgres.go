package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/srgjo27/event_ticket/internal/platform/config"
)

const retryDelay = 2 * time.Second

func NewPostgresDB(cfg config.DatabaseConfig, log zerolog.Logger) (*sql.DB, error) {
	maxRetries := cfg.ConnectRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var db *sql.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		log.Info().Int("attempt", i).Int("max_attempts", maxRetries).Str("host", cfg.Host).Msg("connecting to database")
		db, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = db.Ping()
		}

		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
			log.Info().Msg("database connected")
			return db, nil
		}

		if db != nil {
			db.Close()
		}
		if i < maxRetries {
			log.Warn().Err(err).Dur("retry_in", retryDelay).Msg("database not ready")
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("connect database after %d attempts: %w", maxRetries, err)
}
