package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"social/config"
	"social/internal/logging"
)

// Open connects to Postgres through lib/pq and applies the pool settings.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logging.Info().Msg("connected to database")
	return db, nil
}

// Database wraps a gorm handle sharing the connection pool of a *sql.DB. It is only used
// for schema management; queries go through database/sql.
type Database struct {
	*gorm.DB
}

func NewDatabase(sqlDB *sql.DB) (*Database, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise gorm: %w", err)
	}
	return &Database{db}, nil
}

// Migrate creates or updates every table, then the indexes gorm tags cannot express.
func (db *Database) Migrate() error {
	start := time.Now()
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	for _, stmt := range extraStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	logging.Info().Dur("elapsed", time.Since(start)).Msg("database migration completed")
	return nil
}

var extraStatements = []string{
	// A pair of accounts has at most one connection whichever side created it.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_connections_pair
		ON connections (LEAST(account1_id, account2_id), GREATEST(account1_id, account2_id))`,
}
