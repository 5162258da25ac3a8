// Package store provides the relational storage layer backed by Postgres.
package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/richu337/codex-ai-assistant/internal/model"
)

// ErrNotFound is returned when a row does not exist or is owned by a
// different user. The two cases are indistinguishable to callers.
var ErrNotFound = errors.New("record not found")

// Config holds database connection configuration.
type Config struct {
	DatabaseURL  string
	MaxIdleConns int
	MaxOpenConns int
	ConnLifetime time.Duration
}

// Store wraps the gorm connection. Every query it issues filters by the
// owning user id; ownership is never left to the caller's intent.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres, configures the pool and runs migrations.
func Open(cfg Config) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnLifetime)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Preferences{},
		&model.Conversation{},
		&model.Message{},
		&model.SearchEntry{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Ping verifies database connectivity.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
