package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"library-api/pkg/config"
	"library-api/pkg/logger"
	"library-api/pkg/models"
)

const (
	maxRetries = 10
	retryDelay = 5 * time.Second
)

// Init connects to postgres with retries, configures the connection pool and
// migrates the schema.
func Init(cfg *config.Config) (*gorm.DB, error) {
	log := logger.Get()
	log.Info().
		Str("host", cfg.DBHost).
		Str("port", cfg.DBPort).
		Str("dbname", cfg.DBName).
		Msg("connecting to database")

	var db *gorm.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("database connection attempt %d/%d failed", i+1, maxRetries)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Msg("database connection established")
	return db, nil
}

// Migrate applies the schema for all entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Book{}, &models.Customer{}, &models.Borrowing{})
}
