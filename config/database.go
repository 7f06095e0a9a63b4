package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// databaseDSN prefers DATABASE_URL (converted to key/value form) and falls
// back to the discrete DB_* variables.
func databaseDSN() (string, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		dsn, err := pq.ParseURL(url)
		if err != nil {
			return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		return dsn, nil
	}

	dbHost := os.Getenv("DB_HOST")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbPort := getEnv("DB_PORT", "5432")
	sslMode := getEnv("DB_SSLMODE", "disable")

	if dbHost == "" || dbName == "" {
		return "", errors.New("DATABASE_URL or DB_HOST/DB_NAME must be set")
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		dbHost, dbUser, dbPassword, dbName, dbPort, sslMode), nil
}

func InitDB(log *logrus.Logger) (*gorm.DB, error) {
	dsn, err := databaseDSN()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database connected and migrated")
	return db, nil
}

// Migrate creates or updates every table and seeds missing feature flags.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return SeedFeatureFlags(db)
}

// SeedFeatureFlags inserts the known flags, disabled, leaving existing rows untouched.
func SeedFeatureFlags(db *gorm.DB) error {
	flags := make([]models.FeatureFlag, len(models.DefaultFeatureFlags))
	copy(flags, models.DefaultFeatureFlags)

	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&flags).Error
	if err != nil {
		return fmt.Errorf("failed to seed feature flags: %w", err)
	}
	return nil
}
