package utils

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"skillpath/backend/config"
	"skillpath/backend/models"
)

// InitDB opens the Postgres connection and migrates the schema.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserStreak{},
		&models.LoginHistory{},
		&models.Roadmap{},
		&models.Module{},
		&models.RoadmapProgress{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.Badge{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
