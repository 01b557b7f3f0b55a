package main

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vkinder/config"
	"vkinder/models"
)

var db *gorm.DB

func initDB(cfg *config.Config) {
	var err error
	db, err = gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres database")
	}
	if !cfg.Database.AutoMigrate {
		return
	}
	// Users first so the interaction tables can apply their FK. Migrate
	// models individually so a failure on one doesn't block the others.
	if err := db.AutoMigrate(&models.User{}); err != nil {
		logger.Warn().Err(err).Msg("migration warning (users)")
	}
	if err := db.AutoMigrate(&models.Favorite{}); err != nil {
		logger.Warn().Err(err).Msg("migration warning (favorites)")
	}
	if err := db.AutoMigrate(&models.BlacklistEntry{}); err != nil {
		logger.Warn().Err(err).Msg("migration warning (blacklist)")
	}
	if err := db.AutoMigrate(&models.ViewedProfile{}); err != nil {
		logger.Warn().Err(err).Msg("migration warning (viewed_profiles)")
	}
}
