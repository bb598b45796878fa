package models

import (
	"log"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all models and seeds
// default data.
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&Platform{},
		&Mediator{},
		&Review{},
		&ReviewHistory{},
		&ViewPreset{},
		&NotificationRule{},
	)
	if err != nil {
		return err
	}

	if err := seedNotificationRules(db); err != nil {
		return err
	}

	log.Println("Database migrations completed")
	return nil
}

// seedNotificationRules inserts the built-in reminder rules once.
func seedNotificationRules(db *gorm.DB) error {
	var count int64
	if err := db.Model(&NotificationRule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	rules := DefaultNotificationRules()
	if err := db.Create(&rules).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d default notification rules", len(rules))
	return nil
}
