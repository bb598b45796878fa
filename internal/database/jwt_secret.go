package database

import (
	"crypto/rand"
	"encoding/hex"
	"log"

	"github.com/reviewtracker/backend/internal/config"
)

const jwtSecretKey = "jwt_secret"

// Setting is a persisted key/value preference.
type Setting struct {
	ID    uint   `gorm:"primaryKey"`
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

func (Setting) TableName() string {
	return "settings"
}

// EnsureJWTSecret keeps the signing secret stable across restarts. An
// explicit JWT_SECRET env wins; otherwise the secret is generated once
// and persisted.
func EnsureJWTSecret(cfg *config.Config) string {
	if cfg.JWTSecretFromEnv {
		return cfg.JWTSecret
	}
	if DB == nil {
		log.Println("WARNING: Database not connected, using ephemeral JWT secret")
		return cfg.JWTSecret
	}

	if err := DB.AutoMigrate(&Setting{}); err != nil {
		log.Printf("WARNING: Failed to migrate settings table: %v", err)
		return cfg.JWTSecret
	}

	var setting Setting
	if err := DB.Where("key = ?", jwtSecretKey).First(&setting).Error; err == nil && setting.Value != "" {
		return setting.Value
	}

	secret := generateSecret()
	if err := DB.Create(&Setting{Key: jwtSecretKey, Value: secret}).Error; err != nil {
		log.Printf("WARNING: Failed to persist JWT secret: %v", err)
		return cfg.JWTSecret
	}
	log.Println("Generated and persisted new JWT secret")
	return secret
}

func generateSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("WARNING: Failed to generate random secret: %v", err)
		return "insecure-fallback-secret-change-me"
	}
	return hex.EncodeToString(bytes)
}
