package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// Redis
	RedisHost     string
	RedisPort     int
	RedisPassword string

	// JWT / auth
	JWTSecret        string
	JWTSecretFromEnv bool
	JWTExpireHours   int
	AuthPassword     string

	// API
	APIPort int

	// Uploads
	UploadDir string

	// Backups
	BackupDir           string
	BackupIntervalHours int
	BackupFTPHost       string
	BackupFTPPort       int
	BackupFTPUser       string
	BackupFTPPassword   string
	BackupFTPDir        string
}

// generateSecureSecret generates a cryptographically secure random secret
func generateSecureSecret(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a hostname-based value if crypto/rand fails
		return hex.EncodeToString([]byte(os.Getenv("HOSTNAME") + string(rune(length))))
	}
	return hex.EncodeToString(bytes)
}

func Load() *Config {
	// JWT Secret - generate random if not provided
	jwtSecret := os.Getenv("JWT_SECRET")
	jwtSecretFromEnv := jwtSecret != ""
	if jwtSecret == "" {
		jwtSecret = generateSecureSecret(32) // 64 character hex string
		log.Println("WARNING: JWT_SECRET not set - a persisted secret will be used if the database is available")
	}

	// Database password - warn if using default
	dbPassword := getEnv("DB_PASSWORD", "")
	if dbPassword == "" {
		log.Println("WARNING: DB_PASSWORD not set - this is insecure for production!")
		dbPassword = "changeme"
	}

	// Redis password - warn if not secured
	redisPassword := getEnv("REDIS_PASSWORD", "")
	if redisPassword == "" {
		log.Println("WARNING: REDIS_PASSWORD not set - Redis is not secured!")
	}

	// Auth password - when empty the API runs open (single-user local deployment)
	authPassword := getEnv("AUTH_PASSWORD", "")
	if authPassword == "" {
		log.Println("WARNING: AUTH_PASSWORD not set - API authentication is disabled!")
	}

	return &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "reviewtracker"),
		DBPassword: dbPassword,
		DBName:     getEnv("DB_NAME", "reviewtracker"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnvInt("REDIS_PORT", 6379),
		RedisPassword: redisPassword,

		// JWT / auth
		JWTSecret:        jwtSecret,
		JWTSecretFromEnv: jwtSecretFromEnv,
		JWTExpireHours:   getEnvInt("JWT_EXPIRE_HOURS", 168), // 7 days default
		AuthPassword:     authPassword,

		// API
		APIPort: getEnvInt("API_PORT", 8080),

		// Uploads
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		// Backups
		BackupDir:           getEnv("BACKUP_DIR", "backups"),
		BackupIntervalHours: getEnvInt("BACKUP_INTERVAL_HOURS", 0),
		BackupFTPHost:       getEnv("BACKUP_FTP_HOST", ""),
		BackupFTPPort:       getEnvInt("BACKUP_FTP_PORT", 21),
		BackupFTPUser:       getEnv("BACKUP_FTP_USER", ""),
		BackupFTPPassword:   getEnv("BACKUP_FTP_PASSWORD", ""),
		BackupFTPDir:        getEnv("BACKUP_FTP_DIR", "/"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
