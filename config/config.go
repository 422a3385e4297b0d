// Package config reads runtime settings from the environment. A .env file,
// when present, is loaded first.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultAPIURL is the API base used when SWEETSHOP_API_URL is not set
const DefaultAPIURL = "http://localhost:3001/api"

// Storage backends
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
)

type Config struct {
	APIURL      string
	Storage     string
	StoragePath string
	RedisURL    string
	MongoURI    string
	MongoDB     string

	LogLevel  string
	LogPretty bool
	Trace     bool

	PostmarkToken string
	SendgridKey   string
	EmailSender   string

	// development server
	Port       string
	JWTSecret  string
	AdminEmail string
}

// Load reads .env (if any) and the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found. Proceeding with environment variables.")
	}

	cfg := &Config{
		APIURL:        getEnv("SWEETSHOP_API_URL", DefaultAPIURL),
		Storage:       getEnv("SWEETSHOP_STORAGE", StorageFile),
		StoragePath:   getEnv("SWEETSHOP_STORAGE_PATH", defaultStoragePath()),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "sweetshop"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPretty:     getBool("LOG_PRETTY", true),
		Trace:         getEnv("SWEETSHOP_TRACE", "") == "stdout",
		PostmarkToken: os.Getenv("POSTMARK_API_TOKEN"),
		SendgridKey:   os.Getenv("SENDGRID_API_KEY"),
		EmailSender:   getEnv("EMAIL_SENDER", "shop@sweetshop.local"),
		Port:          getEnv("PORT", "3001"),
		JWTSecret:     getEnv("JWT_SECRET", "your_secret_key"),
		AdminEmail:    os.Getenv("SWEETD_ADMIN_EMAIL"),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		log.Error().Str("PORT", cfg.Port).Msg("Invalid PORT environment variable. Falling back to default.")
		cfg.Port = "3001"
	}
	switch cfg.Storage {
	case StorageFile, StorageMemory, StorageRedis, StorageMongo:
	default:
		log.Warn().Str("SWEETSHOP_STORAGE", cfg.Storage).Msg("Unknown storage backend. Falling back to file.")
		cfg.Storage = StorageFile
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "sweetshop", "session.json")
}
