package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// MongoConfig holds MongoDB connection settings and collection names.
type MongoConfig struct {
	URI                string
	Database           string
	PollsCollection    string
	ProfilesCollection string
}

// RedisConfig holds Redis connection settings (rate limiter backend).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT signing and validation settings.
type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// RateLimitConfig holds per-IP request rate limits.
type RateLimitConfig struct {
	PerMinute int
	Enabled   bool
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	jwtExpire, _ := strconv.Atoi(getEnv("JWT_EXPIRE_HOURS", "24"))
	ratePerMinute, _ := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "120"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Mongo: MongoConfig{
			URI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:           getEnv("MONGO_DATABASE", "pollpulse"),
			PollsCollection:    getEnv("MONGO_POLLS_COLLECTION", "studentPolls"),
			ProfilesCollection: getEnv("MONGO_PROFILES_COLLECTION", "studentProfiles"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me-in-production"),
			ExpireHours: jwtExpire,
		},
		RateLimit: RateLimitConfig{
			PerMinute: ratePerMinute,
			Enabled:   !strings.EqualFold(getEnv("RATE_LIMIT_ENABLED", "true"), "false"),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
