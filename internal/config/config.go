package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config holds server-wide settings read from the environment
type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	RedisAddr  string
	JWTSecret  string
	InstanceID string

	// Mock executor latency bounds
	ExecDelayMin time.Duration
	ExecDelayMax time.Duration
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "interviewio"),
		RedisAddr:    redisAddr(getEnv("REDIS_URI", "localhost:6379")),
		JWTSecret:    getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		InstanceID:   getEnv("INSTANCE_ID", uuid.New().String()),
		ExecDelayMin: time.Duration(getEnvInt("EXEC_DELAY_MIN_MS", 1000)) * time.Millisecond,
		ExecDelayMax: time.Duration(getEnvInt("EXEC_DELAY_MAX_MS", 3000)) * time.Millisecond,
	}
}

// redisAddr strips the redis:// scheme if present
func redisAddr(uri string) string {
	return strings.TrimPrefix(uri, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			return n
		}
	}
	return defaultVal
}
