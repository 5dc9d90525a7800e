package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppEnv  string

	MongoURI string
	MongoDB  string

	JWTSecret string

	// Domain appended to a bare username to form the session handle,
	// e.g. "30303194" -> "30303194@sipandu.sch.id".
	HandleDomain string

	// Budget for a single identity/store lookup during session resolution.
	LookupTimeout time.Duration

	// Pause between items of a bulk credential reset.
	BulkResetDelay time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() *Config {
	// .env is a dev convenience; real deployments set the environment.
	_ = godotenv.Load()

	return &Config{
		AppPort: get("APP_PORT", "8080"),
		AppEnv:  get("APP_ENV", "dev"),

		MongoURI: get("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  get("MONGO_DB", "sipandusd"),

		JWTSecret: get("JWT_SECRET", "dev-secret"),

		HandleDomain: get("HANDLE_DOMAIN", "sipandu.sch.id"),

		LookupTimeout:  getDuration("LOOKUP_TIMEOUT", 5*time.Second),
		BulkResetDelay: getDuration("BULK_RESET_DELAY", 50*time.Millisecond),

		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
		CacheTTL:      getDuration("CACHE_TTL", 30*time.Second),
	}
}
