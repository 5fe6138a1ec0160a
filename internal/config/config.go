package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppPort         string
	AppEnv          string
	DBDriver        string
	DBDSN           string
	JWTSecret       string
	JWTExpiresMin   int
	CookieSecure    bool
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
	CORSOrigins     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RoleCacheTTL  time.Duration

	// ChangeFeed selects how change events fan out: local, redis or nats.
	ChangeFeed string
	NATSURL    string

	OTelCollectorURL   string
	RateLimitPerMinute int
}

func Load() Config {
	expires, _ := strconv.Atoi(get("JWT_EXPIRES_MIN", "10080"))
	redisDB, _ := strconv.Atoi(get("REDIS_DB", "0"))
	rate, _ := strconv.Atoi(get("RATE_LIMIT_PER_MINUTE", "60"))
	ttl, err := time.ParseDuration(get("ROLE_CACHE_TTL", "10m"))
	if err != nil {
		ttl = 10 * time.Minute
	}

	driver := strings.ToLower(get("DB_DRIVER", "postgres"))
	dsn := get("DB_DSN", "")
	if dsn == "" {
		if driver != "sqlite" {
			panic("missing env: DB_DSN")
		}
		dsn = "gigboard.db"
	}

	return Config{
		AppPort:            get("APP_PORT", "8080"),
		AppEnv:             get("APP_ENV", "development"),
		DBDriver:           driver,
		DBDSN:              dsn,
		JWTSecret:          must("JWT_SECRET"),
		JWTExpiresMin:      expires,
		CookieSecure:       get("COOKIE_SECURE", "false") == "true",
		GoogleClientID:     get("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:       get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect:     get("GOOGLE_REDIRECT_URL", ""),
		FrontendBaseURL:    get("FRONTEND_BASE_URL", "http://localhost:3000"),
		CORSOrigins:        get("CORS_ORIGINS", "http://127.0.0.1:3000, http://localhost:3000"),
		RedisAddr:          get("REDIS_ADDR", ""),
		RedisPassword:      get("REDIS_PASSWORD", ""),
		RedisDB:            redisDB,
		RoleCacheTTL:       ttl,
		ChangeFeed:         strings.ToLower(get("CHANGE_FEED", "local")),
		NATSURL:            get("NATS_URL", "nats://127.0.0.1:4222"),
		OTelCollectorURL:   get("OTEL_COLLECTOR_URL", ""),
		RateLimitPerMinute: rate,
	}
}

func (c Config) Production() bool { return c.AppEnv == "production" }

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
