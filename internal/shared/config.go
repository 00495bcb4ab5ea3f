package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	StoreDriver string // mysql|memory
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	SecretKey     string
	AdminPassword string
	SessionTTL    time.Duration

	AppName       string
	BrandPrimary  string
	BrandAccent   string
	Theme         string
	PublicBaseURL string
	TrustProxy    bool // honor X-Forwarded-* from a fronting proxy

	SeedDemo          bool
	MessageRatePerMin int

	WebhookURL string
	WebhookRPS int
	AMQPURL    string
}

func Load() Config {
	// .env is optional; real env vars win.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:            env("APP_ENV", "prod"),
		HTTPAddr:          env("HTTP_ADDR", ":8080"),
		MetricsAddr:       env("METRICS_ADDR", ""),
		StoreDriver:       strings.ToLower(env("STORE_DRIVER", "mysql")),
		MySQLDSN:          env("MYSQL_DSN", "root:root@tcp(localhost:3306)/guest_manual?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:         env("REDIS_ADDR", ""),
		RedisPass:         env("REDIS_PASSWORD", ""),
		RedisDB:           atoi("REDIS_DB", 0),
		CacheTTL:          time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SecretKey:         env("SECRET_KEY", "devkey"),
		AdminPassword:     env("ADMIN_PASSWORD", "admin"),
		SessionTTL:        time.Duration(atoi("SESSION_TTL_HOURS", 12)) * time.Hour,
		AppName:           env("APP_NAME", "Guest Manual"),
		BrandPrimary:      env("BRAND_PRIMARY", "#0E7C86"),
		BrandAccent:       env("BRAND_ACCENT", "#E7F5F6"),
		Theme:             env("THEME", "classic"),
		PublicBaseURL:     strings.TrimRight(env("PUBLIC_BASE_URL", ""), "/"),
		TrustProxy:        envBool("TRUST_PROXY", false),
		SeedDemo:          envBool("SEED_DEMO", true),
		MessageRatePerMin: atoi("MESSAGE_RATE_PER_MIN", 6),
		WebhookURL:        env("NOTIFY_WEBHOOK_URL", ""),
		WebhookRPS:        atoi("NOTIFY_WEBHOOK_RPS", 5),
		AMQPURL:           env("AMQP_URL", ""),
	}
	if c.SecretKey == "devkey" {
		log.Warn().Msg("SECRET_KEY is the development default")
	}
	if c.AdminPassword == "admin" {
		log.Warn().Msg("ADMIN_PASSWORD is the development default")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
