package shared

import (
	"errors"
	"io/fs"
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

	StoreDriver string
	MongoURI    string
	MongoDB     string
	MySQLDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	JWTSecret   string
	FrontendURL string
	StaticDir   string

	StripeKey         string
	StripeBase        string
	StripeRPS         int
	StripeMaxAttempts int

	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string
	CloudinaryBase   string

	AMQPURL      string
	AMQPExchange string

	OTLPEndpoint string

	SeedFile       string
	SeedWorkers    int
	SeedOwnerEmail string
}

// Prod reports whether cookies must be Secure and logs JSON.
func (c Config) Prod() bool { return c.AppEnv == "prod" || c.AppEnv == "production" }

// Origins splits FRONTEND_URL on commas.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "dev"),
		HTTPAddr:    env("HTTP_ADDR", ":7000"),
		MetricsAddr: env("METRICS_ADDR", ""),

		StoreDriver: env("STORE_DRIVER", "mongo"),
		MongoURI:    env("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:     env("MONGODB_DATABASE", "hotel_booking"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotel_booking?parseTime=true&charset=utf8mb4&loc=UTC"),

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		JWTSecret:   env("JWT_SECRET_KEY", ""),
		FrontendURL: env("FRONTEND_URL", "http://localhost:5173"),
		StaticDir:   env("STATIC_DIR", ""),

		StripeKey:         env("STRIPE_API_KEY", ""),
		StripeBase:        env("STRIPE_BASE_URL", "https://api.stripe.com"),
		StripeRPS:         atoi("STRIPE_RPS", 25),
		StripeMaxAttempts: atoi("STRIPE_MAX_ATTEMPTS", 1),

		CloudinaryCloud:  env("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryKey:    env("CLOUDINARY_API_KEY", ""),
		CloudinarySecret: env("CLOUDINARY_API_SECRET", ""),
		CloudinaryBase:   env("CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),

		AMQPURL:      env("AMQP_URL", ""),
		AMQPExchange: env("AMQP_EXCHANGE", "hotel_booking.events"),

		OTLPEndpoint: env("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SeedFile:       env("SEED_FILE", "seed/hotels.json"),
		SeedWorkers:    atoi("SEED_WORKERS", 4),
		SeedOwnerEmail: env("SEED_OWNER_EMAIL", "seed@hotel-booking.local"),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET_KEY is empty")
	}
	if c.StripeKey == "" {
		log.Warn().Msg("STRIPE_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
