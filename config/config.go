package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Feed     FeedConfig
	Local    LocalConfig
}

type ServerConfig struct {
	AppEnv   string
	HTTPPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

// FeedConfig controls the change-feed fallback behavior: how long to wait
// for the native subscription ack and how often to poll once degraded.
type FeedConfig struct {
	AckTimeout  time.Duration
	OrdersPoll  time.Duration
	MenuPoll    time.Duration
	SettleDelay time.Duration
}

// LocalConfig names the on-device durable paths: the fallback order ledger
// and the settings mirror directory.
type LocalConfig struct {
	LedgerPath string
	MirrorDir  string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			HTTPPort: getEnv("HTTP_PORT", ":8080"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "restopos"),
			Password:        getEnv("POSTGRES_PASSWORD", "restopos"),
			DBName:          getEnv("POSTGRES_DB", "restopos"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-this-in-prod"),
			TTL:       getEnvDuration("JWT_TTL_HOURS", 24) * time.Hour,
		},
		Feed: FeedConfig{
			AckTimeout:  getEnvDuration("FEED_ACK_TIMEOUT_SECONDS", 10) * time.Second,
			OrdersPoll:  getEnvDuration("FEED_ORDERS_POLL_SECONDS", 15) * time.Second,
			MenuPoll:    getEnvDuration("FEED_MENU_POLL_SECONDS", 30) * time.Second,
			SettleDelay: getEnvDuration("FEED_SETTLE_DELAY_MS", 500) * time.Millisecond,
		},
		Local: LocalConfig{
			LedgerPath: getEnv("LEDGER_PATH", "data/fallback_orders.json"),
			MirrorDir:  getEnv("SETTINGS_MIRROR_DIR", "data/settings"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback))
}
