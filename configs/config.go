package configs

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port string
	Host string
	Mode string
}

// UpstreamConfig describes the remote analytics/restaurant API.
type UpstreamConfig struct {
	BaseURL            string
	Timeout            time.Duration
	RestaurantsPerPage int
	CacheTTL           time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
	Enabled  bool
}

type KafkaConfig struct {
	Brokers    []string
	UsageTopic string
	Enabled    bool
}

type JWTConfig struct {
	SecretKey   string
	ExpiryHours int
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "localhost"),
			Mode: getEnv("GIN_MODE", "debug"),
		},
		Upstream: UpstreamConfig{
			BaseURL:            getEnv("API_BASE_URL", "http://localhost:8000/api"),
			Timeout:            time.Duration(getEnvInt("API_TIMEOUT_MS", 10000)) * time.Millisecond,
			RestaurantsPerPage: getEnvInt("RESTAURANTS_PER_PAGE", 100),
			CacheTTL:           time.Duration(getEnvInt("UPSTREAM_CACHE_TTL_SECONDS", 60)) * time.Second,
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnvBool("REDIS_ENABLED", false),
		},
		Kafka: KafkaConfig{
			Brokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			UsageTopic: getEnv("KAFKA_USAGE_TOPIC", "dashboard-usage"),
			Enabled:    getEnvBool("KAFKA_ENABLED", false),
		},
		JWT: JWTConfig{
			SecretKey:   getEnv("DASHBOARD_JWT_SECRET", ""),
			ExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),
		},
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
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
