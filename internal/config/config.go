package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Refresh  RefreshConfig
	Cache    CacheConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type UpstreamConfig struct {
	MidMarketBaseURL   string
	FrankfurterBaseURL string
	ECOSBaseURL        string
	EximBaseURL        string
	BOKAPIKey          string
	EximAPIKey         string
	Timeout            time.Duration
	RetryNum           uint64
	RetryDelay         time.Duration
}

type RefreshConfig struct {
	// Schedule is a cron spec; refreshes are wrapped so a tick that fires
	// while the previous refresh is still running is skipped.
	Schedule string
}

type CacheConfig struct {
	TTL time.Duration
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Upstream: UpstreamConfig{
			MidMarketBaseURL:   getEnvString("MIDMARKET_BASE_URL", "https://api.exchangerate-api.com/v4"),
			FrankfurterBaseURL: getEnvString("FRANKFURTER_BASE_URL", "https://api.frankfurter.app"),
			ECOSBaseURL:        getEnvString("ECOS_BASE_URL", "https://ecos.bok.or.kr/api"),
			EximBaseURL:        getEnvString("EXIM_BASE_URL", "https://www.koreaexim.go.kr/site/program/financial"),
			BOKAPIKey:          getEnvString("BOK_API_KEY", ""),
			EximAPIKey:         getEnvString("EXIM_API_KEY", ""),
			Timeout:            getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
			RetryNum:           uint64(getEnvInt("UPSTREAM_RETRY_NUM", 1)),
			RetryDelay:         getEnvDuration("UPSTREAM_RETRY_DELAY", 2*time.Second),
		},
		Refresh: RefreshConfig{
			Schedule: getEnvString("REFRESH_SCHEDULE", "@hourly"),
		},
		Cache: CacheConfig{
			TTL: getEnvDuration("CACHE_TTL", 30*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %t\n", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fmt.Printf("Warning: Invalid duration for %s, using default: %s\n", key, defaultValue)
		return defaultValue
	}

	return value
}
