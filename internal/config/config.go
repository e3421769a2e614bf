// Package config читает конфигурацию сервисов из переменных окружения.
//
// Перед чтением переменные могут быть подгружены из .env файла
// (github.com/joho/godotenv); отсутствие файла не является ошибкой,
// уже заданные переменные окружения не перезаписываются.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Значения по умолчанию.
const (
	DefaultAPIPort    = "8080"
	DefaultWorkerPort = "8082"
	DefaultCacheTTL   = time.Hour
	DefaultMaxItems   = 10000
	DefaultAPIURL     = "http://localhost:8080"
)

// Config — конфигурация cardflow-api, cardflow-worker и CLI.
type Config struct {
	// APIPort — порт HTTP сервера (API_PORT).
	APIPort string

	// WorkerPort — порт /healthz и /metrics cardflow-worker (WORKER_PORT).
	WorkerPort string

	// APIURL — адрес API для CLI (CARDFLOW_API_URL).
	APIURL string

	// DBURL — PostgreSQL DSN (DB_URL). Пусто — история запусков отключена.
	DBURL string

	// AMQPURL — RabbitMQ URL (AMQP_URL). Пусто — события и worker отключены.
	AMQPURL string

	// RedisURL — Redis URL (REDIS_URL). Пусто — кэш последнего запуска отключён.
	RedisURL string

	// CacheTTL — время жизни записи кэша (CACHE_TTL, Go duration).
	CacheTTL time.Duration

	// MaxGeneratedItems — предел элементов одного генератора (MAX_GENERATED_ITEMS).
	MaxGeneratedItems int
}

// Load загружает .env файлы (если есть) и читает конфигурацию.
// Без аргументов пробует ".env" в текущей директории.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения.
func FromEnv() (Config, error) {
	cfg := Config{
		APIPort:           getEnv("API_PORT", DefaultAPIPort),
		WorkerPort:        getEnv("WORKER_PORT", DefaultWorkerPort),
		APIURL:            getEnv("CARDFLOW_API_URL", DefaultAPIURL),
		DBURL:             os.Getenv("DB_URL"),
		AMQPURL:           os.Getenv("AMQP_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		CacheTTL:          DefaultCacheTTL,
		MaxGeneratedItems: DefaultMaxItems,
	}

	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("CACHE_TTL must be a positive duration, got %q", raw)
		}
		cfg.CacheTTL = ttl
	}

	if raw := os.Getenv("MAX_GENERATED_ITEMS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("MAX_GENERATED_ITEMS must be a positive integer, got %q", raw)
		}
		cfg.MaxGeneratedItems = n
	}

	return cfg, nil
}

// Addr возвращает адрес для http.Server.
func (c Config) Addr() string {
	return ":" + c.APIPort
}

// WorkerAddr возвращает адрес служебного HTTP сервера worker'а.
func (c Config) WorkerAddr() string {
	return ":" + c.WorkerPort
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
