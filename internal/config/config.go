// Package config loads immutable server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/iudanet/bookkeeper/internal/server/token"
)

// Environment variable names
const (
	EnvAddr      = "BOOKKEEPER_ADDR"
	EnvDBPath    = "BOOKKEEPER_DB_PATH"
	EnvFilesPath = "BOOKKEEPER_FILES_PATH"
	EnvJWTSecret = "BOOKKEEPER_JWT_SECRET"
	EnvTokenTTL  = "BOOKKEEPER_TOKEN_TTL"
)

// Defaults
const (
	DefaultAddr      = ":8080"
	DefaultDBPath    = "bookkeeper.db"
	DefaultFilesPath = "bookkeeper_files.db"
)

// Config содержит конфигурацию сервера
// Заполняется один раз при старте процесса и дальше не изменяется
type Config struct {
	Addr      string        // адрес для HTTP listener
	DBPath    string        // путь к файлу SQLite
	FilesPath string        // путь к файлу BoltDB blob store
	JWTSecret []byte        // секрет подписи токенов (обязателен)
	TokenTTL  time.Duration // срок действия токена
}

// Load читает конфигурацию из переменных окружения
// Возвращает ошибку если секрет подписи не задан: процесс
// не должен запускаться без ключа подписи
func Load() (*Config, error) {
	cfg := &Config{
		Addr:      envOrDefault(EnvAddr, DefaultAddr),
		DBPath:    envOrDefault(EnvDBPath, DefaultDBPath),
		FilesPath: envOrDefault(EnvFilesPath, DefaultFilesPath),
		TokenTTL:  token.DefaultTTL,
	}

	secret := os.Getenv(EnvJWTSecret)
	if secret == "" {
		return nil, fmt.Errorf("%s is required and must not be empty", EnvJWTSecret)
	}
	cfg.JWTSecret = []byte(secret)

	if ttl := os.Getenv(EnvTokenTTL); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTokenTTL, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%s must be positive", EnvTokenTTL)
		}
		cfg.TokenTTL = d
	}

	return cfg, nil
}

// envOrDefault возвращает значение переменной окружения или дефолт
func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
