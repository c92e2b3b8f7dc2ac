package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	StorageInMemory = "inmemory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Postgres    PostgresConfig
	SQLite      SQLiteConfig
	HTTP        HTTPConfig
	Auth        AuthConfig
	Log         LogConfig
	StorageType string
}

type PostgresConfig struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     int
	SSLMode  string
}

func (pc PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type SQLiteConfig struct {
	Path string
}

type HTTPConfig struct {
	Port    string
	GinMode string
}

type AuthConfig struct {
	// UserHeader carries the authenticated user id, set by the session
	// layer in front of the service.
	UserHeader string
}

type LogConfig struct {
	Level string
}

// SlogLevel maps the configured level name, falling back to info.
func (lc LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func LoadConfig() Config {
	storageType := strings.ToLower(getEnv("STORAGE_TYPE", StorageInMemory))

	cfg := Config{
		StorageType: storageType,
		HTTP: HTTPConfig{
			Port:    mustGetEnv("HTTP_PORT"),
			GinMode: os.Getenv("GIN_MODE"),
		},
		Auth: AuthConfig{
			UserHeader: getEnv("AUTH_USER_HEADER", "X-User-ID"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	switch storageType {
	case StoragePostgres:
		cfg.Postgres = PostgresConfig{
			User:     mustGetEnv("POSTGRES_USER"),
			Password: mustGetEnv("POSTGRES_PASSWORD"),
			DB:       mustGetEnv("POSTGRES_DB"),
			Host:     mustGetEnv("POSTGRES_HOST"),
			Port:     mustGetInt("POSTGRES_PORT"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		}
	case StorageSQLite:
		cfg.SQLite = SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "./blogposts.db"),
		}
	case StorageInMemory:
	default:
		panic("unknown storage type: " + storageType)
	}

	return cfg
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func mustGetInt(key string) int {
	val := mustGetEnv(key)
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}
