package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	Env         string
	SwaggerHost string

	DBDriver    string
	DatabaseDSN string
	ResetDB     bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	Images ImageStoreConfig
}

// ImageStoreConfig selects and configures the backend behind POST /upload-image.
type ImageStoreConfig struct {
	// Driver is either "imgbb" or "minio".
	Driver string

	ImgBBAPIKey   string
	ImgBBEndpoint string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	// MinioPublicURL is the base returned to clients; defaults to the endpoint.
	MinioPublicURL string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	dsn := getEnv("DATABASE_DSN", os.Getenv("MYSQL_DSN"))
	if dsn == "" {
		dsn = "user:password@tcp(localhost:3306)/marketplace?charset=utf8mb4&parseTime=True&loc=Local"
	}

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Env:         getEnv("GO_ENV", "development"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseDSN: dsn,
		ResetDB:     getEnvBool("RESET_DB", false),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		Images: ImageStoreConfig{
			Driver:         strings.ToLower(getEnv("IMAGE_STORE", "imgbb")),
			ImgBBAPIKey:    os.Getenv("IMGBB_API_KEY"),
			ImgBBEndpoint:  getEnv("IMGBB_ENDPOINT", "https://api.imgbb.com/1/upload"),
			MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			MinioBucket:    getEnv("MINIO_BUCKET", "listing-images"),
			MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
			MinioPublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		},
	}
}

// IsProduction reports whether GO_ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
