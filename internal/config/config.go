package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// client
	APIBase     string
	Token       string
	HTTPTimeout time.Duration
	SearchDelay time.Duration
	RefreshSpec string

	// logging
	LogMode  string
	LogLevel string
	LogFile  string

	// reference server
	MongoURI          string
	MongoDB           string
	Port              string
	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string
	UploadDir         string
	PublicBaseURL     string
	CORSOrigins       []string
	LoginAttempts     int

	// EnvFileLoaded tells whether a .env file was read; EnvFileErr is set when
	// one existed but could not be parsed.
	EnvFileLoaded bool
	EnvFileErr    error
}

func LoadConfig() *Config {
	cfg := &Config{}

	// .env is only read for local development; deployed builds use the real environment
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			cfg.EnvFileErr = err
		} else {
			cfg.EnvFileLoaded = true
		}
	}

	cfg.APIBase = getEnv("CATALOG_API_BASE", "http://localhost:8080")
	cfg.Token = getEnv("CATALOG_TOKEN", "")
	cfg.HTTPTimeout = getDuration("CATALOG_HTTP_TIMEOUT", 10*time.Second)
	cfg.SearchDelay = time.Duration(getInt("CATALOG_SEARCH_DELAY_MS", 300)) * time.Millisecond
	cfg.RefreshSpec = getEnv("CATALOG_REFRESH_SPEC", "@every 1m")

	cfg.LogMode = getEnv("LOG_MODE", "development")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFile = getEnv("LOG_FILE", "")

	cfg.MongoURI = getEnv("MONGO_URI", "")
	cfg.MongoDB = getEnv("MONGO_DB", "inventoryCatalog")
	cfg.Port = getEnv("PORT", "8080")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "admin@example.com")
	cfg.AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", "")
	cfg.UploadDir = getEnv("UPLOAD_DIR", "uploads")
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", "")
	cfg.CORSOrigins = getList("CORS_ORIGINS")
	cfg.LoginAttempts = getInt("LOGIN_ATTEMPTS_PER_MINUTE", 10)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

// getList splits a comma separated variable, dropping blanks.
func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getDuration accepts Go duration syntax ("15s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
