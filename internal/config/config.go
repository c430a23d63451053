package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	envServerAddress    = "SERVER_ADDRESS"
	envBaseURL          = "BASE_URL"
	envDatabaseDSN      = "DATABASE_DSN"
	envJWTSecretKey     = "JWT_SECRET_KEY"
	envJWTAccessExpire  = "JWT_ACCESS_EXPIRE"
	envJWTRefreshExpire = "JWT_REFRESH_EXPIRE"
	envRateLimitRPM     = "RATE_LIMIT_RPM"
	envAuthRateLimitRPM = "AUTH_RATE_LIMIT_RPM"
	envCORSOrigins      = "CORS_ORIGINS"
	envLogLevel         = "LOG_LEVEL"
)

const (
	defaultServerAddress    = "localhost:8000"
	defaultBaseURL          = "http://localhost:8000"
	defaultJWTAccessExpire  = 15 * time.Minute
	defaultJWTRefreshExpire = 24 * time.Hour * 7
	defaultRateLimitRPM     = 100
	defaultAuthRateLimitRPM = 10
	defaultCORSOrigins      = "*"
	defaultServerLogLevel   = "info"
)

// LookupFunc - источник переменных окружения, os.LookupEnv в проде.
type LookupFunc func(key string) (string, bool)

type ServerConfig struct {
	ServerAddress    string
	BaseURL          string
	DatabaseDSN      string // пустой DSN -> inmemory хранилище
	JWTSecretKey     string // Минимум 32 байта для HS256 (base64)
	JWTAccessExpire  time.Duration
	JWTRefreshExpire time.Duration
	RateLimitRPM     int
	AuthRateLimitRPM int
	CORSOrigins      []string
	LogLevel         string
}

// LoadServerConfig читает .env (если есть), окружение и флаги процесса.
func LoadServerConfig(log *zerolog.Logger) (*ServerConfig, error) {
	return NewServerConfig(os.Args[1:], EnvWithDotenv(".env"), log)
}

// EnvWithDotenv - окружение процесса поверх значений из dotenv файла.
// Отсутствующий файл не ошибка.
func EnvWithDotenv(path string) LookupFunc {
	fileEnv, err := godotenv.Read(path)
	if err != nil {
		fileEnv = map[string]string{}
	}

	return func(key string) (string, bool) {
		if val, ok := os.LookupEnv(key); ok {
			return val, true
		}
		val, ok := fileEnv[key]
		return val, ok
	}
}

func NewServerConfig(args []string, lookup LookupFunc, log *zerolog.Logger) (*ServerConfig, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	// Initialize with defaults
	cfg := &ServerConfig{
		ServerAddress:    defaultServerAddress,
		BaseURL:          defaultBaseURL,
		JWTAccessExpire:  defaultJWTAccessExpire,
		JWTRefreshExpire: defaultJWTRefreshExpire,
		RateLimitRPM:     defaultRateLimitRPM,
		AuthRateLimitRPM: defaultAuthRateLimitRPM,
		LogLevel:         defaultServerLogLevel,
	}
	corsOrigins := defaultCORSOrigins

	// Parse flags
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerAddress, "server-address", cfg.ServerAddress, "Server address")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Base URL used in short links")
	fs.StringVar(&cfg.DatabaseDSN, "database-dsn", cfg.DatabaseDSN, "Database DSN, empty for in-memory storage")
	fs.DurationVar(&cfg.JWTAccessExpire, "jwt-access-expire", cfg.JWTAccessExpire, "JWT access token expiration")
	fs.DurationVar(&cfg.JWTRefreshExpire, "jwt-refresh-expire", cfg.JWTRefreshExpire, "JWT refresh token expiration")
	fs.IntVar(&cfg.RateLimitRPM, "rate-limit-rpm", cfg.RateLimitRPM, "Requests per minute per client")
	fs.IntVar(&cfg.AuthRateLimitRPM, "auth-rate-limit-rpm", cfg.AuthRateLimitRPM, "Auth requests per minute per client")
	fs.StringVar(&corsOrigins, "cors-origins", corsOrigins, "Comma separated CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	// Apply environment variables
	applyEnv(lookup, envServerAddress, &cfg.ServerAddress)
	applyEnv(lookup, envBaseURL, &cfg.BaseURL)
	applyEnv(lookup, envDatabaseDSN, &cfg.DatabaseDSN)
	applyEnv(lookup, envJWTSecretKey, &cfg.JWTSecretKey)
	applyEnvDuration(lookup, envJWTAccessExpire, &cfg.JWTAccessExpire)
	applyEnvDuration(lookup, envJWTRefreshExpire, &cfg.JWTRefreshExpire)
	applyEnvInt(lookup, envRateLimitRPM, &cfg.RateLimitRPM)
	applyEnvInt(lookup, envAuthRateLimitRPM, &cfg.AuthRateLimitRPM)
	applyEnv(lookup, envCORSOrigins, &corsOrigins)
	applyEnv(lookup, envLogLevel, &cfg.LogLevel)

	// Final setup
	cfg.CORSOrigins = splitCSV(corsOrigins)
	if err := cfg.validateJWTSecret(log); err != nil {
		return nil, err
	}
	cfg.normalizeServerAddress()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return cfg, nil
}

func applyEnv(lookup LookupFunc, key string, target *string) {
	if val, ok := lookup(key); ok {
		*target = val
	}
}

func applyEnvDuration(lookup LookupFunc, key string, target *time.Duration) {
	if val, ok := lookup(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			*target = d
		}
	}
}

func applyEnvInt(lookup LookupFunc, key string, target *int) {
	if val, ok := lookup(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			*target = n
		}
	}
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *ServerConfig) validateJWTSecret(log *zerolog.Logger) error {
	if c.JWTSecretKey == "" {
		// Generate random key for development
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("failed to generate JWT secret key: %w", err)
		}
		c.JWTSecretKey = base64.StdEncoding.EncodeToString(key)
		if log != nil {
			log.Warn().Msg("Using auto-generated JWT secret key. For production, set JWT_SECRET_KEY environment variable.")
		}
	}

	// Validate key length
	key, err := base64.StdEncoding.DecodeString(c.JWTSecretKey)
	if err != nil || len(key) < 32 {
		return errors.New("JWT secret key must be at least 32 bytes long (base64 encoded)")
	}
	return nil
}

func (c *ServerConfig) normalizeServerAddress() {
	if strings.HasPrefix(c.ServerAddress, ":") {
		c.ServerAddress = "localhost" + c.ServerAddress
	}
}
