// Package config handles configuration loading for the blog service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database drivers understood by the database package.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// OTP store backends.
const (
	OTPStoreMemory = "memory"
	OTPStoreRedis  = "redis"
)

// MinJWTSecretLength is the minimum accepted signing key size in bytes.
const MinJWTSecretLength = 32

// Config holds all configuration for the blog service.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string
	JWTExpiry time.Duration

	HashIDSalt      string
	HashIDMinLength int

	OTPTTL           time.Duration
	OTPStore         string
	OTPSweepInterval time.Duration

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisNoTLS    bool

	SendGridAPIKey string
	SenderEmail    string

	AllowedOrigins     []string
	RateLimitPerMinute int
	SwaggerHost        string
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from environment variables. Every missing required
// variable is reported in the returned error.
func Load() (*Config, error) {
	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBDriver:  strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBName:    required("DB_NAME"),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		JWTSecret: required("JWT_SECRET"),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),

		HashIDSalt:      required("HASHID_SALT"),
		HashIDMinLength: parseInt(getEnv("HASHID_MIN_LENGTH", "10"), 10),

		OTPTTL:           parseDuration(getEnv("OTP_TTL", "5m"), 5*time.Minute),
		OTPStore:         strings.ToLower(getEnv("OTP_STORE", OTPStoreMemory)),
		OTPSweepInterval: parseDuration(getEnv("OTP_SWEEP_INTERVAL", "1m"), time.Minute),

		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisNoTLS:    strings.EqualFold(getEnv("REDIS_TLS", ""), "false"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		RateLimitPerMinute: parseInt(getEnv("RATE_LIMIT_PER_MINUTE", "100"), 100),
		SwaggerHost:        getEnv("SWAGGER_HOST", ""),
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverMySQL:
		cfg.DBHost = required("DB_HOST")
		cfg.DBPort = required("DB_PORT")
		cfg.DBUser = required("DB_USER")
		cfg.DBPassword = getEnv("DB_PASSWORD", "")
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.OTPStore {
	case OTPStoreRedis:
		cfg.RedisHost = required("REDIS_HOST")
		cfg.RedisPort = required("REDIS_PORT")
	case OTPStoreMemory:
	default:
		return nil, fmt.Errorf("unsupported OTP_STORE %q", cfg.OTPStore)
	}

	if cfg.SendGridAPIKey != "" {
		cfg.SenderEmail = required("SENDER_EMAIL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return nil, fmt.Errorf("ALLOWED_ORIGINS entry %q must start with http:// or https://", origin)
		}
	}
	if cfg.SendGridAPIKey == "" && cfg.IsProduction() {
		return nil, errors.New("SENDGRID_API_KEY is required in production")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return defaultValue
	}
	return duration
}

func parseInt(value string, defaultValue int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
