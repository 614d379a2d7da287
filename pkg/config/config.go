package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default operation timeouts, in seconds
const (
	DefaultDatabaseQueryTimeout = 30
	DefaultRedisReadTimeout     = 3
	DefaultRedisWriteTimeout    = 3
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Timeouts  TimeoutConfig
	JWT       JWTConfig
	NATS      NATSConfig
	Stripe    StripeConfig
	RateLimit RateLimitConfig
	GiftCard  GiftCardConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	Environment  string
	ServiceName  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  string // Comma-separated list of allowed origins
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxConns     int
	MinConns     int
	QueryTimeout int // seconds, zero means DefaultDatabaseQueryTimeout
	Breaker      DatabaseBreakerConfig
}

// DatabaseBreakerConfig controls the optional circuit breaker around
// database connections.
type DatabaseBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	SuccessThreshold int
	TimeoutSeconds   int
	IntervalSeconds  int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// TimeoutConfig holds per-operation Redis timeouts, in seconds.
// Zero values fall back to RedisOperationTimeout, then to the defaults.
type TimeoutConfig struct {
	RedisReadTimeout      int
	RedisWriteTimeout     int
	RedisOperationTimeout int
}

// RedisReadTimeoutDuration resolves the effective read timeout
func (c TimeoutConfig) RedisReadTimeoutDuration() time.Duration {
	if c.RedisReadTimeout > 0 {
		return time.Duration(c.RedisReadTimeout) * time.Second
	}
	if c.RedisOperationTimeout > 0 {
		return time.Duration(c.RedisOperationTimeout) * time.Second
	}
	return DefaultRedisReadTimeoutDuration()
}

// RedisWriteTimeoutDuration resolves the effective write timeout
func (c TimeoutConfig) RedisWriteTimeoutDuration() time.Duration {
	if c.RedisWriteTimeout > 0 {
		return time.Duration(c.RedisWriteTimeout) * time.Second
	}
	if c.RedisOperationTimeout > 0 {
		return time.Duration(c.RedisOperationTimeout) * time.Second
	}
	return DefaultRedisWriteTimeoutDuration()
}

// DefaultRedisReadTimeoutDuration returns DefaultRedisReadTimeout as a Duration
func DefaultRedisReadTimeoutDuration() time.Duration {
	return time.Duration(DefaultRedisReadTimeout) * time.Second
}

// DefaultRedisWriteTimeoutDuration returns DefaultRedisWriteTimeout as a Duration
func DefaultRedisWriteTimeoutDuration() time.Duration {
	return time.Duration(DefaultRedisWriteTimeout) * time.Second
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in hours
}

// NATSConfig holds NATS event bus configuration
type NATSConfig struct {
	URL     string
	Enabled bool
}

// StripeConfig holds Stripe configuration
type StripeConfig struct {
	SecretKey string
	Enabled   bool
}

// RateLimitConfig holds Redis-backed rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	WindowSeconds     int
	DefaultLimit      int
	DefaultBurst      int
	AnonymousLimit    int
	AnonymousBurst    int
	RedisPrefix       string
	EndpointOverrides map[string]EndpointRateLimitConfig
}

// EndpointRateLimitConfig overrides limits for a single endpoint
type EndpointRateLimitConfig struct {
	AuthenticatedLimit int
	AuthenticatedBurst int
	AnonymousLimit     int
	AnonymousBurst     int
	WindowSeconds      int
}

// Window returns the configured window, defaulting to one minute
func (c RateLimitConfig) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.WindowSeconds) * time.Second
}

// Window returns the override window, or zero when not set
func (c EndpointRateLimitConfig) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return 0
	}
	return time.Duration(c.WindowSeconds) * time.Second
}

// GiftCardConfig holds gift card business configuration
type GiftCardConfig struct {
	MinAmount          float64
	MaxAmount          float64
	DefaultExpiryDays  int
	SweepInterval      time.Duration
	MaxCodeGenAttempts int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ServiceName:  serviceName,
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
			CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "giftcards"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxConns:     getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:     getEnvAsInt("DB_MIN_CONNS", 5),
			QueryTimeout: getEnvAsInt("DB_QUERY_TIMEOUT", DefaultDatabaseQueryTimeout),
			Breaker: DatabaseBreakerConfig{
				Enabled:          getEnvAsBool("DB_BREAKER_ENABLED", false),
				FailureThreshold: getEnvAsInt("DB_BREAKER_FAILURES", 5),
				SuccessThreshold: getEnvAsInt("DB_BREAKER_SUCCESSES", 2),
				TimeoutSeconds:   getEnvAsInt("DB_BREAKER_TIMEOUT", 30),
				IntervalSeconds:  getEnvAsInt("DB_BREAKER_INTERVAL", 60),
			},
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Timeouts: TimeoutConfig{
			RedisReadTimeout:      getEnvAsInt("REDIS_READ_TIMEOUT", DefaultRedisReadTimeout),
			RedisWriteTimeout:     getEnvAsInt("REDIS_WRITE_TIMEOUT", DefaultRedisWriteTimeout),
			RedisOperationTimeout: getEnvAsInt("REDIS_OPERATION_TIMEOUT", 0),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Expiration: getEnvAsInt("JWT_EXPIRATION", 24),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnvAsBool("NATS_ENABLED", false),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			Enabled:   getEnvAsBool("STRIPE_ENABLED", false),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvAsBool("RATE_LIMIT_ENABLED", true),
			WindowSeconds:  getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			DefaultLimit:   getEnvAsInt("RATE_LIMIT_DEFAULT", 100),
			DefaultBurst:   getEnvAsInt("RATE_LIMIT_BURST", 10),
			AnonymousLimit: getEnvAsInt("RATE_LIMIT_ANONYMOUS", 30),
			AnonymousBurst: getEnvAsInt("RATE_LIMIT_ANONYMOUS_BURST", 5),
			RedisPrefix:    getEnv("RATE_LIMIT_PREFIX", "rl"),
		},
		GiftCard: GiftCardConfig{
			MinAmount:          getEnvAsFloat("GIFTCARD_MIN_AMOUNT", 5),
			MaxAmount:          getEnvAsFloat("GIFTCARD_MAX_AMOUNT", 500),
			DefaultExpiryDays:  getEnvAsInt("GIFTCARD_EXPIRY_DAYS", 365),
			SweepInterval:      time.Duration(getEnvAsInt("GIFTCARD_SWEEP_MINUTES", 60)) * time.Minute,
			MaxCodeGenAttempts: getEnvAsInt("GIFTCARD_CODE_ATTEMPTS", 10),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
