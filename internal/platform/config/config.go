package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full process configuration.
type Config struct {
	Server     Server
	Auth       Auth
	Redis      RedisConfig
	Kafka      KafkaConfig
	Simulation Simulation
	RateLimit  RateLimit
	Sinks      Sinks
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
	ShutdownGrace  time.Duration
}

// Auth configures session token validation.
type Auth struct {
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration
	// Disabled skips bearer validation on /api routes; local development only.
	Disabled bool
}

// RedisConfig enables the Redis notification sink when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the Kafka notification sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Simulation controls the stand-in latency of store operations and the
// background refresh of dashboard counters.
type Simulation struct {
	LatencyEnabled       bool
	NotificationLifetime time.Duration
	RefreshSchedule      string
	SystemPrefersDark    bool
}

// Sinks tunes the circuit breakers in front of external notification sinks.
type Sinks struct {
	FailureThreshold int
	Cooldown         time.Duration
}

// RateLimit bounds requests per client on /api routes.
type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Server: Server{
			Addr:           getEnv("BACKOFFICE_ADDR", ":8080"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),
			ShutdownGrace:  getDuration("SHUTDOWN_GRACE", 10*time.Second),
		},
		Auth: Auth{
			JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     getEnv("JWT_ISSUER", "backoffice"),
			TokenTTL:      getDuration("JWT_TOKEN_TTL", 8*time.Hour),
			Disabled:      getBool("AUTH_DISABLED", false),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "backoffice.notifications"),
		},
		Simulation: Simulation{
			LatencyEnabled:       getBool("SIMULATED_LATENCY", true),
			NotificationLifetime: getDuration("NOTIFICATION_LIFETIME", 5*time.Second),
			RefreshSchedule:      os.Getenv("DASHBOARD_REFRESH_SCHEDULE"),
			SystemPrefersDark:    getBool("SYSTEM_PREFERS_DARK", false),
		},
		RateLimit: RateLimit{
			RequestsPerSecond: getFloat("RATE_LIMIT_RPS", 20),
			Burst:             getInt("RATE_LIMIT_BURST", 40),
		},
		Sinks: Sinks{
			FailureThreshold: getInt("SINK_FAILURE_THRESHOLD", 5),
			Cooldown:         getDuration("SINK_COOLDOWN", 30*time.Second),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "on", "yes":
		return true
	case "false", "0", "off", "no":
		return false
	default:
		return defaultValue
	}
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
