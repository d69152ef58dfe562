package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with CONEXUS_STORE.
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

type Config struct {
	ListenAddr      string        // ex: "0.0.0.0:3000"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store string // postgres | redis | memory

	// Postgres
	DBProtocol     string        // DSN scheme, ex: "postgresql"
	DBHost         string        // ex: "localhost"
	DBPort         string        // ex: "5432"
	DBUser         string        // required with the postgres store
	DBPassword     string        // required with the postgres store
	DBName         string        // required with the postgres store
	DBMaxConns     int           // pool size
	DBQueryTimeout time.Duration // bound on every store operation, pool wait included
	DBEnsureSchema bool          // create the bookmarks table at startup when missing

	// Startup connectivity probe, shared by postgres and redis
	ConnectTimeout       time.Duration // total budget; 0 => single attempt
	ConnectRetryInterval time.Duration // initial wait between retries (grows exponentially)
	ConnectMaxWait       time.Duration // max wait between retries
	ConnectPingTimeout   time.Duration // timeout for each ping attempt
	ConnectWarnThreshold int           // attempts logged at warn before error

	// Redis
	RedisAddr     string        // ex: "localhost:6379"
	RedisUser     string        // optional
	RedisPassword string        // optional
	RedisDB       int           // Redis DB number
	RedisDT       time.Duration // Redis dial timeout (ex: 5s)
	RedisRT       time.Duration // Redis read timeout (ex: 3s)
	RedisWT       time.Duration // Redis write timeout (ex: 3s)
	RedisPoolSize int           // Redis connection pool size

	SeedFile string // Homepage bookmarks.yaml imported into an empty store (optional)

	// Middleware pipeline
	MaxBodyBytes     int64    // decompressed request body cap
	CompressionLevel int      // response compression level
	TraceHeaders     bool     // include headers in the trace span
	DisabledStages   []string // pipeline stages turned off, ex: "compress,trace"
}

// Load reads the environment, after merging a .env file when present.
// It panics when a required variable is missing.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenAddr:      getenv("CONEXUS_LISTEN_ADDR", "0.0.0.0:3000"),
		ShutdownTimeout: mustDuration("CONEXUS_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("CONEXUS_LOG_LEVEL", "debug"),
		PrettyLog: mustBool("CONEXUS_PRETTY_LOG", true),

		Store: strings.ToLower(getenv("CONEXUS_STORE", StorePostgres)),

		// Postgres settings
		DBProtocol:     getenv("CONEXUS_DB_PROTOCOL", "postgresql"),
		DBHost:         getenv("CONEXUS_DB_HOST", getenv("CONEXUS_DB_HORT", "localhost")),
		DBPort:         getenv("CONEXUS_DB_PORT", "5432"),
		DBMaxConns:     getenvInt("CONEXUS_DB_MAX_CONNS", 10),
		DBQueryTimeout: mustDuration("CONEXUS_DB_QUERY_TIMEOUT", 5*time.Second),
		DBEnsureSchema: mustBool("CONEXUS_DB_ENSURE_SCHEMA", false),

		// Connectivity probe
		ConnectTimeout:       mustDuration("CONEXUS_CONNECT_TIMEOUT", 0),
		ConnectRetryInterval: mustDuration("CONEXUS_CONNECT_RETRY_INTERVAL", 500*time.Millisecond),
		ConnectMaxWait:       mustDuration("CONEXUS_CONNECT_MAX_WAIT", 5*time.Second),
		ConnectPingTimeout:   mustDuration("CONEXUS_CONNECT_PING_TIMEOUT", 5*time.Second),
		ConnectWarnThreshold: getenvInt("CONEXUS_CONNECT_WARN_THRESHOLD", 3),

		// Redis settings
		RedisAddr:     getenv("CONEXUS_REDIS_ADDR", "localhost:6379"),
		RedisUser:     getenv("CONEXUS_REDIS_USERNAME", ""),
		RedisPassword: getenv("CONEXUS_REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("CONEXUS_REDIS_DB", 0),
		RedisDT:       mustDuration("CONEXUS_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:       mustDuration("CONEXUS_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:       mustDuration("CONEXUS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize: getenvInt("CONEXUS_REDIS_POOL_SIZE", 10),

		SeedFile: getenv("CONEXUS_SEED_FILE", ""),

		// Pipeline
		MaxBodyBytes:     getenvInt64("CONEXUS_MAX_BODY_BYTES", 1<<20),
		CompressionLevel: getenvInt("CONEXUS_COMPRESSION_LEVEL", 5),
		TraceHeaders:     mustBool("CONEXUS_TRACE_HEADERS", true),
		DisabledStages:   splitAndTrim(getenv("CONEXUS_DISABLE_STAGES", "")),
	}

	switch cfg.Store {
	case StorePostgres:
		cfg.DBUser = requireEnv("CONEXUS_DB_USER")
		cfg.DBPassword = requireEnv("CONEXUS_DB_PASSWORD")
		cfg.DBName = requireEnv("CONEXUS_DB_NAME")
	case StoreRedis, StoreMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: CONEXUS_STORE must be one of postgres, redis, memory, got %q", cfg.Store))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.DBPassword != "" {
		c.DBPassword = "***REDACTED***"
	}
	if c.RedisPassword != "" {
		c.RedisPassword = "***REDACTED***"
	}
	return c
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
