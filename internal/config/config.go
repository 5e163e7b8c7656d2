package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Backends de instantáneas soportados.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

type Config struct {
	APIHost        string
	Token          string
	RequestTimeout time.Duration
	RetryCount     int

	SnapshotBackend string
	SnapshotDir     string
	SQLitePath      string
	PostgresDSN     string
	RedisAddr       string
	MongoURI        string
	MongoDB         string

	KafkaBrokers []string
	KafkaTopic   string

	DownloadPageSize    int
	DownloadConcurrency int

	LogLevel  string
	LogFormat string

	HTTPPort  string
	JWTSecret string
}

// UseKafka indica si hay brokers configurados para la telemetría de transiciones.
func (c *Config) UseKafka() bool {
	return len(c.KafkaBrokers) > 0
}

func LoadConfig() *Config {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	getInt := func(key string, fallback, lowest int) int {
		if n, err := strconv.Atoi(getEnv(key, "")); err == nil && n >= lowest {
			return n
		}
		return fallback
	}
	getDuration := func(key string, fallback time.Duration) time.Duration {
		if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d > 0 {
			return d
		}
		return fallback
	}

	var kafkaBrokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			kafkaBrokers = append(kafkaBrokers, b)
		}
	}

	return &Config{
		APIHost:        getEnv("VETQUERY_API_HOST", "http://localhost:8080"),
		Token:          getEnv("VETQUERY_TOKEN", ""),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		RetryCount:     getInt("RETRY_COUNT", 2, 0),

		SnapshotBackend: strings.ToLower(getEnv("SNAPSHOT_BACKEND", BackendFile)),
		SnapshotDir:     getEnv("SNAPSHOT_DIR", "./.vetquery"),
		SQLitePath:      getEnv("SQLITE_PATH", "./vetquery_snapshots.db"),
		PostgresDSN:     getEnv("POSTGRES_DSN", "postgres://localhost:5432/vetquery"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "vetquery"),

		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   getEnv("KAFKA_TOPIC", "vetquery.transitions"),

		DownloadPageSize:    getInt("DOWNLOAD_PAGE_SIZE", 100, 1),
		DownloadConcurrency: getInt("DOWNLOAD_CONCURRENCY", 4, 1),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		HTTPPort:  getEnv("HTTP_PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "vetquery-dev-secret"),
	}
}
