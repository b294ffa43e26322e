package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Store     StoreConfig     `yaml:"store"`
	Database  DatabaseConfig  `yaml:"database"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Display   DisplayConfig   `yaml:"display"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"4194304"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig bounds how often a single client may call the annotate endpoints.
type RateLimitConfig struct {
	AnnotatePerMinute int           `yaml:"annotate_per_minute" env:"RATE_LIMIT_ANNOTATE_PER_MINUTE" env-default:"600"`
	Burst             int           `yaml:"burst"               env:"RATE_LIMIT_BURST"               env-default:"60"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL"    env-default:"5m"`
}

// Store drivers.
const (
	StoreDriverBadger   = "badger"
	StoreDriverPostgres = "postgres"
)

// StoreConfig selects where learned characters and settings are persisted.
type StoreConfig struct {
	Driver     string        `yaml:"driver"      env:"STORE_DRIVER"      env-default:"badger"`
	BadgerPath string        `yaml:"badger_path" env:"STORE_BADGER_PATH" env-default:"./data/state"`
	InMemory   bool          `yaml:"in_memory"   env:"STORE_IN_MEMORY"   env-default:"false"`
	SyncWrites bool          `yaml:"sync_writes" env:"STORE_SYNC_WRITES" env-default:"true"`
	GCInterval time.Duration `yaml:"gc_interval" env:"STORE_GC_INTERVAL" env-default:"10m"`
}

// DatabaseConfig holds PostgreSQL connection settings. Only used when
// store.driver is "postgres".
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"5"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// DatasetConfig points at the character reading dataset.
// Source is a local path, an http(s) URL, or a gs://bucket/object URL.
// A ".xz" suffix means the payload is xz-compressed.
type DatasetConfig struct {
	Source             string        `yaml:"source"               env:"DATASET_SOURCE"               env-default:"./characters.json"`
	Timeout            time.Duration `yaml:"timeout"              env:"DATASET_TIMEOUT"              env-default:"60s"`
	GCSAnonymous       bool          `yaml:"gcs_anonymous"        env:"DATASET_GCS_ANONYMOUS"        env-default:"false"`
	GCSCredentialsFile string        `yaml:"gcs_credentials_file" env:"DATASET_GCS_CREDENTIALS_FILE"`
}

// DisplayConfig holds the display settings used until the user saves their own.
type DisplayConfig struct {
	Enabled     bool   `yaml:"enabled"     env:"DISPLAY_ENABLED"     env-default:"true"`
	Orientation string `yaml:"orientation" env:"DISPLAY_ORIENTATION" env-default:"horizontal-above"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
