package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.)
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	Scheduling SchedulingConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Storage    StorageConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Actor-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type SchedulingConfig struct {
	MaxSlotSpanDays      int           `envconfig:"MAX_SLOT_SPAN_DAYS" default:"31"`
	HoldTTL              time.Duration `envconfig:"HOLD_TTL" default:"10m"`
	DefaultBufferMinutes int           `envconfig:"DEFAULT_BUFFER_MINUTES" default:"0"`
	DefaultStepMinutes   int           `envconfig:"DEFAULT_STEP_MINUTES" default:"15"`
	DefaultSlotMinutes   int           `envconfig:"DEFAULT_SLOT_MINUTES" default:"30"`
	DefaultTimezone      string        `envconfig:"DEFAULT_TIMEZONE" default:"UTC"`
}

type RedisConfig struct {
	// Empty Addr disables the template cache.
	Addr        string        `envconfig:"REDIS_ADDR" default:""`
	Password    string        `envconfig:"REDIS_PASSWORD" default:""`
	DB          int           `envconfig:"REDIS_DB" default:"0"`
	TemplateTTL time.Duration `envconfig:"REDIS_TEMPLATE_TTL" default:"5m"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64       `envconfig:"RATE_LIMIT_RPS" default:"10"`
	Burst             int           `envconfig:"RATE_LIMIT_BURST" default:"20"`
	IdleTTL           time.Duration `envconfig:"RATE_LIMIT_IDLE_TTL" default:"10m"`
}

type StorageConfig struct {
	// postgres or memory
	Driver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c StorageConfig) IsMemory() bool {
	return c.Driver == "memory"
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Scheduling.MaxSlotSpanDays <= 0 {
		return fmt.Errorf("MAX_SLOT_SPAN_DAYS must be positive")
	}
	if c.Scheduling.HoldTTL <= 0 {
		return fmt.Errorf("HOLD_TTL must be positive")
	}
	if c.Scheduling.DefaultSlotMinutes <= 0 || c.Scheduling.DefaultStepMinutes <= 0 {
		return fmt.Errorf("DEFAULT_SLOT_MINUTES and DEFAULT_STEP_MINUTES must be positive")
	}
	if c.Scheduling.DefaultBufferMinutes < 0 {
		return fmt.Errorf("DEFAULT_BUFFER_MINUTES cannot be negative")
	}
	if _, err := time.LoadLocation(c.Scheduling.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid DEFAULT_TIMEZONE: %w", err)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 5,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Scheduling: SchedulingConfig{
			MaxSlotSpanDays:      31,
			HoldTTL:              10 * time.Minute,
			DefaultBufferMinutes: 0,
			DefaultStepMinutes:   15,
			DefaultSlotMinutes:   30,
			DefaultTimezone:      "UTC",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
			IdleTTL:           10 * time.Minute,
		},
		Storage: StorageConfig{
			Driver: "memory",
		},
	}
}
