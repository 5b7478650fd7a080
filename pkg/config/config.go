package config

import (
	"errors"
	"fmt"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"io/fs"
	"time"
)

type Config struct {
	Server   ServerConfig   `group:"server"`
	Database DatabaseConfig `group:"database"`
	Redis    RedisConfig    `group:"redis"`
	Auth     AuthConfig     `group:"auth"`
	Tracing  TracingConfig  `group:"tracing"`
	Jobs     JobsConfig     `group:"jobs"`
	Log      LogConfig      `group:"log"`
}

type ServerConfig struct {
	Address         string        `long:"server-address" env:"SERVER_ADDRESS" default:":5000"`
	WriteTimeout    time.Duration `long:"server-write-timeout" env:"SERVER_WRITE_TIMEOUT" default:"15s"`
	ReadTimeout     time.Duration `long:"server-read-timeout" env:"SERVER_READ_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `long:"server-idle-timeout" env:"SERVER_IDLE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `long:"server-shutdown-timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"5s"`
}

type DatabaseConfig struct {
	Host          string `long:"postgres-host" env:"POSTGRES_HOST" default:"localhost"`
	Port          string `long:"postgres-port" env:"POSTGRES_PORT" default:"5432"`
	Name          string `long:"postgres-db" env:"POSTGRES_DB" default:"tourmarket"`
	User          string `long:"postgres-user" env:"POSTGRES_USER" default:"postgres"`
	Password      string `long:"postgres-password" env:"POSTGRES_PASSWORD" default:""`
	MaxPoolConns  int    `long:"max-conns" env:"MAX_CONNS" default:"99"`
	SkipMigration bool   `long:"skip-migrations" env:"SKIP_MIGRATIONS"`
}

type RedisConfig struct {
	Addr     string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379"`
	Password string `long:"redis-password" env:"REDIS_PASSWORD" default:""`
	DB       int    `long:"redis-db" env:"REDIS_DB" default:"0"`
}

type AuthConfig struct {
	JWTSecret string        `long:"jwt-secret" env:"JWT_SECRET" default:""`
	Issuer    string        `long:"jwt-issuer" env:"JWT_ISSUER" default:"tourmarket"`
	TokenTTL  time.Duration `long:"jwt-ttl" env:"JWT_TTL" default:"24h"`
}

type TracingConfig struct {
	JaegerEndpoint string `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT" default:""`
}

type JobsConfig struct {
	CompletionSchedule string        `long:"completion-schedule" env:"BOOKING_COMPLETION_SCHEDULE" default:"@hourly"`
	Timeout            time.Duration `long:"job-timeout" env:"JOB_TIMEOUT" default:"1m"`
}

type LogConfig struct {
	Level  string `long:"log-level" env:"LOG_LEVEL" default:"info"`
	Pretty bool   `long:"log-pretty" env:"LOG_PRETTY"`
}

func (dc *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s pool_max_conns=%d",
		dc.Host,
		dc.Port,
		dc.Name,
		dc.User,
		dc.Password,
		dc.MaxPoolConns,
	)
}

// NewConfig reads the environment, after loading a .env file from the working directory when one exists.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("dotenv error: %w", err)
	}

	var cfg Config
	parser := flags.NewParser(&cfg, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs([]string{}); err != nil {
		return nil, fmt.Errorf("config parse error: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth config error: JWT_SECRET is required")
	}
	if cfg.Database.MaxPoolConns <= 0 {
		return nil, errors.New("database config error: MAX_CONNS must be positive")
	}

	return &cfg, nil
}
