package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// DatabaseURLEnv is the environment variable for a full database connection string.
	// When set it takes precedence over the individual DB_* variables.
	DatabaseURLEnv = "DATABASE_URL"

	// DBHostEnv is the environment variable for database host.
	DBHostEnv = "DB_HOST"

	// DBPortEnv is the environment variable for database port.
	DBPortEnv = "DB_PORT"

	// DBUserEnv is the environment variable for database user.
	DBUserEnv = "DB_USER"

	// DBPassEnv is the environment variable for database password.
	DBPassEnv = "DB_PASS"

	// DBNameEnv is the environment variable for database name.
	DBNameEnv = "DB_NAME"

	// DBSSLModeEnv is the environment variable for the database sslmode.
	DBSSLModeEnv = "DB_SSLMODE"

	// DBConnectAttemptsEnv is the environment variable for the number of startup connection attempts.
	DBConnectAttemptsEnv = "DB_CONNECT_ATTEMPTS"

	// DBConnectRetryDelayEnv is the environment variable for the delay between startup connection attempts.
	DBConnectRetryDelayEnv = "DB_CONNECT_RETRY_DELAY"

	// MigrationsPathEnv is the environment variable for the migrations source URL.
	MigrationsPathEnv = "MIGRATIONS_PATH"

	// HTTPServerPortEnv is the environment variable for HTTP server port.
	HTTPServerPortEnv = "HTTP_SERVER_PORT"

	// Env is the environment variable for environment name.
	Env = "ENV"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSQueueURLEnv is the environment variable for SQS queue URL.
	// Review events are only published when it is set.
	SQSQueueURLEnv = "SQS_QUEUE_URL"

	// OutboxIntervalEnv is the environment variable for the outbox polling interval.
	OutboxIntervalEnv = "OUTBOX_INTERVAL"
)

const (
	defaultDBPort              = "5432"
	defaultDBSSLMode           = "disable"
	defaultDBConnectAttempts   = 5
	defaultDBConnectRetryDelay = 5 * time.Second
	defaultMigrationsPath      = "file://migrations"
	defaultHTTPServerPort      = "3000"
	defaultMetricsServerPort   = "9090"
	defaultEnvironment         = "development"
	defaultOutboxInterval      = 2 * time.Second
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")
)

// Config represents the application configuration.
type Config struct {
	DebugMode     bool
	Environment   string
	Database      DB
	HTTPServer    Server
	MetricsServer Server
	AWS           AWSConfig
	Outbox        Outbox
}

// AWSConfig represents AWS-specific configuration settings.
type AWSConfig struct {
	Region      string
	Endpoint    string
	SQSQueueURL string
}

// EventsEnabled reports whether review events should be written and published.
func (a AWSConfig) EventsEnabled() bool {
	return a.SQSQueueURL != ""
}

// DB represents database configuration settings.
type DB struct {
	URL               string
	Host              string
	User              string
	Password          string
	Name              string
	Port              string
	SSLMode           string
	ConnectAttempts   int
	ConnectRetryDelay time.Duration
	MigrationsPath    string
}

// DSN returns the connection string used to open the database.
func (d DB) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

// Outbox holds the settings of the review event outbox worker.
type Outbox struct {
	Interval time.Duration
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	// A connection URL replaces the individual settings
	if c.Database.URL == "" {
		if err := allNonEmpty(map[string]string{
			DBHostEnv: c.Database.Host,
			DBUserEnv: c.Database.User,
			DBNameEnv: c.Database.Name,
		}); err != nil {
			return fmt.Errorf("database configuration incomplete: %w", err)
		}
		if err := allNumbers(map[string]string{DBPortEnv: c.Database.Port}); err != nil {
			return fmt.Errorf("invalid port number: %w", err)
		}
	}

	if err := allNumbers(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	if c.Database.ConnectAttempts < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", DBConnectAttemptsEnv, c.Database.ConnectAttempts)
	}

	if c.AWS.EventsEnabled() {
		if err := allNonEmpty(map[string]string{
			AWSRegionEnv: c.AWS.Region,
		}); err != nil {
			return fmt.Errorf("AWS configuration incomplete: %w", err)
		}
	}

	return nil
}

func getEnv(name, defaultValue string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if val, err := strconv.Atoi(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if val, err := time.ParseDuration(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func applyDefaultEnvFile() {
	envPath := os.Getenv(EnvFilePath)
	if envPath == "" {
		envPath = DefaultEnvFilePath
	}
	if err := ApplyEnvFile(envPath); err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	applyDefaultEnvFile()

	conf := &Config{
		DebugMode:   getEnvAsBool(DebugModeEnv, false),
		Environment: getEnv(Env, defaultEnvironment),
		Database: DB{
			URL:               os.Getenv(DatabaseURLEnv),
			Host:              os.Getenv(DBHostEnv),
			User:              os.Getenv(DBUserEnv),
			Password:          os.Getenv(DBPassEnv),
			Name:              os.Getenv(DBNameEnv),
			Port:              getEnv(DBPortEnv, defaultDBPort),
			SSLMode:           getEnv(DBSSLModeEnv, defaultDBSSLMode),
			ConnectAttempts:   getEnvAsInt(DBConnectAttemptsEnv, defaultDBConnectAttempts),
			ConnectRetryDelay: getEnvAsDuration(DBConnectRetryDelayEnv, defaultDBConnectRetryDelay),
			MigrationsPath:    getEnv(MigrationsPathEnv, defaultMigrationsPath),
		},
		HTTPServer: Server{
			Port: getEnv(HTTPServerPortEnv, defaultHTTPServerPort),
		},
		MetricsServer: Server{
			Port: getEnv(MetricsServerPortEnv, defaultMetricsServerPort),
		},
		AWS: AWSConfig{
			Region:      os.Getenv(AWSRegionEnv),
			Endpoint:    os.Getenv(AWSEndpointEnv),
			SQSQueueURL: os.Getenv(SQSQueueURLEnv),
		},
		Outbox: Outbox{
			Interval: getEnvAsDuration(OutboxIntervalEnv, defaultOutboxInterval),
		},
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}

// LoadConsumerFromEnv loads the configuration of a queue consumer, which needs
// no database but requires a queue.
func LoadConsumerFromEnv() (*Config, error) {
	applyDefaultEnvFile()

	conf := &Config{
		DebugMode:   getEnvAsBool(DebugModeEnv, false),
		Environment: getEnv(Env, defaultEnvironment),
		AWS: AWSConfig{
			Region:      os.Getenv(AWSRegionEnv),
			Endpoint:    os.Getenv(AWSEndpointEnv),
			SQSQueueURL: os.Getenv(SQSQueueURLEnv),
		},
	}

	if err := allNonEmpty(map[string]string{
		AWSRegionEnv:   conf.AWS.Region,
		SQSQueueURLEnv: conf.AWS.SQSQueueURL,
	}); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}
