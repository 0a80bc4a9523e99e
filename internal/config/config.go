package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "IRRIGADOR"

// Store drivers
const (
	DriverTimescale = "timescale"
	DriverDynamoDB  = "dynamodb"
	DriverMemory    = "memory"
)

// Dashboard data sources
const (
	SourceHTTP    = "http"
	SourceFixture = "fixture"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	DynamoDB  DynamoDBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Dashboard DashboardConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// StoreConfig selects the backing store for snapshots
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	TimescaleDB PostgresConfig `mapstructure:"timescaledb"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type DynamoDBConfig struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	TableName string `mapstructure:"table_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig controls the bearer-token gate in front of the snapshot route
type AuthConfig struct {
	Required       bool   `mapstructure:"required"`
	TokenKeyPrefix string `mapstructure:"token_key_prefix"`
}

type DashboardConfig struct {
	APIURL          string        `mapstructure:"api_url"`
	DeviceID        string        `mapstructure:"device_id"`
	Source          string        `mapstructure:"source"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	FixtureDelay    time.Duration `mapstructure:"fixture_delay"`
	CommandDelay    time.Duration `mapstructure:"command_delay"`
	SessionFile     string        `mapstructure:"session_file"`
	LoginURL        string        `mapstructure:"login_url"`
	DateLayout      string        `mapstructure:"date_layout"`
	Timezone        string        `mapstructure:"timezone"`
}

// Load initializes server configuration from environment variables and config file
func Load() (*Config, error) {
	return load(validateServerConfig)
}

// LoadDashboard initializes the dashboard configuration
func LoadDashboard() (*Config, error) {
	return load(validateDashboardConfig)
}

func load(validate func(*Config) error) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Load config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// Every key gets a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("store.driver", DriverTimescale)

	// Database defaults
	v.SetDefault("database.timescaledb.host", "")
	v.SetDefault("database.timescaledb.port", 5432)
	v.SetDefault("database.timescaledb.user", "postgres")
	v.SetDefault("database.timescaledb.password", "")
	v.SetDefault("database.timescaledb.dbname", "irrigador")
	v.SetDefault("database.timescaledb.sslmode", "disable")

	v.SetDefault("dynamodb.region", "")
	v.SetDefault("dynamodb.endpoint", "")
	v.SetDefault("dynamodb.table_name", "")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.required", false)
	v.SetDefault("auth.token_key_prefix", "session:")

	// Dashboard defaults
	v.SetDefault("dashboard.api_url", "http://localhost:8080")
	v.SetDefault("dashboard.device_id", "")
	v.SetDefault("dashboard.source", SourceHTTP)
	v.SetDefault("dashboard.fetch_timeout", "10s")
	v.SetDefault("dashboard.refresh_interval", "0s")
	v.SetDefault("dashboard.fixture_delay", "500ms")
	v.SetDefault("dashboard.command_delay", "500ms")
	v.SetDefault("dashboard.session_file", "session.json")
	v.SetDefault("dashboard.login_url", "http://localhost:8080/index.html")
	v.SetDefault("dashboard.date_layout", "02/01/2006")
	v.SetDefault("dashboard.timezone", "Local")
}

func validateServerConfig(config *Config) error {
	switch config.Store.Driver {
	case DriverTimescale:
		if config.Database.TimescaleDB.Host == "" {
			return fmt.Errorf("timescaledb host is required")
		}
	case DriverDynamoDB:
		if config.DynamoDB.TableName == "" {
			return fmt.Errorf("dynamodb table name is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}
	if config.Auth.Required && config.Redis.Host == "" {
		return fmt.Errorf("redis host is required when auth is enabled")
	}
	return nil
}

func validateDashboardConfig(config *Config) error {
	d := config.Dashboard
	if d.DeviceID == "" {
		return fmt.Errorf("dashboard device id is required")
	}
	switch d.Source {
	case SourceHTTP:
		if d.APIURL == "" {
			return fmt.Errorf("dashboard api url is required for the http source")
		}
	case SourceFixture:
	default:
		return fmt.Errorf("unknown dashboard source %q", d.Source)
	}
	if d.FetchTimeout <= 0 {
		return fmt.Errorf("dashboard fetch timeout must be positive")
	}
	if _, err := time.LoadLocation(d.Timezone); err != nil {
		return fmt.Errorf("invalid dashboard timezone: %w", err)
	}
	return nil
}
