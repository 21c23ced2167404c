// Package config provides configuration management for the application.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Email      EmailConfig      `mapstructure:"email"`
	Media      MediaConfig      `mapstructure:"media"`
	Dispatcher DispatcherConfig `mapstructure:"dispatcher"`
	Middleware MiddlewareConfig `mapstructure:"middleware"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	DBName         string `mapstructure:"dbname"`
	SSLMode        string `mapstructure:"sslmode"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ProviderConfig configures the outbound SMS provider API.
type ProviderConfig struct {
	URL            string               `mapstructure:"url"`
	AuthToken      string               `mapstructure:"auth_token"`
	FromNumber     string               `mapstructure:"from_number"`
	Timeout        int                  `mapstructure:"timeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// EmailConfig configures the email relay. NotifyTo is the address that
// receives inbound-message notifications; notification is disabled when
// it is empty.
type EmailConfig struct {
	SendGridAPIKey string               `mapstructure:"sendgrid_api_key"`
	FromEmail      string               `mapstructure:"from_email"`
	FromName       string               `mapstructure:"from_name"`
	NotifyTo       string               `mapstructure:"notify_to"`
	Timeout        int                  `mapstructure:"timeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// MediaConfig configures inbound media persistence.
type MediaConfig struct {
	UploadDir    string `mapstructure:"upload_dir"`
	FetchTimeout int    `mapstructure:"fetch_timeout"`
	MaxBytes     int64  `mapstructure:"max_bytes"`
}

type CircuitBreakerConfig struct {
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"`
	Timeout          int     `mapstructure:"timeout"`
	FailureRatio     float64 `mapstructure:"failure_ratio"`
	ConsecutiveFails uint32  `mapstructure:"consecutive_fails"`
}

type DispatcherConfig struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
	BatchSize       int `mapstructure:"batch_size"`
}

type MiddlewareConfig struct {
	RateLimit      int      `mapstructure:"rate_limit"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	EnableCORS     bool     `mapstructure:"enable_cors"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", 10)
	viper.SetDefault("server.write_timeout", 10)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.auto_migrate", false)
	viper.SetDefault("database.migrations_path", "./migrations")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("provider.timeout", 15)
	viper.SetDefault("provider.circuit_breaker.max_requests", 3)
	viper.SetDefault("provider.circuit_breaker.interval", 60)
	viper.SetDefault("provider.circuit_breaker.timeout", 60)
	viper.SetDefault("provider.circuit_breaker.failure_ratio", 0.6)
	viper.SetDefault("provider.circuit_breaker.consecutive_fails", 5)
	viper.SetDefault("email.from_name", "Propline Dashboard")
	viper.SetDefault("email.timeout", 15)
	viper.SetDefault("email.circuit_breaker.max_requests", 3)
	viper.SetDefault("email.circuit_breaker.interval", 60)
	viper.SetDefault("email.circuit_breaker.timeout", 60)
	viper.SetDefault("email.circuit_breaker.failure_ratio", 0.6)
	viper.SetDefault("email.circuit_breaker.consecutive_fails", 5)
	viper.SetDefault("media.upload_dir", "./uploads")
	viper.SetDefault("media.fetch_timeout", 20)
	viper.SetDefault("media.max_bytes", 16*1024*1024)
	viper.SetDefault("dispatcher.interval_minutes", 2)
	viper.SetDefault("dispatcher.batch_size", 25)
	viper.SetDefault("middleware.rate_limit", 100)
	viper.SetDefault("middleware.rate_limit_burst", 1000)
	viper.SetDefault("middleware.enable_cors", true)
	viper.SetDefault("middleware.allowed_origins", []string{"*"})

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// GetDSN returns PostgreSQL connection string.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// GetURL returns the PostgreSQL connection URL used by the migration runner.
func (d *DatabaseConfig) GetURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}
