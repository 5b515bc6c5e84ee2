package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App    AppConfig
	DB     DatabaseConfig
	Redis  RedisConfig
	Auth   AuthConfig
	News   NewsConfig
	Logger LoggerConfig
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// DatabaseConfig holds configuration for the user store.
// Driver selects the backend: sqlite, postgres, or jsonfile.
type DatabaseConfig struct {
	Driver   string `mapstructure:"DB_DRIVER"`
	Path     string `mapstructure:"DB_PATH"` // sqlite file or jsonfile path
	Host     string `mapstructure:"DB_HOST"`
	Port     string `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`
}

// RedisConfig holds configuration for the optional user cache
type RedisConfig struct {
	Enabled     bool   `mapstructure:"REDIS_ENABLED"`
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
	CacheTTL    int    `mapstructure:"REDIS_CACHE_TTL_SECONDS"`
}

// AuthConfig holds configuration for password hashing and token signing
type AuthConfig struct {
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	TokenTTLMinutes int    `mapstructure:"TOKEN_TTL_MINUTES"`
	BcryptCost      int    `mapstructure:"BCRYPT_COST"`
}

// NewsConfig holds configuration for the upstream news provider
type NewsConfig struct {
	BaseURL        string `mapstructure:"NEWS_BASE_URL"`
	APIKey         string `mapstructure:"NEWS_API_KEY"`
	Country        string `mapstructure:"NEWS_COUNTRY"`
	TimeoutSeconds int    `mapstructure:"NEWS_TIMEOUT_SECONDS"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	setDefaults()

	viper.AddConfigPath(path)
	viper.SetConfigName("app") // Look for app.env
	viper.SetConfigType("env")

	viper.AutomaticEnv() // Read from environment variables

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.App.HTTPPort = viper.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.DB.Driver = viper.GetString("DB_DRIVER")
	config.DB.Path = viper.GetString("DB_PATH")
	config.DB.Host = viper.GetString("DB_HOST")
	config.DB.Port = viper.GetString("DB_PORT")
	config.DB.User = viper.GetString("DB_USER")
	config.DB.Password = viper.GetString("DB_PASSWORD")
	config.DB.Name = viper.GetString("DB_NAME")
	config.DB.SSLMode = viper.GetString("DB_SSLMODE")

	config.Redis.Enabled = viper.GetBool("REDIS_ENABLED")
	config.Redis.Host = viper.GetString("REDIS_HOST")
	config.Redis.Port = viper.GetString("REDIS_PORT")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.MaxRetries = viper.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = viper.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = viper.GetInt("REDIS_MIN_IDLE_CONN")
	config.Redis.CacheTTL = viper.GetInt("REDIS_CACHE_TTL_SECONDS")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.TokenTTLMinutes = viper.GetInt("TOKEN_TTL_MINUTES")
	config.Auth.BcryptCost = viper.GetInt("BCRYPT_COST")

	config.News.BaseURL = viper.GetString("NEWS_BASE_URL")
	config.News.APIKey = viper.GetString("NEWS_API_KEY")
	config.News.Country = viper.GetString("NEWS_COUNTRY")
	config.News.TimeoutSeconds = viper.GetInt("NEWS_TIMEOUT_SECONDS")

	config.Logger.Level = viper.GetString("LOG_LEVEL")
	config.Logger.Format = viper.GetString("LOG_FORMAT")
	config.Logger.OutputPath = viper.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = viper.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = viper.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = viper.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = viper.GetString("SERVICE_VERSION")

	return &config, nil
}

// Validate checks that required settings are present. Secrets have no
// fallback: a missing signing secret or provider key fails startup.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.News.APIKey == "" {
		return errors.New("NEWS_API_KEY is required")
	}
	switch c.DB.Driver {
	case "sqlite", "postgres", "jsonfile":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %q", c.DB.Driver)
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return errors.New("TOKEN_TTL_MINUTES must be positive")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("HTTP_PORT", "5000")
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PATH", "users.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "newsfeed_service")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_MAX_RETRIES", 3)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	viper.SetDefault("REDIS_CACHE_TTL_SECONDS", 300)

	viper.SetDefault("TOKEN_TTL_MINUTES", 60)
	viper.SetDefault("BCRYPT_COST", 10)

	viper.SetDefault("NEWS_BASE_URL", "https://newsapi.org/v2")
	viper.SetDefault("NEWS_COUNTRY", "in")
	viper.SetDefault("NEWS_TIMEOUT_SECONDS", 10)

	// Logger defaults
	env := viper.GetString("APP_ENV")
	if env == "production" {
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("LOG_FORMAT", "json")
		viper.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		viper.SetDefault("LOG_LEVEL", "debug")
		viper.SetDefault("LOG_FORMAT", "console")
		viper.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	viper.SetDefault("LOG_OUTPUT_PATH", "stdout")
	viper.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	viper.SetDefault("SERVICE_NAME", "newsfeed-service")
	viper.SetDefault("SERVICE_VERSION", "1.0.0")
}

// DSN returns the PostgreSQL Data Source Name
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}
