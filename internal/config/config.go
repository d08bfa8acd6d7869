package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AppName  string `mapstructure:"APP_NAME"`
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// PostgreSQL configuration
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSL_MODE"`

	// External services
	MarketplaceBaseURL string        `mapstructure:"MARKETPLACE_BASE_URL"`
	MarketplaceToken   string        `mapstructure:"MARKETPLACE_TOKEN"`
	ISBNLookupBaseURL  string        `mapstructure:"ISBN_LOOKUP_BASE_URL"`
	ClientTimeout      time.Duration `mapstructure:"CLIENT_TIMEOUT"`

	// Telemetry
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`

	// HTTP rate limiting (requests per second, burst)
	RateLimit      float64 `mapstructure:"RATE_LIMIT"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// DSN renders the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Load reads configuration from an app.env file in path, falling back to
// environment variables and defaults.
func Load(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("APP_NAME", "sebodigital")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "sebodigital")
	viper.SetDefault("DB_SSL_MODE", "disable")

	viper.SetDefault("MARKETPLACE_BASE_URL", "https://api.estantevirtual.com.br")
	viper.SetDefault("MARKETPLACE_TOKEN", "")
	viper.SetDefault("ISBN_LOOKUP_BASE_URL", "https://openlibrary.org")
	viper.SetDefault("CLIENT_TIMEOUT", 10*time.Second)

	viper.SetDefault("OTLP_ENDPOINT", "")

	viper.SetDefault("RATE_LIMIT", 50.0)
	viper.SetDefault("RATE_LIMIT_BURST", 100)

	viper.SetDefault("SHUTDOWN_TIMEOUT", 15*time.Second)

	if err = viper.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
