package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix is the prefix of environment variable overrides
const EnvPrefix = "PT"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development
	if err := loadDotEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: no %s.yaml found, using defaults and environment\n", env)
	}

	return decode(v, env)
}

// decode applies environment overrides and unmarshals v into a Config
func decode(v *viper.Viper, env string) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds
	v.SetDefault("database.autoMigrate", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("quote.url", "https://finance.cs50.io/quote?symbol={symbol}")
	v.SetDefault("quote.timeout", 5)   // seconds
	v.SetDefault("quote.cacheTTL", 60) // seconds
	v.SetDefault("quote.symbolPath", "$.symbol")
	v.SetDefault("quote.namePath", "$.companyName")
	v.SetDefault("quote.pricePath", "$.latestPrice")

	v.SetDefault("session.cookieName", "session")
	v.SetDefault("session.ttl", 720) // minutes
	v.SetDefault("session.secure", false)

	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.topic", "papertrade-events")

	v.SetDefault("trading.startingCash", "10000.00")
	v.SetDefault("trading.settlementQueue", 32)
}

// getEnvironment determines the environment to use based on PT_ENV
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides makes sure secrets and connection settings in the
// environment win over configuration files
func processEnvOverrides(v *viper.Viper) {
	overrides := map[string]string{
		"PT_DB_HOST":        "database.host",
		"PT_DB_PORT":        "database.port",
		"PT_DB_USERNAME":    "database.username",
		"PT_DB_PASSWORD":    "database.password",
		"PT_DB_NAME":        "database.database",
		"PT_DB_SSL_MODE":    "database.sslMode",
		"PT_SERVER_HOST":    "server.host",
		"PT_SERVER_PORT":    "server.port",
		"PT_LOGGER_LEVEL":   "logger.level",
		"PT_REDIS_ADDR":     "redis.addr",
		"PT_REDIS_PASSWORD": "redis.password",
		"PT_QUOTE_URL":      "quote.url",
		"PT_QUOTE_API_KEY":  "quote.apiKey",
		"PT_SESSION_SECRET": "session.secret",
		"PT_EVENTS_TOPIC":   "events.topic",
		"PT_STARTING_CASH":  "trading.startingCash",
	}
	for env, key := range overrides {
		if value := os.Getenv(env); value != "" {
			v.Set(key, value)
		}
	}

	if brokers := os.Getenv("PT_EVENTS_BROKERS"); brokers != "" {
		v.Set("events.brokers", splitList(brokers))
	}
	if maxOpenConns := getEnvInt("PT_DB_MAX_OPEN_CONNS", 0); maxOpenConns > 0 {
		v.Set("database.maxOpenConns", maxOpenConns)
	}
	if maxIdleConns := getEnvInt("PT_DB_MAX_IDLE_CONNS", 0); maxIdleConns > 0 {
		v.Set("database.maxIdleConns", maxIdleConns)
	}
	if queryTimeout := getEnvInt("PT_DB_QUERY_TIMEOUT_SECONDS", 0); queryTimeout > 0 {
		v.Set("database.queryTimeout", queryTimeout)
	}
	if quoteTimeout := getEnvInt("PT_QUOTE_TIMEOUT_SECONDS", 0); quoteTimeout > 0 {
		v.Set("quote.timeout", quoteTimeout)
	}
}

// Helper function to get environment variable as int
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second

	config.Quote.Timeout = time.Duration(config.Quote.Timeout) * time.Second
	config.Quote.CacheTTL = time.Duration(config.Quote.CacheTTL) * time.Second

	config.Session.TTL = time.Duration(config.Session.TTL) * time.Minute
}
