package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Quote       QuoteConfig    `mapstructure:"quote"`
	Session     SessionConfig  `mapstructure:"session"`
	Events      EventsConfig   `mapstructure:"events"`
	Trading     TradingConfig  `mapstructure:"trading"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
	AutoMigrate     bool          `mapstructure:"autoMigrate"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// RedisConfig contains the quote cache and session revocation store settings.
// An empty address disables both.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// QuoteConfig contains quote provider settings
type QuoteConfig struct {
	// URL may contain {symbol} and {apiKey} placeholders
	URL       string        `mapstructure:"url"`
	APIKey    string        `mapstructure:"apiKey"`
	Timeout   time.Duration `mapstructure:"timeout"`  // seconds
	CacheTTL  time.Duration `mapstructure:"cacheTTL"` // seconds
	SymbolKey string        `mapstructure:"symbolPath"`
	NameKey   string        `mapstructure:"namePath"`
	PriceKey  string        `mapstructure:"pricePath"`
}

// SessionConfig contains session cookie settings
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookieName"`
	TTL        time.Duration `mapstructure:"ttl"` // minutes
	Secure     bool          `mapstructure:"secure"`
}

// EventsConfig contains domain event publishing settings.
// No brokers disables publishing.
type EventsConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// TradingConfig contains ledger settings
type TradingConfig struct {
	StartingCash    string `mapstructure:"startingCash"`
	SettlementQueue int    `mapstructure:"settlementQueue"`
}
