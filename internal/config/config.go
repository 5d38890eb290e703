package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// DefaultSessionSecret is used when SESSION_SECRET is unset. It is public;
// deployments must override it.
const DefaultSessionSecret = "This is my first web application."

// Config holds all configuration for the application.
type Config struct {
	Port           string
	StoreDriver    string
	MongoURI       string
	MongoDatabase  string
	DatabaseDSN    string
	GoogleClientID string
	GoogleSecret   string
	CallbackURL    string
	SessionSecret  string
	SessionTTL     time.Duration
	CookieSecure   bool
	RabbitMQURL    string
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "3000")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "ratlist")
	v.SetDefault("DATABASE_DSN", "ratlist.db")
	v.SetDefault("CLIENT_ID", "")
	v.SetDefault("CLIENT_SECRET", "")
	v.SetDefault("CALLBACK_URL", "http://localhost:3000/auth/google/redirect")
	v.SetDefault("SESSION_SECRET", DefaultSessionSecret)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.AutomaticEnv()

	cfg := &Config{
		Port:           v.GetString("PORT"),
		StoreDriver:    v.GetString("STORE_DRIVER"),
		MongoURI:       v.GetString("MONGODB_URI"),
		MongoDatabase:  v.GetString("MONGODB_DATABASE"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		GoogleClientID: v.GetString("CLIENT_ID"),
		GoogleSecret:   v.GetString("CLIENT_SECRET"),
		CallbackURL:    v.GetString("CALLBACK_URL"),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		CookieSecure:   v.GetBool("COOKIE_SECURE"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// GoogleEnabled reports whether OAuth client credentials are configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleSecret != ""
}

// UsesDefaultSessionSecret reports whether cookies are signed with DefaultSessionSecret.
func (c *Config) UsesDefaultSessionSecret() bool {
	return c.SessionSecret == DefaultSessionSecret
}

// PersistentStore reports whether the configured store outlives the process.
func (c *Config) PersistentStore() bool {
	switch c.StoreDriver {
	case DriverMemory:
		return false
	case DriverSQLite:
		return !strings.Contains(c.DatabaseDSN, ":memory:") && !strings.Contains(c.DatabaseDSN, "mode=memory")
	}
	return true
}

// String returns a representation of the config with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, Store: %s, OAuth: %t, Events: %t, Secrets: ***}",
		c.Port, c.StoreDriver, c.GoogleEnabled(), c.RabbitMQURL != "")
}
