package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server ServerConfig
	App    AppConfig
	Cache  CacheConfig
	Store  StoreConfig
	Steam  SteamConfig
	Auth   AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"3000"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"tradehub-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// CacheConfig holds session cache backend settings.
type CacheConfig struct {
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StoreConfig holds the ledger/directory store settings.
type StoreConfig struct {
	Type string `envconfig:"STORE_TYPE" default:"sqlite"` // sqlite, postgres, or mongodb
	Path string `envconfig:"STORE_PATH" default:"./data/tradehub.db"`
	// PostgreSQL settings
	Host     string `envconfig:"STORE_HOST" default:"localhost"`
	Port     int    `envconfig:"STORE_PORT" default:"5432"`
	Name     string `envconfig:"STORE_NAME" default:"tradehub"`
	User     string `envconfig:"STORE_USER" default:"postgres"`
	Password string `envconfig:"STORE_PASS" default:""`
	SSLMode  string `envconfig:"STORE_SSLMODE" default:"disable"`
	// MongoDB settings
	MongoURI      string `envconfig:"MONGODB_URI" default:""`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"tradehub"`
}

// SteamConfig holds the external Steam collaborator settings.
type SteamConfig struct {
	APIKey           string        `envconfig:"STEAM_API_KEY" default:""`
	BotSteamID       string        `envconfig:"STEAM_BOT_STEAMID" default:""`
	AppID            int           `envconfig:"STEAM_APP_ID" default:"570"`
	ContextID        int           `envconfig:"STEAM_CONTEXT_ID" default:"2"`
	InventoryTimeout time.Duration `envconfig:"STEAM_INVENTORY_TIMEOUT" default:"10s"`
}

// AuthConfig holds session and rate-limit settings.
type AuthConfig struct {
	SessionTTL time.Duration `envconfig:"AUTH_SESSION_TTL" default:"24h"`
	RateLimit  float64       `envconfig:"AUTH_RATE_LIMIT" default:"10"`
	RateBurst  int           `envconfig:"AUTH_RATE_BURST" default:"20"`
	// CallbackKey authenticates the login-callback hop from the
	// OpenID relay; empty disables the check (development only).
	CallbackKey string `envconfig:"AUTH_CALLBACK_KEY" default:""`
}

// PostgresDSN returns the PostgreSQL connection string.
func (s *StoreConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		s.User, s.Password, s.Host, s.Port, s.Name, s.SSLMode)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
