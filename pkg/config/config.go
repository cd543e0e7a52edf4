package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration. Env vars always win over the optional .env file.
type Config struct {
	App  AppConfig
	DB   DBConfig
	JWT  JWTConfig
	Log  LogConfig
	CORS CORSConfig
}

type AppConfig struct {
	Env           string // development, production
	Name          string
	Port          int
	PublicDir     string // static files, product images and generated QR codes
	AdminPassword string // password of the seeded admin user
}

// DBConfig describes the Postgres connection. DatabaseURL takes precedence when set.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
}

// ConnectionString returns DatabaseURL if set, otherwise a DSN built from the parts.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
	Issuer          string
}

func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

type LogConfig struct {
	Level      string
	File       string // empty disables the rotating file
	MaxSizeMB  int
	MaxAgeDays int
}

type CORSConfig struct {
	AllowOrigins string
}

// Addr returns the listen address for Fiber.
func (c AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads configuration from the environment and, if present, a .env file in the working dir.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Missing .env is fine
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:           v.GetString("APP_ENV"),
			Name:          v.GetString("APP_NAME"),
			Port:          v.GetInt("APP_PORT"),
			PublicDir:     v.GetString("PUBLIC_DIR"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:          v.GetString("JWT_SECRET"),
			ExpirationHours: v.GetInt("JWT_EXPIRATION_HOURS"),
			Issuer:          v.GetString("JWT_ISSUER"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		CORS: CORSConfig{
			AllowOrigins: v.GetString("ORIGIN_URL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "Tailor Inventory")
	v.SetDefault("APP_PORT", 3000)
	v.SetDefault("PUBLIC_DIR", "public")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tailor_inventory")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("JWT_SECRET", "your-super-secret-key-change-in-production")
	v.SetDefault("JWT_EXPIRATION_HOURS", 12)
	v.SetDefault("JWT_ISSUER", "go-tailor-inventory")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "logs/application.log")
	v.SetDefault("LOG_MAX_SIZE_MB", 20)
	v.SetDefault("LOG_MAX_AGE_DAYS", 14)

	v.SetDefault("ORIGIN_URL", "*")
}

func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid APP_PORT %d", c.App.Port)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWT.ExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive")
	}
	return nil
}
