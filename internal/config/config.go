package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Bootstrap BootstrapConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// IsProduction reports whether the server runs in production mode.
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

type DatabaseConfig struct {
	URL            string
	Host           string
	Port           string
	User           string
	Password       string
	Database       string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	IdleTimeout    time.Duration
	ConnectTimeout time.Duration
}

// DSN returns the connection string, building it from the individual parts
// when no URL is configured.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Database,
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	LoginLimit  int
	LoginWindow time.Duration
}

// Enabled reports whether a Redis server is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type BootstrapConfig struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	SeedCatalog   bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() *Config {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_IDLE_TIMEOUT", "30s")
	v.SetDefault("DB_CONNECT_TIMEOUT", "10s")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "1m")
	v.SetDefault("JWT_EXPIRY", "7d")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("SEED_CATALOG", true)
	v.SetDefault("CLIENT_URL", "http://localhost:5173")

	expiry, err := ParseExpiry(v.GetString("JWT_EXPIRY"))
	if err != nil {
		log.Printf("Warning: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:     v.GetString("SERVER_PORT"),
			Env:      v.GetString("SERVER_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			URL:            v.GetString("DATABASE_URL"),
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			Database:       v.GetString("DB_DATABASE"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			MaxOpenConns:   v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:   v.GetInt("DB_MAX_IDLE_CONNS"),
			IdleTimeout:    v.GetDuration("DB_IDLE_TIMEOUT"),
			ConnectTimeout: v.GetDuration("DB_CONNECT_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:        v.GetString("REDIS_ADDR"),
			Password:    v.GetString("REDIS_PASSWORD"),
			DB:          v.GetInt("REDIS_DB"),
			LoginLimit:  v.GetInt("LOGIN_RATE_LIMIT"),
			LoginWindow: v.GetDuration("LOGIN_RATE_WINDOW"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Expiry: expiry,
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: v.GetString("ADMIN_USERNAME"),
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
			SeedCatalog:   v.GetBool("SEED_CATALOG"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CLIENT_URL")),
		},
	}
}

// Validate reports every configuration problem that prevents startup.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.Expiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY must be positive"))
	}
	if c.Bootstrap.AdminUsername == "" {
		errs = append(errs, errors.New("ADMIN_USERNAME is required"))
	}
	if c.Bootstrap.AdminEmail == "" {
		errs = append(errs, errors.New("ADMIN_EMAIL is required"))
	}
	if c.Bootstrap.AdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required"))
	}
	if c.Database.MaxOpenConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must be positive"))
	}
	if c.Redis.Enabled() && (c.Redis.LoginLimit <= 0 || c.Redis.LoginWindow <= 0) {
		errs = append(errs, errors.New("LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW must be positive"))
	}

	return errors.Join(errs...)
}

// ParseExpiry parses a Go duration, additionally accepting whole days such
// as "7d".
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid expiry %q: %w", s, err)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry %q: %w", s, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
