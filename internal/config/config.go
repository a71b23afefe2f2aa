package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultSessionSecret signs session tokens when SESSION_SECRET is unset.
// Validate refuses it in production.
const DefaultSessionSecret = "mouselab-dev-secret"

var ErrDefaultSecret = errors.New("SESSION_SECRET must be set in production")

type Config struct {
	Server ServerConfig `json:"server"`

	// MySQL record store
	Database DatabaseConfig `json:"database"`

	// GridFS object store
	MongoDB MongoDBConfig `json:"mongodb"`

	// Identity hint token
	Session SessionConfig `json:"session"`

	Upload UploadConfig `json:"upload"`

	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port             string `json:"port"`
	Host             string `json:"host"`
	GRPCPort         string `json:"grpc_port"`
	MediaServicePort string `json:"media_service_port"`
	MediaBaseURL     string `json:"media_base_url"`
	ReadTimeout      int    `json:"read_timeout"`
	WriteTimeout     int    `json:"write_timeout"`
	Environment      string `json:"environment"` // development, staging, production
	// AllowedOrigins are echoed back with credentials allowed. Empty means
	// any origin, without cookies (clients then use the bearer token).
	AllowedOrigins []string `json:"allowed_origins"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

type MongoDBConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	Bucket   string `json:"bucket"`
}

type SessionConfig struct {
	Secret     string `json:"-"`
	CookieName string `json:"cookie_name"`
	TTLHours   int    `json:"ttl_hours"`
}

type UploadConfig struct {
	MaxUploadBytes int64 `json:"max_upload_bytes"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // json, text
	OutputPath string `json:"output_path"` // stdout, stderr, or file path
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:             getEnvOrDefault("SERVER_PORT", "8000"),
			Host:             getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			GRPCPort:         getEnvOrDefault("GRPC_PORT", "7002"),
			MediaServicePort: getEnvOrDefault("MEDIA_SERVER_PORT", "8080"),
			ReadTimeout:      getEnvInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout:     getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			Environment:      getEnvOrDefault("APP_ENV", "development"),
			AllowedOrigins:   getEnvList("CORS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("MYSQL_HOST", "localhost"),
			Port:         getEnvOrDefault("MYSQL_PORT", "3306"),
			Username:     getEnvOrDefault("MYSQL_USERNAME", "mouselab"),
			Password:     getEnvOrDefault("MYSQL_PASSWORD", "mouselab123"),
			DatabaseName: getEnvOrDefault("MYSQL_DATABASE", "mouselab"),
			MaxOpenConns: getEnvInt("MYSQL_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("MYSQL_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USERNAME", ""),
			Password: getEnvOrDefault("MONGO_PASSWORD", ""),
			Database: getEnvOrDefault("MONGO_DATABASE", "mouselab"),
			Bucket:   getEnvOrDefault("MONGO_BUCKET", "photos"),
		},
		Session: SessionConfig{
			Secret:     getEnvOrDefault("SESSION_SECRET", DefaultSessionSecret),
			CookieName: getEnvOrDefault("SESSION_COOKIE", "mouselab-session"),
			TTLHours:   getEnvInt("SESSION_TTL_HOURS", 24*365),
		},
		Upload: UploadConfig{
			MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 10)) << 20,
		},
		Logging: LoggingConfig{
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			Format:     getEnvOrDefault("LOG_FORMAT", "text"),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
		},
	}

	cfg.Server.MediaBaseURL = getEnvOrDefault("MEDIA_BASE_URL",
		fmt.Sprintf("http://localhost:%s/media/", cfg.Server.MediaServicePort))
	if !strings.HasSuffix(cfg.Server.MediaBaseURL, "/") {
		cfg.Server.MediaBaseURL += "/"
	}

	if cfg.Session.Secret == DefaultSessionSecret {
		log.Println("⚠️  SESSION_SECRET not set, signing sessions with the development secret")
	}

	return cfg
}

// Validate rejects settings that are only acceptable outside production.
func (cfg *Config) Validate() error {
	if strings.EqualFold(cfg.Server.Environment, "production") && cfg.Session.Secret == DefaultSessionSecret {
		return ErrDefaultSecret
	}
	return nil
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username == "" {
		return fmt.Sprintf("mongodb://%s:%s/%s",
			cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
		cfg.MongoDB.Username,
		cfg.MongoDB.Password,
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
		cfg.MongoDB.Database,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s (%q), using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
