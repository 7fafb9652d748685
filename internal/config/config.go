package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds application level configuration loaded from the environment.
type Config struct {
	ServerPort     string
	DBDriver       string
	MySQLDSN       string
	PostgresDSN    string
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	JWTSecret      string
	CORSOrigins    []string
	MaxResumeBytes int64
	LogLevel       string
	LogFormat      string
	SwaggerHost    string
	S3             S3Config
}

// S3Config describes the S3-compatible bucket that stores resumes.
// Uploads are disabled when Bucket is empty.
type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Enabled reports whether resume uploads are configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads an optional .env file, then builds Config from the environment
// with sensible defaults. It fails when required settings are missing.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("server_port", "5000")
	v.SetDefault("db_driver", DriverMySQL)
	v.SetDefault("mysql_dsn", "user:password@tcp(localhost:3306)/referrals?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("postgres_dsn", "host=localhost port=5432 user=postgres dbname=referrals sslmode=disable TimeZone=UTC")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "referrals")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cors_origins", "*")
	v.SetDefault("max_resume_bytes", 5<<20)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("s3_region", "us-east-1")
	v.AutomaticEnv()

	cfg := &Config{
		ServerPort:     v.GetString("server_port"),
		DBDriver:       strings.ToLower(v.GetString("db_driver")),
		MySQLDSN:       v.GetString("mysql_dsn"),
		PostgresDSN:    v.GetString("postgres_dsn"),
		MongoURI:       v.GetString("mongo_uri"),
		MongoDatabase:  v.GetString("mongo_database"),
		RedisAddr:      v.GetString("redis_addr"),
		RedisDB:        v.GetInt("redis_db"),
		RedisPass:      v.GetString("redis_password"),
		JWTSecret:      v.GetString("jwt_secret"),
		CORSOrigins:    splitList(v.GetString("cors_origins")),
		MaxResumeBytes: v.GetInt64("max_resume_bytes"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
		SwaggerHost:    v.GetString("swagger_host"),
		S3: S3Config{
			Endpoint:      v.GetString("s3_endpoint"),
			Region:        v.GetString("s3_region"),
			Bucket:        v.GetString("s3_bucket"),
			AccessKey:     v.GetString("s3_access_key"),
			SecretKey:     v.GetString("s3_secret_key"),
			PublicBaseURL: v.GetString("s3_public_base_url"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.ServerPort == "" {
		return errors.New("config: SERVER_PORT must not be empty")
	}
	if c.MaxResumeBytes <= 0 {
		return errors.New("config: MAX_RESUME_BYTES must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
