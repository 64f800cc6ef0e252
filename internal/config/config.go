package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds all process-wide settings. It is built once in main and
// passed by reference; nothing mutates it afterwards.
type Config struct {
	ServerPort string `yaml:"server_port"`

	DbHost     string `yaml:"db_host"`
	DbPort     string `yaml:"db_port"`
	DbUser     string `yaml:"db_user"`
	DbPassword string `yaml:"db_password"`
	DbName     string `yaml:"db_name"`

	JwtSecret   string        `yaml:"jwt_secret"`
	Issuer      string        `yaml:"issuer"`
	TokenExpiry time.Duration `yaml:"token_expiry"`

	DefaultQuotaHours float64 `yaml:"default_quota_hours"`
	RunnerWorkers     int     `yaml:"runner_workers"`

	MinioEndpoint  string `yaml:"minio_endpoint"`
	MinioAccessKey string `yaml:"minio_access_key"`
	MinioSecretKey string `yaml:"minio_secret_key"`
	MinioUseSSL    bool   `yaml:"minio_use_ssl"`
	MinioBucket    string `yaml:"minio_bucket"`
}

// Load reads settings from the environment (and .env if present). If
// CONFIG_FILE points at a YAML file, its values override the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		DbHost:            getEnv("DB_HOST", "localhost"),
		DbPort:            getEnv("DB_PORT", "5432"),
		DbUser:            getEnv("DB_USER", "gpu_user"),
		DbPassword:        getEnv("DB_PASSWORD", "gpu_password"),
		DbName:            getEnv("DB_NAME", "gpu_service"),
		JwtSecret:         getEnv("JWT_SECRET", "change_this_in_production"),
		Issuer:            getEnv("ISSUER", "gpuaas"),
		TokenExpiry:       time.Duration(getEnvInt("TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
		DefaultQuotaHours: getEnvFloat("DEFAULT_QUOTA_HOURS", 10.0),
		RunnerWorkers:     getEnvInt("RUNNER_WORKERS", 4),
		MinioEndpoint:     getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:    getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:    getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:       getEnv("MINIO_BUCKET", "job-data"),
	}
	cfg.MinioUseSSL, _ = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read config file %s: %v", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Failed to parse config file %s: %v", path, err)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return fallback
}
