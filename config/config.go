package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Pipeline PipelineConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

// DatabaseConfig is optional: with neither DSN nor Host set, the service
// runs on the in-memory store.
type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// RedisConfig is optional: without an address, status events are not published.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PipelineConfig struct {
	// StageDelay is the synthetic latency of the built-in agents.
	StageDelay time.Duration
	// StageTimeout bounds a single agent stage invocation.
	StageTimeout time.Duration
	// StageAttempts is the total attempt budget per stage invocation.
	StageAttempts int
	// MaxRevisions is how many failing review verdicts restart generation.
	MaxRevisions int
	// RunTimeout bounds one whole pipeline run.
	RunTimeout time.Duration
	// StaleAfter is how long a mid-pipeline project may go unwritten before
	// the sweeper fails it.
	StaleAfter time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	ServiceName string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "multi_agent_design"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Pipeline: PipelineConfig{
			StageDelay:    getEnvAsDuration("PIPELINE_STAGE_DELAY", 2*time.Second),
			StageTimeout:  getEnvAsDuration("PIPELINE_STAGE_TIMEOUT", 60*time.Second),
			StageAttempts: getEnvAsInt("PIPELINE_STAGE_ATTEMPTS", 3),
			MaxRevisions:  getEnvAsInt("PIPELINE_MAX_REVISIONS", 2),
			RunTimeout:    getEnvAsDuration("PIPELINE_RUN_TIMEOUT", 10*time.Minute),
			StaleAfter:    getEnvAsDuration("PIPELINE_STALE_AFTER", 15*time.Minute),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			ServiceName: getEnv("SERVICE_NAME", "multi-agent-design-api"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Pipeline.StageAttempts < 1 {
		return fmt.Errorf("PIPELINE_STAGE_ATTEMPTS must be at least 1")
	}
	if c.Pipeline.MaxRevisions < 0 {
		return fmt.Errorf("PIPELINE_MAX_REVISIONS must not be negative")
	}
	return nil
}

// UseDatabase reports whether a Postgres store is configured.
func (c *Config) UseDatabase() bool {
	return c.Database.DSN != "" || c.Database.Host != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
