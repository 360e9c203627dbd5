package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every environment-derived setting the service reads at
// startup. Field names match the teacher's getEnv/getEnvAsInt/getEnvAsBool
// helper pattern; the surface itself is scoped to this service instead
// of carrying the full CRM configuration surface.
type Config struct {
	AppPort  string
	LogLevel string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	AIQueryURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	RateLimitEnabled bool
	RateLimitRPS     int
	RateLimitBurst   int

	ReloadInterval string

	CORSAllowedOrigins []string
}

// Load reads environment variables (after trying .env.development, then
// .env.test) into a Config. DB_HOST_PYTHON/DB_USER_PYTHON/DB_PASSWORD_PYTHON/
// DB_NAME_PYTHON are required; everything else has a default, including
// DB_PORT_PYTHON (3306), whose absence is not reported as an error.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.development"); err != nil {
		_ = godotenv.Load(".env.test")
	}

	cfg := &Config{
		AppPort:  getEnv("PORT", "5001"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		DBHost:     getEnv("DB_HOST_PYTHON", ""),
		DBUser:     getEnv("DB_USER_PYTHON", ""),
		DBPassword: getEnv("DB_PASSWORD_PYTHON", ""),
		DBName:     getEnv("DB_NAME_PYTHON", ""),
		DBPort:     getEnv("DB_PORT_PYTHON", "3306"),

		AIQueryURL: getEnv("V50MCP_AI_QUERY_API_URL", ""),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		RateLimitEnabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
		RateLimitRPS:     getEnvAsInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst:   getEnvAsInt("RATE_LIMIT_BURST", 40),

		ReloadInterval: getEnv("RELOAD_INTERVAL", "@every 5m"),

		CORSAllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
	}

	var missing []string
	for name, v := range map[string]string{
		"DB_HOST_PYTHON":     cfg.DBHost,
		"DB_USER_PYTHON":     cfg.DBUser,
		"DB_PASSWORD_PYTHON": cfg.DBPassword,
		"DB_NAME_PYTHON":     cfg.DBName,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// DSN builds the go-sql-driver/mysql data source name gorm.Open expects.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local&timeout=30s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
