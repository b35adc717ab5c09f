package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Notification drivers. Postgres uses LISTEN/NOTIFY fed by a table trigger,
// redis relays inserts through pub/sub, memory stays in-process.
const (
	NotifyPostgres = "postgres"
	NotifyRedis    = "redis"
	NotifyMemory   = "memory"
)

type Config struct {
	AppPort string
	AppMode string

	StoreDriver  string
	NotifyDriver string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	NotifyChan string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string

	MessageRateLimit int
	LookupRateLimit  int
	PresenceTTLSec   int

	S3Region     string
	S3Bucket     string
	S3AccessKey  string
	S3SecretKey  string
	S3Endpoint   string
	S3PresignMin int

	SettingsDir string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:          getEnv("APP_PORT", "8080"),
		AppMode:          getEnv("APP_MODE", "debug"),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", StorePostgres)),
		NotifyDriver:     strings.ToLower(getEnv("NOTIFY_DRIVER", NotifyPostgres)),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "sea_u"),
		DBPort:           getEnv("DB_PORT", "5432"),
		NotifyChan:       getEnv("DB_NOTIFY_CHANNEL", "messages_inserted"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		JWTSecret:        getEnv("JWT_SECRET", "change-me"),
		JWTIssuer:        getEnv("JWT_ISSUER", ""),
		MessageRateLimit: getEnvAsInt("MESSAGE_RATE_LIMIT", 60),
		LookupRateLimit:  getEnvAsInt("LOOKUP_RATE_LIMIT", 20),
		PresenceTTLSec:   getEnvAsInt("PRESENCE_TTL_SEC", 300),
		S3Region:         getEnv("S3_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:      getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3PresignMin:     getEnvAsInt("S3_PRESIGN_MIN", 15),
		SettingsDir:      getEnv("SETTINGS_DIR", ""),
	}
}

// PostgresDSN builds the key/value connection string understood by both gorm and pgx.
func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable TimeZone=UTC"
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c *Config) S3Enabled() bool {
	return c.S3Region != "" && c.S3Bucket != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
