package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppMode string

	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret string
	JWTIssuer string

	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              int
	RateLimitWrites      int
	RateLimitWriteWindow time.Duration

	CORSAllowedOrigins []string

	Kafka KafkaConfig
}

// KafkaConfig mirrors the broker settings of both the producer and the tenant events consumer.
type KafkaConfig struct {
	BootstrapServers          []string
	ClientID                  string
	ConsumerGroupID           string
	TenantEventsTopic         string
	ServiceCatalogEventsTopic string
	SecurityProtocol          string
	SASLMechanism             string
	SASLUsername              string
	SASLPassword              string
	Acks                      string
	EnableIdempotence         bool
	MessageTimeout            time.Duration
	RequestTimeout            time.Duration
	AutoOffsetReset           string
	ConsumerRetryBackoff      time.Duration
}

// TenantEventsGroupID is the consumer group used for the tenant events subscription.
func (k KafkaConfig) TenantEventsGroupID() string {
	return k.ConsumerGroupID + "-tenant-events"
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "8080"),
		AppMode: getEnv("APP_MODE", "debug"),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "service_catalog"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),

		JWTSecret: getEnv("JWT_SECRET_KEY", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "user-service"),

		RedisHost:            getEnv("REDIS_HOST", "localhost"),
		RedisPort:            getEnv("REDIS_PORT", "6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		RateLimitWrites:      getEnvAsInt("RATE_LIMIT_WRITES_PER_MINUTE", 60),
		RateLimitWriteWindow: time.Minute,

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		Kafka: KafkaConfig{
			BootstrapServers:          getEnvAsSlice("KAFKA_BOOTSTRAP_SERVERS", []string{"localhost:9092"}),
			ClientID:                  getEnv("KAFKA_CLIENT_ID", "service-catalog"),
			ConsumerGroupID:           getEnv("KAFKA_CONSUMER_GROUP_ID", "service-catalog"),
			TenantEventsTopic:         getEnv("KAFKA_TENANT_EVENTS_TOPIC", "TenantEvents"),
			ServiceCatalogEventsTopic: getEnv("KAFKA_SERVICE_CATALOG_EVENTS_TOPIC", "ServiceCatalogEvents"),
			SecurityProtocol:          getEnv("KAFKA_SECURITY_PROTOCOL", "PLAINTEXT"),
			SASLMechanism:             getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:              getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:              getEnv("KAFKA_SASL_PASSWORD", ""),
			Acks:                      getEnv("KAFKA_ACKS", "all"),
			EnableIdempotence:         getEnvAsBool("KAFKA_ENABLE_IDEMPOTENCE", true),
			MessageTimeout:            getEnvAsMillis("KAFKA_MESSAGE_TIMEOUT_MS", 5000),
			RequestTimeout:            getEnvAsMillis("KAFKA_REQUEST_TIMEOUT_MS", 3000),
			AutoOffsetReset:           getEnv("KAFKA_AUTO_OFFSET_RESET", "earliest"),
			ConsumerRetryBackoff:      getEnvAsMillis("KAFKA_CONSUMER_RETRY_BACKOFF_MS", 2000),
		},
	}
}

// Validate reports settings the process cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if len(c.Kafka.BootstrapServers) == 0 {
		errs = append(errs, errors.New("KAFKA_BOOTSTRAP_SERVERS is required"))
	}
	if c.Kafka.TenantEventsTopic == "" || c.Kafka.ServiceCatalogEventsTopic == "" {
		errs = append(errs, errors.New("kafka topics are required"))
	}
	return errors.Join(errs...)
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

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Millisecond
}

func getEnvAsSlice(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
