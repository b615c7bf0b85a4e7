package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"case-callback/internal/observability"

	"github.com/joho/godotenv"
)

type Config struct {
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Consumer ConsumerConfig
	Producer ProducerConfig
	Database DatabaseConfig
}

type KafkaConfig struct {
	Brokers []string
}

type LoggingConfig struct {
	Level string
}

type ConsumerConfig struct {
	Topic         string
	GroupID       string
	Workers       int
	MaxAttempts   int
	FetchMinBytes int
	FetchMaxBytes int
}

type ProducerConfig struct {
	CallbackTopic     string
	NotificationTopic string
	DocumentTopic     string
	Acks              int
	Retries           int
	Idempotent        bool
}

type DatabaseConfig struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// Addr returns host:port for the database connection.
func (d DatabaseConfig) Addr() string {
	return d.Host + ":" + d.Port
}

// Load reads the environment, after merging in a .env file when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		observability.GetLogger().Warn(".env file not found, using process environment")
	}
	return &Config{
		Kafka: KafkaConfig{
			Brokers: parseBrokers(getEnv("KAFKA_BROKERS", "localhost:9092")),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Consumer: ConsumerConfig{
			Topic:         getEnv("KAFKA_CONSUMER_TOPIC", "case-events"),
			GroupID:       getEnv("KAFKA_CONSUMER_GROUP_ID", "case-callback-group"),
			Workers:       getEnvInt("KAFKA_CONSUMER_WORKERS", 5),
			MaxAttempts:   getEnvInt("CALLBACK_MAX_ATTEMPTS", 3),
			FetchMinBytes: getEnvInt("KAFKA_CONSUMER_FETCH_MIN_BYTES", 1024),
			FetchMaxBytes: getEnvInt("KAFKA_CONSUMER_FETCH_MAX_BYTES", 10485760),
		},
		Producer: ProducerConfig{
			CallbackTopic:     getEnv("KAFKA_CONSUMER_TOPIC", "case-events"),
			NotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "case-notifications"),
			DocumentTopic:     getEnv("KAFKA_DOCUMENT_TOPIC", "case-documents"),
			Acks:              parseAcks(getEnv("KAFKA_PRODUCER_ACKS", "all")),
			Retries:           getEnvInt("KAFKA_PRODUCER_RETRIES", 3),
			Idempotent:        getEnvBool("KAFKA_PRODUCER_IDEMPOTENT", true),
		},
		Database: DatabaseConfig{
			Host: getEnv("DB_HOST", "localhost"),
			Port: getEnv("DB_PORT", "5432"),
			User: getEnv("DB_USER", "postgres"),
			Pass: os.Getenv("DB_PASS"),
			Name: getEnv("DB_NAME", "cases"),
		},
	}
}

// Validate checks the settings the consumer cannot start without.
func (c *Config) Validate() error {
	if len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS cannot be empty")
	}
	if c.Consumer.Topic == "" {
		return errors.New("KAFKA_CONSUMER_TOPIC cannot be empty")
	}
	if c.Consumer.GroupID == "" {
		return errors.New("KAFKA_CONSUMER_GROUP_ID cannot be empty")
	}
	if c.Consumer.MaxAttempts < 1 {
		return fmt.Errorf("CALLBACK_MAX_ATTEMPTS must be positive, got %d", c.Consumer.MaxAttempts)
	}
	if c.Consumer.Workers < 1 {
		return fmt.Errorf("KAFKA_CONSUMER_WORKERS must be positive, got %d", c.Consumer.Workers)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	result := make([]string, 0, len(parts))
	for _, broker := range parts {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseAcks(acks string) int {
	switch strings.ToLower(acks) {
	case "all", "-1":
		return -1
	case "0":
		return 0
	case "1":
		return 1
	default:
		return -1 // default to all
	}
}
