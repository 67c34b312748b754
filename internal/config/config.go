package config

import "os"

// Config holds the environment-driven settings shared by the binaries.
type Config struct {
	Port     string
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig

	// Base URL of the skills service, e.g. http://localhost:9092/skills.
	SkillServiceURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Broker string
}

// Load reads the configuration from environment variables, applying
// defaults for local development.
func Load(defaultPort string) Config {
	return Config{
		Port: getEnv("PORT", defaultPort),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ems"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr: os.Getenv("REDIS_ADDR"),
		},
		Kafka: KafkaConfig{
			Broker: os.Getenv("KAFKA_BROKER"),
		},
		SkillServiceURL: getEnv("SKILL_SERVICE_URL", "http://localhost:9092/skills"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
