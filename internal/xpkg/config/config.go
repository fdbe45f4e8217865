package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       *Postgres
	RMQ      *RabbitMQ
	Telegram *Telegram
	Business *Business
	Session  *Session
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type RabbitMQ struct {
	User     string
	Password string
	Host     string
	Port     string
	VHost    string
}

type Telegram struct {
	BotToken    string
	AdminChatID string
}

type Business struct {
	Name    string
	Phone   string
	Address string
	Hours   string
}

type Session struct {
	TTLMinutes int
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables always win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "30"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_MINUTES must be a positive integer")
	}

	cfg := &Config{
		DB: &Postgres{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "orders"),
		},
		RMQ: &RabbitMQ{
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
			VHost:    getEnv("RABBITMQ_VHOST", "/"),
		},
		Telegram: &Telegram{
			BotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
			AdminChatID: os.Getenv("ADMIN_CHAT_ID"),
		},
		Business: &Business{
			Name:    getEnv("BUSINESS_NAME", "Mi Negocio"),
			Phone:   getEnv("BUSINESS_PHONE", "+5491112345678"),
			Address: getEnv("BUSINESS_ADDRESS", "Av. Principal 1234, Ciudad"),
			Hours:   getEnv("BUSINESS_HOURS", "Lunes a Viernes: 9:00 - 20:00\nSábados: 10:00 - 18:00\nDomingos: Cerrado"),
		},
		Session: &Session{TTLMinutes: ttl},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
