package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type ManyChatConfig struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
}

type MetaConfig struct {
	BaseURL       string
	PixelID       string
	AccessToken   string
	TestEventCode string
}

type PlacesConfig struct {
	BaseURL string
	APIKey  string
}

type TrelloConfig struct {
	BaseURL string
	APIKey  string
	Token   string
	ListID  string
}

type Config struct {
	Environment    string
	ServerPort     string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string
	JWTSecret      string
	RabbitMQURL    string

	// WebhookRateLimit is the number of webhook calls allowed per IP and minute.
	WebhookRateLimit int
	ReminderInterval time.Duration

	Database DatabaseConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	ManyChat ManyChatConfig
	Meta     MetaConfig
	Places   PlacesConfig
	Trello   TrelloConfig
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		WebhookRateLimit: getEnvAsInt("WEBHOOK_RATE_LIMIT", 60),
		ReminderInterval: getEnvAsDuration("REMINDER_INTERVAL", time.Minute),
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("MAIL_HOST", ""),
			Port:     getEnvAsInt("MAIL_PORT", 587),
			User:     getEnv("MAIL_USER", ""),
			Password: getEnv("MAIL_PASS", ""),
			From:     getEnv("MAIL_FROM", "no-reply@localhost"),
		},
		ManyChat: ManyChatConfig{
			BaseURL:       getEnv("MANYCHAT_BASE_URL", ""),
			APIKey:        getEnv("MANYCHAT_API_KEY", ""),
			WebhookSecret: getEnv("MANYCHAT_WEBHOOK_SECRET", ""),
		},
		Meta: MetaConfig{
			BaseURL:       getEnv("META_GRAPH_URL", ""),
			PixelID:       getEnv("META_PIXEL_ID", ""),
			AccessToken:   getEnv("META_ACCESS_TOKEN", ""),
			TestEventCode: getEnv("META_TEST_EVENT_CODE", ""),
		},
		Places: PlacesConfig{
			BaseURL: getEnv("GOOGLE_PLACES_URL", ""),
			APIKey:  getEnv("GOOGLE_PLACES_API_KEY", ""),
		},
		Trello: TrelloConfig{
			BaseURL: getEnv("TRELLO_BASE_URL", ""),
			APIKey:  getEnv("TRELLO_API_KEY", ""),
			Token:   getEnv("TRELLO_TOKEN", ""),
			ListID:  getEnv("TRELLO_LIST_ID", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Environment == "production" && c.ManyChat.WebhookSecret == "" {
		errs = append(errs, errors.New("MANYCHAT_WEBHOOK_SECRET is required in production"))
	}
	return errors.Join(errs...)
}

// Warnings lists settings that are legal outside production but unsafe.
func (c *Config) Warnings() []string {
	var out []string
	if c.ManyChat.WebhookSecret == "" {
		out = append(out, "MANYCHAT_WEBHOOK_SECRET is not set; the ManyChat webhook accepts unauthenticated calls")
	}
	return out
}

func (c *Config) MetaEnabled() bool   { return c.Meta.PixelID != "" && c.Meta.AccessToken != "" }
func (c *Config) TrelloEnabled() bool { return c.Trello.APIKey != "" && c.Trello.Token != "" && c.Trello.ListID != "" }
func (c *Config) SMTPEnabled() bool   { return c.SMTP.Host != "" }

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
