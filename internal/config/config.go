package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	Ai       AIConfig
	Intake   IntakeConfig
	Notify   NotifyConfig
	Otel     OtelConfig
}

type AppConfig struct {
	Port                    string
	BaseURL                 string
	Environment             string
	LogFilePath             string
	EventLogFilePath        string
	NotificationLogFilePath string
	CorsAllowedOrigins      string
	NatsURL                 string
	RedisURL                string
	UploadDir               string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JWTSecret string
	JWTTTL    time.Duration
}

type AIConfig struct {
	LLMProvider   string // "rules", "ollama" or "openai"
	LLMModel      string
	OllamaBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	SpeechURL     string
}

type IntakeConfig struct {
	OracleTimeout time.Duration
	SpeechTimeout time.Duration
	// MaterializeBudget covers the case insert and document rendering on
	// the completing transition.
	MaterializeBudget time.Duration
	SessionTTL        time.Duration
	SweepInterval     time.Duration
	SessionStore      string // "postgres" or "memory"
	DomainsFile       string
}

type NotifyConfig struct {
	EmailProvider string // "smtp", "ses" or "" to disable email
	SESSender     string
	SNSEnabled    bool
	SMSSenderID   string
	AWSRegion     string
}

type OtelConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                    getEnv("APP_PORT", "3000"),
			BaseURL:                 getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:             getEnv("GO_ENV", "development"),
			LogFilePath:             getEnv("LOG_FILE_PATH", "app.log"),
			EventLogFilePath:        getEnv("EVENT_LOG_FILE_PATH", "events.log"),
			NotificationLogFilePath: getEnv("NOTIFICATION_LOG_FILE_PATH", "logs/notification.log"),
			CorsAllowedOrigins:      getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:                 getEnv("NATS_URL", ""),
			RedisURL:                getEnv("REDIS_URL", ""),
			UploadDir:               getEnv("UPLOAD_DIR", "uploads"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Legal Desk Assistant"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTTTL:    getEnvAsDuration("JWT_TTL", 7*24*time.Hour),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "rules"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			SpeechURL:     getEnv("SPEECH_URL", ""),
		},
		Intake: IntakeConfig{
			OracleTimeout:     getEnvAsDuration("INTAKE_ORACLE_TIMEOUT", 20*time.Second),
			SpeechTimeout:     getEnvAsDuration("INTAKE_SPEECH_TIMEOUT", 60*time.Second),
			MaterializeBudget: getEnvAsDuration("INTAKE_MATERIALIZE_BUDGET", 30*time.Second),
			SessionTTL:        getEnvAsDuration("INTAKE_SESSION_TTL", 2*time.Hour),
			SweepInterval:     getEnvAsDuration("INTAKE_SWEEP_INTERVAL", 5*time.Minute),
			SessionStore:      getEnv("SESSION_STORE", "postgres"),
			DomainsFile:       getEnv("INTAKE_DOMAINS_FILE", "configs/domains.yaml"),
		},
		Notify: NotifyConfig{
			EmailProvider: getEnv("EMAIL_PROVIDER", "smtp"),
			SESSender:     getEnv("SES_SENDER", ""),
			SNSEnabled:    getEnvAsBool("SNS_ENABLED", false),
			SMSSenderID:   getEnv("SMS_SENDER_ID", "LEGALDSK"),
			AWSRegion:     getEnv("AWS_REGION", "ap-south-1"),
		},
		Otel: OtelConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("20s", "2h").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}

// LockTTL is the longest a single session transition may take: speech
// recognition, then the oracle, then materialization.
func (c IntakeConfig) LockTTL() time.Duration {
	return c.SpeechTimeout + c.OracleTimeout + c.MaterializeBudget
}
