package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	App        AppConfig
	AccountsDB DatabaseConfig
	LedgerDB   DatabaseConfig
	JWT        JWTConfig
	AI         AIConfig
	Insights   InsightsConfig
	Scheduler  SchedulerConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AppConfig struct {
	Version         string
	LocalRoutingNum string
}

// DatabaseConfig describes one postgres store. URI wins over the discrete fields.
type DatabaseConfig struct {
	URI      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	PublicKeyPath string
}

type AIConfig struct {
	Provider   string // gigachat or anthropic
	MaxRetries int
	GigaChat   GigaChatConfig
	Anthropic  AnthropicConfig
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type InsightsConfig struct {
	ExpiryDays int
	MaxPerUser int
}

type SchedulerConfig struct {
	Enabled           bool
	DailyInsightsSpec string
}

const (
	ProviderGigaChat  = "gigachat"
	ProviderAnthropic = "anthropic"
)

func Load() (*Config, error) {
	// .env is optional, plain environment variables work for Docker/K8s
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout := getEnvInt("SERVER_READ_TIMEOUT", 30)
	writeTimeout := getEnvInt("SERVER_WRITE_TIMEOUT", 60)

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		App: AppConfig{
			Version:         getEnv("VERSION", "v0.1.0"),
			LocalRoutingNum: getEnv("LOCAL_ROUTING_NUM", ""),
		},
		AccountsDB: loadDatabase("ACCOUNTS_DB", "accounts-db"),
		LedgerDB:   loadDatabase("LEDGER_DB", "postgresdb"),
		JWT: JWTConfig{
			PublicKeyPath: getEnv("PUB_KEY_PATH", "/etc/secrets/jwtRS256.key.pub"),
		},
		AI: AIConfig{
			Provider:   strings.ToLower(getEnv("AI_PROVIDER", ProviderGigaChat)),
			MaxRetries: getEnvInt("MAX_RETRIES", 1),
			GigaChat: GigaChatConfig{
				APIKey:             getEnv("GIGACHAT_API_KEY", ""),
				Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
				Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
				InsecureSkipVerify: getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true",
			},
			Anthropic: AnthropicConfig{
				APIKey: getEnv("ANTHROPIC_API_KEY", ""),
				Model:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
			},
		},
		Insights: InsightsConfig{
			ExpiryDays: getEnvInt("INSIGHT_EXPIRY_DAYS", 7),
			MaxPerUser: getEnvInt("MAX_INSIGHTS_PER_USER", 50),
		},
		Scheduler: SchedulerConfig{
			Enabled:           getEnv("SCHEDULER_ENABLED", "true") == "true",
			DailyInsightsSpec: getEnv("DAILY_INSIGHTS_CRON", "0 6 * * *"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func loadDatabase(prefix, defaultDB string) DatabaseConfig {
	return DatabaseConfig{
		URI:      getEnv(prefix+"_URI", ""),
		Host:     getEnv(prefix+"_HOST", "localhost"),
		Port:     getEnv(prefix+"_PORT", "5432"),
		User:     getEnv(prefix+"_USER", "postgres"),
		Password: getEnv(prefix+"_PASSWORD", "postgres"),
		DBName:   getEnv(prefix+"_NAME", defaultDB),
		SSLMode:  getEnv(prefix+"_SSLMODE", "disable"),
		MaxConns: int32(getEnvInt(prefix+"_MAX_CONNS", 10)),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}
