package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Telegram   TelegramConfig
	Keys       APIKeys
	Generation GenerationConfig
	Assets     AssetsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	JobLogFilePath     string
	CorsAllowedOrigins string
	JobTopicName       string
	AdminAPIKey        string
}

type TelegramConfig struct {
	Token          string
	AdminChatID    int64
	AllowedUserIDs []int64
	PollTimeout    int // seconds, long-poll timeout for getUpdates
}

type APIKeys struct {
	Replicate     string
	Kie           string
	AirtableToken string
	AirtableBase  string
	AirtableTable string
}

type GenerationConfig struct {
	TextMaxRetries  int
	ImageMaxRetries int
	RetryBackoff    time.Duration
	TextPollEvery   time.Duration
	TextMaxWait     time.Duration
	ImagePollEvery  time.Duration
	ImageMaxWait    time.Duration
	PostTemperature float64
}

type AssetsConfig struct {
	BackgroundImagePath string
	LogoPath            string
	BackgroundCacheFile string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			JobLogFilePath:     getEnv("JOB_LOG_FILE_PATH", "logs/jobs.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			JobTopicName:       getEnv("JOB_TOPIC_NAME", "GENERATION_JOBS"),
			AdminAPIKey:        getEnv("ADMIN_API_KEY", ""),
		},
		Telegram: TelegramConfig{
			Token:          getEnv("TELEGRAM_BOT_TOKEN", ""),
			AdminChatID:    getEnvAsInt64("ADMIN_CHAT_ID", 0),
			AllowedUserIDs: getEnvAsInt64List("ALLOWED_USER_IDS", ""),
			PollTimeout:    getEnvAsInt("TELEGRAM_POLL_TIMEOUT", 30),
		},
		Keys: APIKeys{
			Replicate:     getEnv("REPLICATE_API_KEY", ""),
			Kie:           getEnv("KIE_API_KEY", ""),
			AirtableToken: getEnv("AIRTABLE_API_TOKEN", ""),
			AirtableBase:  getEnv("AIRTABLE_BASE_ID", ""),
			AirtableTable: getEnv("AIRTABLE_TABLE_ID", ""),
		},
		Generation: GenerationConfig{
			TextMaxRetries:  getEnvAsInt("TEXT_GEN_MAX_RETRIES", 3),
			ImageMaxRetries: getEnvAsInt("IMAGE_GEN_MAX_RETRIES", 2),
			RetryBackoff:    getEnvAsDuration("GEN_RETRY_BACKOFF", 2*time.Second),
			TextPollEvery:   getEnvAsDuration("TEXT_POLL_INTERVAL", 2*time.Second),
			TextMaxWait:     getEnvAsDuration("TEXT_MAX_WAIT", 4*time.Minute),
			ImagePollEvery:  getEnvAsDuration("IMAGE_POLL_INTERVAL", 3*time.Second),
			ImageMaxWait:    getEnvAsDuration("IMAGE_MAX_WAIT", 5*time.Minute),
			PostTemperature: getEnvAsFloat("POST_TEMPERATURE", 1.0),
		},
		Assets: AssetsConfig{
			BackgroundImagePath: getEnv("BACKGROUND_IMAGE_PATH", "background/image2.jpg"),
			LogoPath:            getEnv("LOGO_PATH", "assets/logo.png"),
			BackgroundCacheFile: getEnv("BACKGROUND_CACHE_FILE", "background_urls.json"),
		},
	}

	if cfg.Telegram.Token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}
	if cfg.Keys.Replicate == "" {
		log.Fatal("REPLICATE_API_KEY is not set")
	}
	if cfg.Keys.Kie == "" {
		log.Fatal("KIE_API_KEY is not set")
	}

	return cfg
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

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsInt64List parses a comma-separated id list, skipping malformed entries.
func getEnvAsInt64List(key, fallback string) []int64 {
	raw := getEnv(key, fallback)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
