package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"ai-docchat-core/internal/constant"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Chat   ChatConfig
	Upload UploadConfig
	Ai     AIConfig
	Events EventsConfig
}

type AppConfig struct {
	Environment  string
	LogFilePath  string
	OtelEnabled  bool
	OtelEndpoint string
}

type ChatConfig struct {
	WelcomeMessage    string
	ErrorClearDelay   time.Duration
	MaxQuestionLength int
	RequireDisclaimer bool
	HighlightTerms    []string
}

type UploadConfig struct {
	MaxBytes int64
}

type AIConfig struct {
	QueryProvider     string // "mock" or "llm"
	LLMProvider       string // "ollama" or "huggingface"
	LLMBaseURL        string // empty selects the provider default
	LLMModel          string
	LLMAPIKey         string
	MockUploadLatency time.Duration
	MockQueryLatency  time.Duration
}

type EventsConfig struct {
	NatsURL string // empty disables the NATS mirror
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Environment:  getEnv("GO_ENV", "development"),
			LogFilePath:  getEnv("LOG_FILE_PATH", "logs/docchat.log"),
			OtelEnabled:  getEnv("OTEL_ENABLED", "false") == "true",
			OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Chat: ChatConfig{
			WelcomeMessage:    getEnv("WELCOME_MESSAGE", constant.DefaultWelcomeMessage),
			ErrorClearDelay:   getEnvAsDuration("ERROR_CLEAR_DELAY", 5*time.Second),
			MaxQuestionLength: getEnvAsInt("MAX_QUESTION_LENGTH", 500),
			RequireDisclaimer: getEnv("REQUIRE_DISCLAIMER", "true") != "false",
			HighlightTerms:    getEnvAsList("HIGHLIGHT_TERMS", constant.DefaultHighlightTerms),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", constant.MaxUploadBytes)),
		},
		Ai: AIConfig{
			QueryProvider:     getEnv("QUERY_PROVIDER", "mock"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			LLMAPIKey:         getEnv("LLM_API_KEY", ""),
			MockUploadLatency: getEnvAsDuration("MOCK_UPLOAD_LATENCY", 1500*time.Millisecond),
			MockQueryLatency:  getEnvAsDuration("MOCK_QUERY_LATENCY", 2000*time.Millisecond),
		},
		Events: EventsConfig{
			NatsURL: getEnv("NATS_URL", ""),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma separated value, dropping blank items.
func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, item := range strings.Split(strValue, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
