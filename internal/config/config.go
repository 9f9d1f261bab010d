// Package config handles application configuration.
//
// Values come from environment variables with sensible defaults. A local
// .env file, if present, is loaded first so development setups don't need
// to export anything. Variables already set in the environment win.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Language model providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    string
	GinMode string // "debug", "release", or "test"

	// Database settings. Empty disables extraction history and async jobs.
	DatabaseURL string

	// YouTube Data API
	YouTubeAPIKey  string
	YouTubeBaseURL string
	YouTubeRPS     float64 // requests per second; 0 disables the limiter

	// Language model
	LLMProvider   string // "openai" or "gemini"
	OpenAIAPIKey  string
	OpenAIBaseURL string // full chat completions endpoint
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string

	// Extraction heuristics
	MinDescriptionLength int
	MinTranscriptLength  int
	CallToActionPhrases  []string
	ExtractTimeout       time.Duration

	// Worker settings
	WorkerCount  int
	JobQueueSize int

	// Access control. An empty APIKey leaves the API open.
	APIKey           string
	RateLimitPerHour int

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from the environment after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Could not read .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		YouTubeAPIKey:  credential("YOUTUBE_API_KEY"),
		YouTubeBaseURL: getEnv("YOUTUBE_API_BASE_URL", "https://www.googleapis.com/youtube/v3"),
		YouTubeRPS:     getEnvFloat("YOUTUBE_RPS", 5),

		LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:  credential("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:  credential("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		MinDescriptionLength: getEnvInt("MIN_DESCRIPTION_LENGTH", 50),
		MinTranscriptLength:  getEnvInt("MIN_TRANSCRIPT_LENGTH", 50),
		CallToActionPhrases:  getEnvList("CALL_TO_ACTION_PHRASES", []string{"subscribe", "like and comment"}),
		ExtractTimeout:       getEnvDuration("EXTRACT_TIMEOUT", 90*time.Second),

		WorkerCount:  getEnvInt("WORKER_COUNT", 3),
		JobQueueSize: getEnvInt("JOB_QUEUE_SIZE", 100),

		APIKey:           credential("API_KEY"),
		RateLimitPerHour: getEnvInt("RATE_LIMIT_PER_HOUR", 100),

		AllowedOrigins: getEnvList("CORS_ORIGIN", []string{"http://localhost:5173"}),
	}

	switch cfg.LLMProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (want %q or %q)", cfg.LLMProvider, ProviderOpenAI, ProviderGemini)
	}

	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("WORKER_COUNT must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.ExtractTimeout <= 0 {
		return nil, fmt.Errorf("EXTRACT_TIMEOUT must be positive, got %s", cfg.ExtractTimeout)
	}

	// An open API in production is almost always a mistake.
	if cfg.GinMode == "release" && cfg.APIKey == "" {
		log.Println("⚠️  API_KEY is not set; the API is open to anyone who can reach it")
	}

	return cfg, nil
}

// YouTubeConfigured reports whether a usable YouTube Data API key is set.
func (c *Config) YouTubeConfigured() bool {
	return c.YouTubeAPIKey != ""
}

// LanguageModelConfigured reports whether the selected provider has a key.
func (c *Config) LanguageModelConfigured() bool {
	switch c.LLMProvider {
	case ProviderGemini:
		return c.GeminiAPIKey != ""
	default:
		return c.OpenAIAPIKey != ""
	}
}

// LanguageModelName describes the configured model, or "none".
func (c *Config) LanguageModelName() string {
	if !c.LanguageModelConfigured() {
		return "none"
	}
	if c.LLMProvider == ProviderGemini {
		return ProviderGemini + "/" + c.GeminiModel
	}
	return ProviderOpenAI + "/" + c.OpenAIModel
}

// IsPlaceholder reports whether a credential is empty or still the sample
// value shipped in .env.example (e.g. "your-openai-api-key-here").
func IsPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}
	return strings.HasPrefix(v, "your-") && strings.HasSuffix(v, "-here")
}

// credential reads a secret, treating placeholders as unset.
func credential(key string) string {
	v := strings.TrimSpace(getEnv(key, ""))
	if IsPlaceholder(v) {
		return ""
	}
	return v
}

// getEnv reads an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}

func getEnvFloat(key string, fallback float64) float64 {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return fallback
	}
	return val
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	if d, err := time.ParseDuration(str); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(str); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string, fallback []string) []string {
	str, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(str, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
