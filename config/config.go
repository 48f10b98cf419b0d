// Package config loads webhook configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration.
type Config struct {
	Server     ServerConfig
	OpenAI     OpenAIConfig
	Reply      ReplyConfig
	Transcript TranscriptConfig
}

type ServerConfig struct {
	Port string
}

type OpenAIConfig struct {
	APIKey      string // empty is allowed; completion calls then fail and fall back
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type ReplyConfig struct {
	HistoryLimit     int    // turns kept per sender
	MaxLength        int    // characters per outbound SMS
	SystemPromptFile string // optional; built-in prompt when empty
	FallbackReply    string // optional override
	AckReply         string // optional override
}

type TranscriptConfig struct {
	Brokers []string // empty disables publishing
	Topic   string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: getEnvFloat("COMPLETION_TEMPERATURE", 0.4),
			MaxTokens:   getEnvInt("COMPLETION_MAX_TOKENS", 120),
			Timeout:     getEnvDuration("COMPLETION_TIMEOUT", 10*time.Second),
		},
		Reply: ReplyConfig{
			HistoryLimit:     getEnvInt("HISTORY_LIMIT", 8),
			MaxLength:        getEnvInt("SMS_MAX_LENGTH", 300),
			SystemPromptFile: getEnv("SYSTEM_PROMPT_FILE", ""),
			FallbackReply:    getEnv("FALLBACK_REPLY", ""),
			AckReply:         getEnv("ACK_REPLY", ""),
		},
		Transcript: TranscriptConfig{
			Brokers: getEnvList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TRANSCRIPT_TOPIC", "sms-transcripts"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("10s", "1500ms") or a bare
// number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
