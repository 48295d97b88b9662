package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrEmptyEnvironmentVariable = errors.New("empty environment variable")
	ErrInvalidResponseProvider  = errors.New("invalid response provider")
)

const (
	ResponseProviderOpenAI = "openai"
	ResponseProviderGemini = "gemini"
)

// Config holds all application configuration
type Config struct {
	Telnyx     TelnyxConfig
	Services   ServicesConfig
	Generation GenerationConfig
	Voice      VoiceConfig
	Sessions   SessionConfig
	WorkerPool WorkerPoolConfig
	Server     ServerConfig
}

// TelnyxConfig holds call control provider settings
type TelnyxConfig struct {
	APIKey           string
	PublicKey        string // base64 ed25519 public key used to verify webhooks
	StreamURL        string
	APIBaseURL       string
	WebhookTolerance time.Duration
}

// ServicesConfig holds model/service credentials
type ServicesConfig struct {
	OpenAIAPIKey     string
	GoogleAIAPIKey   string
	ResponseProvider string
	AdapterTimeout   time.Duration
}

// GenerationConfig holds the fixed reply generation parameters.
type GenerationConfig struct {
	SystemPrompt     string
	ChatModel        string
	GeminiModel      string
	MaxTokens        int64
	Temperature      float64
	PresencePenalty  float64
	FrequencyPenalty float64
}

// VoiceConfig holds speech synthesis and stream framing settings
type VoiceConfig struct {
	TTSVoice     string
	GreetingText string
	StreamWindow time.Duration
}

// SessionConfig holds call session lifecycle settings
type SessionConfig struct {
	IdleTimeout   time.Duration // 0 disables idle eviction
	SweepInterval time.Duration
}

// WorkerPoolConfig holds worker pool configuration for turn processing
type WorkerPoolConfig struct {
	TurnWorkers   int
	TurnQueueSize int
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
}

const defaultSystemPrompt = "You are a helpful AI assistant handling a phone call. Keep responses concise, natural, and brief. Aim for responses under 15 words when possible."

// DefaultGenerationConfig returns the generation parameters used for live calls.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		SystemPrompt:     defaultSystemPrompt,
		ChatModel:        "gpt-4-turbo-preview",
		GeminiModel:      "gemini-1.5-flash",
		MaxTokens:        50,
		Temperature:      0.7,
		PresencePenalty:  0.6,
		FrequencyPenalty: 0.5,
	}
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	var err error
	if cfg.Telnyx.APIKey, err = requireEnv("TELNYX_API_KEY"); err != nil {
		return nil, err
	}
	if cfg.Telnyx.PublicKey, err = requireEnv("TELNYX_PUBLIC_KEY"); err != nil {
		return nil, err
	}
	cfg.Telnyx.StreamURL = os.Getenv("TELNYX_STREAM_URL")
	cfg.Telnyx.APIBaseURL = getEnvWithDefault("TELNYX_API_BASE_URL", "https://api.telnyx.com/v2")
	if cfg.Telnyx.WebhookTolerance, err = durationEnv("WEBHOOK_TOLERANCE", "5m"); err != nil {
		return nil, err
	}

	// Services configuration
	if cfg.Services.OpenAIAPIKey, err = requireEnv("OPENAI_API_KEY"); err != nil {
		return nil, err
	}
	cfg.Services.ResponseProvider = getEnvWithDefault("RESPONSE_PROVIDER", ResponseProviderOpenAI)
	switch cfg.Services.ResponseProvider {
	case ResponseProviderOpenAI:
	case ResponseProviderGemini:
		if cfg.Services.GoogleAIAPIKey, err = requireEnv("GOOGLE_AI_API_KEY"); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("RESPONSE_PROVIDER=%q: %w", cfg.Services.ResponseProvider, ErrInvalidResponseProvider)
	}
	if cfg.Services.AdapterTimeout, err = durationEnv("ADAPTER_TIMEOUT", "15s"); err != nil {
		return nil, err
	}

	// Generation configuration
	cfg.Generation = DefaultGenerationConfig()
	cfg.Generation.ChatModel = getEnvWithDefault("CHAT_MODEL", cfg.Generation.ChatModel)
	cfg.Generation.GeminiModel = getEnvWithDefault("GEMINI_MODEL", cfg.Generation.GeminiModel)

	// Voice configuration
	cfg.Voice.TTSVoice = getEnvWithDefault("TTS_VOICE", "alloy")
	cfg.Voice.GreetingText = getEnvWithDefault("GREETING_TEXT", "Hello! How can I help you today?")
	if cfg.Voice.StreamWindow, err = durationEnv("STREAM_WINDOW", "2s"); err != nil {
		return nil, err
	}

	// Session configuration
	if cfg.Sessions.IdleTimeout, err = durationEnv("SESSION_IDLE_TIMEOUT", "10m"); err != nil {
		return nil, err
	}
	if cfg.Sessions.SweepInterval, err = durationEnv("SESSION_SWEEP_INTERVAL", "1m"); err != nil {
		return nil, err
	}

	// Worker pool configuration
	if cfg.WorkerPool.TurnWorkers, err = intEnv("TURN_WORKERS", "8"); err != nil {
		return nil, err
	}
	if cfg.WorkerPool.TurnQueueSize, err = intEnv("TURN_QUEUE_SIZE", "64"); err != nil {
		return nil, err
	}

	// Server configuration
	if cfg.Server.Port, err = intEnv("PORT", "5000"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func intEnv(key, defaultValue string) (int, error) {
	value, err := strconv.Atoi(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return value, nil
}

func durationEnv(key, defaultValue string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return value, nil
}
