package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAPIURL         = "http://localhost:50051"
	DefaultDatabasePath   = "data/recipe-planner.db"
	DefaultRequestTimeout = 15 * time.Second
	DefaultPort           = "8080"
)

// Config holds the configuration for the application.
type Config struct {
	APIURL         string
	APIKey         string // optional "id:hexsecret" used to sign bearer tokens
	RequestTimeout time.Duration
	DatabasePath   string
	LogPath        string

	// LLM Config (optional, enables weekly suggestions)
	LLMProvider  string
	GeminiAPIKey string
	GroqAPIKey   string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	Port                   string

	// ConfigFile is the optional YAML file layered under the environment.
	ConfigFile string
}

// NewFromEnv creates a new Config object from environment variables. When
// CONFIG_FILE is set, the YAML file supplies defaults that the environment
// overrides.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		APIURL:         DefaultAPIURL,
		RequestTimeout: DefaultRequestTimeout,
		DatabasePath:   DefaultDatabasePath,
		Port:           DefaultPort,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
		fc.Apply(cfg)
	}

	if v := os.Getenv("COOKBOOK_API_URL"); v != "" {
		cfg.APIURL = v
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("COOKBOOK_API_URL environment variable not set")
	}

	if v := os.Getenv("COOKBOOK_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if cfg.APIKey != "" && len(strings.Split(cfg.APIKey, ":")) != 2 {
		return nil, fmt.Errorf("COOKBOOK_API_KEY must have the form id:secret")
	}

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.RequestTimeout = d
	}

	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("LOG_PATH"); v != "" {
		cfg.LogPath = v
	}

	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLMProvider = v
	}
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")

	// Telegram Config (Optional for CLI, required for Bot)
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramWebhookURL = os.Getenv("TELEGRAM_WEBHOOK_URL")
	if v := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); v != "" {
		ids, err := parseIDs(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
		}
		cfg.TelegramAllowedUserIDs = ids
	}
	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
		cfg.AdminTelegramID = id
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	return cfg, nil
}

// ValidateBot checks the settings the Telegram bot cannot run without.
func (c *Config) ValidateBot() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

// SuggestionsEnabled reports whether an LLM key is available.
func (c *Config) SuggestionsEnabled() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != ""
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
