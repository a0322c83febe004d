package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var configEnvKeys = []string{
	"CONFIG_FILE", "COOKBOOK_API_URL", "COOKBOOK_API_KEY", "REQUEST_TIMEOUT",
	"DATABASE_PATH", "LOG_PATH", "LLM_PROVIDER", "GEMINI_API_KEY", "GROQ_API_KEY",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL", "TELEGRAM_ALLOWED_USER_IDS",
	"ADMIN_TELEGRAM_ID", "PORT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.APIURL != DefaultAPIURL {
			t.Errorf("Expected APIURL to be '%s', got '%s'", DefaultAPIURL, cfg.APIURL)
		}
		if cfg.RequestTimeout != DefaultRequestTimeout {
			t.Errorf("Expected RequestTimeout %v, got %v", DefaultRequestTimeout, cfg.RequestTimeout)
		}
		if cfg.DatabasePath != DefaultDatabasePath {
			t.Errorf("Expected DatabasePath '%s', got '%s'", DefaultDatabasePath, cfg.DatabasePath)
		}
		if cfg.SuggestionsEnabled() {
			t.Error("Expected suggestions to be disabled without LLM keys")
		}
	})

	t.Run("Success", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COOKBOOK_API_URL", "http://cookbooks.test/")
		t.Setenv("COOKBOOK_API_KEY", "kid:abcd")
		t.Setenv("REQUEST_TIMEOUT", "3s")
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "11, 22,")
		t.Setenv("ADMIN_TELEGRAM_ID", "11")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.APIURL != "http://cookbooks.test" {
			t.Errorf("Expected trailing slash to be trimmed, got '%s'", cfg.APIURL)
		}
		if cfg.APIKey != "kid:abcd" {
			t.Errorf("Expected APIKey 'kid:abcd', got '%s'", cfg.APIKey)
		}
		if cfg.RequestTimeout != 3*time.Second {
			t.Errorf("Expected 3s timeout, got %v", cfg.RequestTimeout)
		}
		if !reflect.DeepEqual(cfg.TelegramAllowedUserIDs, []int64{11, 22}) {
			t.Errorf("Unexpected allowed IDs: %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 11 {
			t.Errorf("Expected admin 11, got %d", cfg.AdminTelegramID)
		}
		if !cfg.SuggestionsEnabled() {
			t.Error("Expected suggestions to be enabled")
		}
	})

	t.Run("InvalidTimeout", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REQUEST_TIMEOUT", "soon")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid REQUEST_TIMEOUT, got nil")
		}
		if !strings.Contains(err.Error(), "REQUEST_TIMEOUT") {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("MalformedAPIKey", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COOKBOOK_API_KEY", "no-separator")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for malformed COOKBOOK_API_KEY, got nil")
		}
		expectedError := "COOKBOOK_API_KEY must have the form id:secret"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("InvalidAllowedIDs", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12,abc")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for non-numeric user ID, got nil")
		}
	})

	t.Run("FileUnderEnv", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "planner.yaml")
		yamlData := strings.TrimSpace(`
api:
  url: http://from-file:9000
  timeout: 7s
database:
  path: /tmp/file.db
llm:
  provider: groq
`)
		if err := os.WriteFile(path, []byte(yamlData), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("CONFIG_FILE", path)
		t.Setenv("DATABASE_PATH", "/tmp/env.db")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.APIURL != "http://from-file:9000" {
			t.Errorf("Expected APIURL from file, got '%s'", cfg.APIURL)
		}
		if cfg.RequestTimeout != 7*time.Second {
			t.Errorf("Expected 7s from file, got %v", cfg.RequestTimeout)
		}
		if cfg.DatabasePath != "/tmp/env.db" {
			t.Errorf("Expected env to win for DatabasePath, got '%s'", cfg.DatabasePath)
		}
		if cfg.LLMProvider != "groq" {
			t.Errorf("Expected provider groq, got '%s'", cfg.LLMProvider)
		}
	})
}

func TestValidateBot(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateBot(); err == nil || err.Error() != "TELEGRAM_BOT_TOKEN environment variable not set" {
		t.Errorf("Unexpected error: %v", err)
	}
	cfg.TelegramBotToken = "token"
	if err := cfg.ValidateBot(); err == nil || err.Error() != "TELEGRAM_WEBHOOK_URL environment variable not set" {
		t.Errorf("Unexpected error: %v", err)
	}
	cfg.TelegramWebhookURL = "https://bot.test/webhook"
	if err := cfg.ValidateBot(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing", func(t *testing.T) {
		fc, err := LoadFile(filepath.Join(dir, "absent.yaml"))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if fc.API.URL != "" {
			t.Errorf("Expected empty config, got %+v", fc)
		}
	})

	t.Run("BadTimeout", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("api:\n  timeout: later\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Fatal("Expected an error for invalid timeout")
		}
	})

	t.Run("BadYAML", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		if err := os.WriteFile(path, []byte("api: [unclosed"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Fatal("Expected a parse error")
		}
	})
}

func TestWatchReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.yaml")
	if err := os.WriteFile(path, []byte("api:\n  url: http://before\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(fc *FileConfig) {
			select {
			case changes <- fc.API.URL:
			default:
			}
		})
	}()

	// The watcher starts asynchronously, so keep writing until it notices.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case url := <-changes:
			if url != "http://after" {
				continue
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch returned error: %v", err)
			}
			return
		case <-ticker.C:
			if err := os.WriteFile(path, []byte("api:\n  url: http://after\n"), 0644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for config change")
		}
	}
}
