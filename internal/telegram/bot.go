package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"recipe-planner/internal/app"
	"recipe-planner/internal/config"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers messages to Telegram. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot serves the planner over a Telegram webhook. Every chat gets its own
// session so plans never leak between chats.
type Bot struct {
	api          Sender
	app          *app.App
	metricsStore *metrics.Store
	cfg          *config.Config
	timeout      time.Duration

	mu       sync.Mutex
	sessions map[int64]*app.App

	wg sync.WaitGroup
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, a *app.App, metricsStore *metrics.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return newBot(api, cfg, a, metricsStore), nil
}

func newBot(api Sender, cfg *config.Config, a *app.App, metricsStore *metrics.Store) *Bot {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	return &Bot{
		api:          api,
		app:          a,
		metricsStore: metricsStore,
		cfg:          cfg,
		timeout:      timeout,
		sessions:     make(map[int64]*app.App),
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Wait blocks until every message that is being processed has been answered.
func (b *Bot) Wait() {
	b.wg.Wait()
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("Error parsing update: %v", err)
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	if !b.allowed(msg.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", msg.From.ID, msg.From.UserName)
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.processMessage(msg)
	}()
}

func (b *Bot) allowed(userID int64) bool {
	if userID == b.cfg.AdminTelegramID && userID != 0 {
		return true
	}
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

// sessionFor returns the App bound to chatID, creating its session on first
// use.
func (b *Bot) sessionFor(chatID int64) *app.App {
	b.mu.Lock()
	defer b.mu.Unlock()

	if a, ok := b.sessions[chatID]; ok {
		return a
	}
	sess := session.New()
	sess.SetUser(fmt.Sprintf("telegram:%d", chatID))
	a := b.app.WithSession(sess)
	b.sessions[chatID] = a
	return a
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// Suggestions can take a while; show progress and edit it in place.
	if msg.Command() == "suggest" {
		placeholder := tgbotapi.NewMessage(chatID, "🧑‍🍳 *Thinking...* \n(Picking recipes for the open days)")
		placeholder.ParseMode = tgbotapi.ModeMarkdown
		sent, err := b.api.Send(placeholder)
		if err != nil {
			log.Printf("Failed to send initial reply: %v", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		text := b.reply(ctx, msg)

		edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, text)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("Failed to edit reply: %v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	reply := tgbotapi.NewMessage(chatID, b.reply(ctx, msg))
	reply.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("Failed to send reply to chat %d: %v", chatID, err)
	}
}

func (b *Bot) dataDir() string {
	return filepath.Dir(b.cfg.DatabasePath)
}
