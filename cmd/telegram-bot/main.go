package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-planner/internal/app"
	"recipe-planner/internal/config"
	"recipe-planner/internal/cookbookapi"
	"recipe-planner/internal/database"
	"recipe-planner/internal/history"
	"recipe-planner/internal/llm"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/preview"
	"recipe-planner/internal/suggest"
	"recipe-planner/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateBot(); err != nil {
		log.Fatalf("Invalid bot config: %v", err)
	}

	ctx := context.Background()

	// 2. Storage
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)
	svc := app.Services{
		History:   history.NewRepository(db.SQL),
		Metrics:   metricsStore,
		Previewer: preview.NewFetcher(cfg.RequestTimeout),
	}

	// 3. Optional LLM for /suggest
	textGen, err := llm.NewTextGenerator(ctx, cfg)
	switch {
	case errors.Is(err, llm.ErrNoProvider):
		log.Printf("No LLM key configured, /suggest is disabled")
	case err != nil:
		log.Fatalf("Failed to initialize LLM client: %v", err)
	default:
		if c, ok := textGen.(llm.Closer); ok {
			defer c.Close()
		}
		svc.Suggester = suggest.New(textGen)
	}

	// 4. Cookbook API
	client, err := cookbookapi.NewHTTPClient(cookbookapi.Options{
		BaseURL: cfg.APIURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create cookbook API client: %v", err)
	}

	// 5. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, app.NewApp(client, nil, svc), metricsStore)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 6. Start Server with Graceful Shutdown
	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Replies still in flight run on their own goroutines.
	bot.Wait()

	log.Println("Server exiting")
}
