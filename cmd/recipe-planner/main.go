package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"recipe-planner/internal/app"
	"recipe-planner/internal/config"
	"recipe-planner/internal/cookbookapi"
	"recipe-planner/internal/database"
	"recipe-planner/internal/history"
	"recipe-planner/internal/llm"
	"recipe-planner/internal/logging"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/preview"
	"recipe-planner/internal/suggest"
	"recipe-planner/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	command := "tui"
	args := os.Args[1:]
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	if command == "tui" {
		logger, err := logging.New(cfg.LogPath)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logger.Close()
		log.SetFlags(0)
		log.SetOutput(logger)
	}

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

	textGen, err := llm.NewTextGenerator(ctx, cfg)
	switch {
	case errors.Is(err, llm.ErrNoProvider):
		log.Printf("No LLM key configured, weekly suggestions are disabled")
	case err != nil:
		log.Fatalf("Failed to initialize LLM client: %v", err)
	default:
		if c, ok := textGen.(llm.Closer); ok {
			defer c.Close()
		}
		svc.Suggester = suggest.New(textGen)
	}

	client, err := newClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create cookbook API client: %v", err)
	}
	application := app.NewApp(client, nil, svc)

	switch command {
	case "tui":
		if err := runTUI(ctx, cfg, application, svc); err != nil {
			log.Fatalf("Terminal UI failed: %v", err)
		}
	case "cookbooks":
		if err := application.RefreshCookbookNames(ctx); err != nil {
			log.Fatalf("Failed to fetch cookbooks: %v", err)
		}
		printLines(application.Session().Cache.CookbookNames())
	case "recipes":
		if len(args) > 0 {
			names, err := application.RecipeNamesFor(ctx, strings.Join(args, " "))
			if err != nil {
				log.Fatalf("Failed to fetch recipes: %v", err)
			}
			printLines(names)
			return
		}
		if err := application.RefreshRecipeNames(ctx); err != nil {
			log.Fatalf("Failed to fetch recipes: %v", err)
		}
		printLines(application.Session().Cache.RecipeNames())
	case "recipe":
		if len(args) == 0 {
			printUsage()
			os.Exit(1)
		}
		info, err := application.RecipeInfo(ctx, strings.Join(args, " "))
		if err != nil {
			log.Fatalf("Failed to fetch recipe: %v", err)
		}
		fmt.Println(strings.TrimSpace(info.Message))
		printLines(info.Ingredients)
	case "history":
		snaps, err := application.PlanHistory(ctx, 5)
		if err != nil {
			log.Fatalf("Failed to load plan history: %v", err)
		}
		for _, s := range snaps {
			fmt.Printf("%s  %s\n", s.CreatedAt.Format("2006-01-02 15:04"), s.Label)
			for _, e := range s.Entries {
				if e.Recipe != "" {
					fmt.Printf("  %-10s %s\n", e.Day, e.Recipe)
				}
			}
		}
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(args)

		affected, err := metricsStore.Cleanup(ctx, *days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func newClient(cfg *config.Config) (*cookbookapi.HTTPClient, error) {
	return cookbookapi.NewHTTPClient(cookbookapi.Options{
		BaseURL: cfg.APIURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.RequestTimeout,
	})
}

// runTUI drives the terminal UI until the user quits. When a config file is
// in use, edits to it swap in a client for the new server address.
func runTUI(ctx context.Context, cfg *config.Config, application *app.App, svc app.Services) error {
	p := tea.NewProgram(tui.New(application, cfg.RequestTimeout), tea.WithAltScreen())

	if cfg.ConfigFile != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := config.Watch(watchCtx, cfg.ConfigFile, func(*config.FileConfig) {
				next, err := config.NewFromEnv()
				if err != nil {
					log.Printf("Ignoring config change: %v", err)
					return
				}
				client, err := newClient(next)
				if err != nil {
					log.Printf("Ignoring config change: %v", err)
					return
				}
				p.Send(tui.ReconfiguredMsg{
					App:    app.NewApp(client, application.Session(), svc),
					Source: cfg.ConfigFile,
				})
			})
			if err != nil {
				log.Printf("Config watch stopped: %v", err)
			}
		}()
	}

	_, err := p.Run()
	return err
}

func printLines(lines []string) {
	for _, l := range lines {
		fmt.Println(l)
	}
}

func printUsage() {
	fmt.Println("Usage: recipe-planner [command] [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  tui                  Start the terminal interface (default)")
	fmt.Println("  cookbooks            List cookbook names")
	fmt.Println("  recipes [cookbook]   List recipe names, optionally for one cookbook")
	fmt.Println("  recipe <name>        Show a recipe and its ingredients")
	fmt.Println("  history              Show recently saved meal plans")
	fmt.Println("  metrics-cleanup      Remove old metric records (-days N)")
}
