// briefd is a token-budgeted work briefing daemon.
// Entry point: wires all packages and starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/briefd/internal/advisor"
	"github.com/yourusername/briefd/internal/api"
	"github.com/yourusername/briefd/internal/auth"
	"github.com/yourusername/briefd/internal/briefing"
	"github.com/yourusername/briefd/internal/config"
	"github.com/yourusername/briefd/internal/db"
	"github.com/yourusername/briefd/internal/notify"
	"github.com/yourusername/briefd/internal/platform"
	"github.com/yourusername/briefd/internal/scheduler"
	"github.com/yourusername/briefd/internal/telegram"
	"github.com/yourusername/briefd/internal/tracker"
	"github.com/yourusername/briefd/internal/webhook"
	"github.com/yourusername/briefd/internal/wizard"
	"github.com/yourusername/briefd/internal/ws"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	// ── 0. Setup wizard ──────────────────────────────────────────────────────
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "setup", "--setup", "-setup":
			if err := wizard.Run(Version); err != nil {
				log.Fatalf("wizard: %v", err)
			}
			return
		}
	}

	log.Printf("briefd %s starting…", Version)

	// ── 1. Load configuration ────────────────────────────────────────────────
	config.LoadEnv()
	cfg := config.Load()
	log.Printf("Config: port=%s workDir=%s", cfg.Port, cfg.WorkDir)

	// Zero-config first run: warn when no .env is present.
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		log.Println("⚠  No .env found — using built-in defaults (port 8080, no auth)")
		log.Println("   Run 'briefd setup' to configure before going to production.")
	}

	// ── 2. Ensure work directory exists ─────────────────────────────────────
	if err := platform.EnsureDir(cfg.WorkDir); err != nil {
		log.Fatalf("EnsureDir %s: %v", cfg.WorkDir, err)
	}

	// ── 3. Open database + migrate ───────────────────────────────────────────
	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("db.New: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("db.Migrate: %v", err)
	}
	log.Printf("Database ready: %s", cfg.DBPath)
	wizard.PrintAPIURLs(cfg.Port)

	// Root context, cancelled on shutdown signal.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 4. Seed API key from .env on first run ───────────────────────────────
	if seeded, err := auth.SeedKey(database, cfg.APIKey); err != nil {
		log.Fatalf("SeedKey: %v", err)
	} else if seeded {
		log.Println("API key configured from .env")
	}

	// ── 5. WebSocket hub ─────────────────────────────────────────────────────
	hub := ws.NewHub()
	go hub.Run(ctx)

	// ── 6. Telegram bot ──────────────────────────────────────────────────────
	cmdHandler := telegram.NewCommandHandler(database)
	bot, err := telegram.New(cfg.TelegramToken, cfg.TelegramChatID, cmdHandler)
	if err != nil {
		log.Printf("Telegram init error (continuing without Telegram): %v", err)
	}
	if bot != nil {
		go bot.Start(ctx)
		log.Printf("Telegram bot started (chatID=%d)", cfg.TelegramChatID)
	}

	// ── 7. Notify + Webhook dispatchers ─────────────────────────────────────
	webhookDispatcher := webhook.New(database)
	notifier := notify.New(telegramSender(bot), webhookDispatcher)

	// ── 8. Tracker client ────────────────────────────────────────────────────
	trackerClient := tracker.New(cfg.TrackerURL, cfg.TrackerToken)
	if trackerClient == nil {
		log.Println("No TRACKER_URL set — briefings will be empty until configured")
	}

	// ── 9. Narrative advisor ─────────────────────────────────────────────────
	narrator := advisor.New(cfg.AnthropicKey, cfg.AnthropicModel, cfg.WorkDir)
	if narrator != nil {
		log.Printf("Narrative enabled (model=%s)", cfg.AnthropicModel)
	}

	// ── 10. Section profile ──────────────────────────────────────────────────
	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		log.Printf("LoadProfile: %v (using defaults)", err)
		profile = config.DefaultProfile()
	}

	// ── 11. Briefing service ─────────────────────────────────────────────────
	service := briefing.NewService(database, fetcher(trackerClient), cfg, profile, briefing.Options{
		Notifier: notifier,
		Events:   &hubEvents{hub},
		Narrator: narratorOrNil(narrator),
	})
	cmdHandler.SetRunner(service)

	// ── 12. Cron scheduler ───────────────────────────────────────────────────
	schedEngine := scheduler.New(database, service)
	if err := schedEngine.Start(ctx); err != nil {
		log.Printf("scheduler.Start: %v", err)
	}

	// ── 13. HTTP router ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	// API routes.
	api.SetupRoutes(mux, &api.Deps{
		DB:        database,
		Config:    cfg,
		Hub:       hub,
		Notify:    notifier,
		Webhook:   webhookDispatcher,
		Scheduler: schedEngine,
		Runner:    service,
	})

	// WebSocket endpoint.
	mux.HandleFunc("GET /ws", hub.ServeWS)

	// Recovery + logging middleware.
	handler := loggingMiddleware(recoveryMiddleware(mux))

	// ── 14. Start HTTP server ────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received %s — shutting down…", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown: %v", err)
		}
	}()

	log.Printf("briefd listening on http://0.0.0.0:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("ListenAndServe: %v", err)
	}
	log.Printf("briefd stopped.")
}

// loggingMiddleware logs each request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				log.Printf("panic: %v", rv)
				http.Error(w, `{"success":false,"error":"internal server error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// telegramSender wraps *telegram.Bot to implement notify.TelegramSender.
// Returns nil if bot is nil (Telegram disabled).
func telegramSender(bot *telegram.Bot) notify.TelegramSender {
	if bot == nil {
		return nil
	}
	return bot
}

// fetcher wraps *tracker.Client to implement briefing.Fetcher.
// Returns an emptyFetcher when no tracker is configured.
func fetcher(c *tracker.Client) briefing.Fetcher {
	if c == nil {
		return emptyFetcher{}
	}
	return c
}

// narratorOrNil avoids handing a typed-nil *advisor.Client to the service.
func narratorOrNil(c *advisor.Client) briefing.Narrator {
	if c == nil {
		return nil
	}
	return c
}

// emptyFetcher serves zero records when no tracker is configured.
type emptyFetcher struct{}

func (emptyFetcher) FetchTickets(context.Context) ([]tracker.Ticket, error)          { return nil, nil }
func (emptyFetcher) FetchPullRequests(context.Context) ([]tracker.PullRequest, error) { return nil, nil }
func (emptyFetcher) FetchProjects(context.Context) ([]tracker.Project, error)        { return nil, nil }

// hubEvents adapts *ws.Hub to briefing.EventSink.
type hubEvents struct{ hub *ws.Hub }

func (h *hubEvents) RunStarted(runID string) {
	h.hub.Broadcast(ws.WSMessage{Type: ws.TypeRunStarted, RunID: runID})
}

func (h *hubEvents) RunCompleted(runID string, evicted []string) {
	h.hub.Broadcast(ws.WSMessage{
		Type: ws.TypeRunCompleted, RunID: runID,
		Data: map[string]interface{}{"evicted": evicted},
	})
}

func (h *hubEvents) SectionEvicted(runID, section string) {
	h.hub.BroadcastEviction(runID, section)
}

func (h *hubEvents) RunFailed(reason string) {
	h.hub.Broadcast(ws.WSMessage{Type: ws.TypeRunFailed, Message: reason})
}

func (h *hubEvents) Overflow(runID, section string, shortfall int) {
	h.hub.Broadcast(ws.WSMessage{
		Type: ws.TypeOverflow, RunID: runID, Section: section,
		Data: map[string]int{"shortfall": shortfall},
	})
}
