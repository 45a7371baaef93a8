// Package handlers provides HTTP handler implementations for the briefd REST API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/yourusername/briefd/internal/config"
	"github.com/yourusername/briefd/internal/db"
	"github.com/yourusername/briefd/internal/notify"
	"github.com/yourusername/briefd/internal/scheduler"
	"github.com/yourusername/briefd/internal/webhook"
	"github.com/yourusername/briefd/internal/ws"
)

// BriefingRunner generates one briefing on demand.
type BriefingRunner interface {
	Run(ctx context.Context) (*db.Briefing, error)
}

// Handler holds all shared dependencies for API handler methods.
type Handler struct {
	db        *db.DB
	config    *config.Config
	hub       *ws.Hub
	notify    *notify.Dispatcher
	webhook   *webhook.Dispatcher
	scheduler *scheduler.Engine
	runner    BriefingRunner
}

// New creates a Handler with all dependencies.
func New(
	database *db.DB,
	cfg *config.Config,
	hub *ws.Hub,
	notifier *notify.Dispatcher,
	wh *webhook.Dispatcher,
	sched *scheduler.Engine,
	runner BriefingRunner,
) *Handler {
	return &Handler{
		db:        database,
		config:    cfg,
		hub:       hub,
		notify:    notifier,
		webhook:   wh,
		scheduler: sched,
		runner:    runner,
	}
}

// ── Response helpers ──────────────────────────────────────────────────────────

type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response{Success: true, Data: data})
}

func fail(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response{Success: false, Error: msg})
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request, name string) string {
	return r.PathValue(name)
}
