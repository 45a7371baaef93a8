// Package api sets up the HTTP routes and middleware for briefd's REST API.
package api

import (
	"net/http"

	"github.com/yourusername/briefd/internal/api/handlers"
	"github.com/yourusername/briefd/internal/auth"
	"github.com/yourusername/briefd/internal/config"
	"github.com/yourusername/briefd/internal/db"
	"github.com/yourusername/briefd/internal/notify"
	"github.com/yourusername/briefd/internal/scheduler"
	"github.com/yourusername/briefd/internal/webhook"
	"github.com/yourusername/briefd/internal/ws"
)

// Deps holds all dependencies injected into the API handlers.
type Deps struct {
	DB        *db.DB
	Config    *config.Config
	Hub       *ws.Hub
	Notify    *notify.Dispatcher
	Webhook   *webhook.Dispatcher
	Scheduler *scheduler.Engine
	Runner    handlers.BriefingRunner
}

// SetupRoutes registers all HTTP routes on the given ServeMux.
// Uses Go 1.22 method+pattern routing syntax.
func SetupRoutes(mux *http.ServeMux, deps *Deps) {
	h := handlers.New(deps.DB, deps.Config, deps.Hub, deps.Notify,
		deps.Webhook, deps.Scheduler, deps.Runner)

	requireAuth := func(next http.Handler) http.Handler {
		return auth.RequireAPIKey(deps.DB, next)
	}

	// Status
	mux.Handle("GET /api/v1/status", requireAuth(http.HandlerFunc(h.Status)))

	// Briefings
	mux.Handle("POST /api/v1/briefings", requireAuth(http.HandlerFunc(h.RunBriefing)))
	mux.Handle("GET /api/v1/briefings", requireAuth(http.HandlerFunc(h.ListBriefings)))
	mux.Handle("GET /api/v1/briefings/latest", requireAuth(http.HandlerFunc(h.LatestBriefing)))
	mux.Handle("GET /api/v1/briefings/{id}", requireAuth(http.HandlerFunc(h.GetBriefing)))

	// Pins
	mux.Handle("GET /api/v1/pins", requireAuth(http.HandlerFunc(h.ListPins)))
	mux.Handle("POST /api/v1/pins", requireAuth(http.HandlerFunc(h.CreatePin)))
	mux.Handle("DELETE /api/v1/pins/{id}", requireAuth(http.HandlerFunc(h.DeletePin)))

	// Schedules
	mux.Handle("GET /api/v1/schedules", requireAuth(http.HandlerFunc(h.ListSchedules)))
	mux.Handle("POST /api/v1/schedules", requireAuth(http.HandlerFunc(h.CreateSchedule)))
	mux.Handle("GET /api/v1/schedules/{id}", requireAuth(http.HandlerFunc(h.GetSchedule)))
	mux.Handle("PUT /api/v1/schedules/{id}", requireAuth(http.HandlerFunc(h.UpdateSchedule)))
	mux.Handle("DELETE /api/v1/schedules/{id}", requireAuth(http.HandlerFunc(h.DeleteSchedule)))

	// Webhooks
	mux.Handle("GET /api/v1/webhooks", requireAuth(http.HandlerFunc(h.ListWebhooks)))
	mux.Handle("POST /api/v1/webhooks", requireAuth(http.HandlerFunc(h.CreateWebhook)))
	mux.Handle("GET /api/v1/webhooks/{id}", requireAuth(http.HandlerFunc(h.GetWebhook)))
	mux.Handle("PUT /api/v1/webhooks/{id}", requireAuth(http.HandlerFunc(h.UpdateWebhook)))
	mux.Handle("DELETE /api/v1/webhooks/{id}", requireAuth(http.HandlerFunc(h.DeleteWebhook)))
	mux.Handle("POST /api/v1/webhooks/{id}/test", requireAuth(http.HandlerFunc(h.TestWebhook)))

	// Settings
	mux.Handle("GET /api/v1/settings", requireAuth(http.HandlerFunc(h.ListSettings)))
	mux.Handle("PUT /api/v1/settings/{key}", requireAuth(http.HandlerFunc(h.UpdateSetting)))
}
