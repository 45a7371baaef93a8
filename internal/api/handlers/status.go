package handlers

import (
	"net/http"
	"time"
)

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := time.Now().Format("2006-01-02")

	var briefingsTotal, briefingsToday, pinCount, scheduleCount int

	_ = h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM briefings`).Scan(&briefingsTotal)
	_ = h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM briefings WHERE DATE(created_at)=?`, today).Scan(&briefingsToday)
	_ = h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pins`).Scan(&pinCount)
	_ = h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedules WHERE enabled=1`).Scan(&scheduleCount)

	ok(w, map[string]interface{}{
		"briefings_total":  briefingsTotal,
		"briefings_today":  briefingsToday,
		"pins":             pinCount,
		"active_schedules": scheduleCount,
		"ws_clients":       h.hub.ClientCount(),
		"capacity":         h.config.BriefingCapacity,
		"time":             time.Now().Format(time.RFC3339),
	})
}
