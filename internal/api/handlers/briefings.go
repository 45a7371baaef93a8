package handlers

import (
	"net/http"
	"strconv"
)

// RunBriefing handles POST /api/v1/briefings. It generates a briefing
// synchronously and returns it.
func (h *Handler) RunBriefing(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		fail(w, http.StatusServiceUnavailable, "briefing runner not initialized")
		return
	}
	b, err := h.runner.Run(r.Context())
	if err != nil {
		fail(w, http.StatusInternalServerError, "run: "+err.Error())
		return
	}
	ok(w, b)
}

// ListBriefings handles GET /api/v1/briefings. Documents are omitted;
// fetch one by id for the full text.
func (h *Handler) ListBriefings(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			fail(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	briefings, err := h.db.ListBriefings(r.Context(), limit)
	if err != nil {
		fail(w, http.StatusInternalServerError, "list: "+err.Error())
		return
	}
	ok(w, briefings)
}

// LatestBriefing handles GET /api/v1/briefings/latest.
func (h *Handler) LatestBriefing(w http.ResponseWriter, r *http.Request) {
	b, err := h.db.LatestBriefing(r.Context())
	if err != nil {
		fail(w, http.StatusInternalServerError, "latest: "+err.Error())
		return
	}
	if b == nil {
		fail(w, http.StatusNotFound, "no briefings yet")
		return
	}
	ok(w, b)
}

// GetBriefing handles GET /api/v1/briefings/{id}.
func (h *Handler) GetBriefing(w http.ResponseWriter, r *http.Request) {
	b, err := h.db.GetBriefing(r.Context(), pathID(r, "id"))
	if err != nil {
		fail(w, http.StatusNotFound, "briefing not found")
		return
	}
	ok(w, b)
}
