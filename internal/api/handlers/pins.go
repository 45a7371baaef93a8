package handlers

import (
	"net/http"
	"strconv"

	"github.com/yourusername/briefd/internal/db"
)

// ListPins handles GET /api/v1/pins.
func (h *Handler) ListPins(w http.ResponseWriter, r *http.Request) {
	pins, err := h.db.ListPins(r.Context())
	if err != nil {
		fail(w, http.StatusInternalServerError, "list: "+err.Error())
		return
	}
	ok(w, pins)
}

// CreatePin handles POST /api/v1/pins. Re-posting the same item
// replaces its override.
func (h *Handler) CreatePin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemKind string `json:"item_kind"`
		ItemID   string `json:"item_id"`
		Pinned   bool   `json:"pinned"`
		Boost    int    `json:"boost"`
		Note     string `json:"note"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ItemKind != "ticket" && req.ItemKind != "pr" {
		fail(w, http.StatusBadRequest, "item_kind must be \"ticket\" or \"pr\"")
		return
	}
	if req.ItemID == "" {
		fail(w, http.StatusBadRequest, "item_id is required")
		return
	}
	pin := &db.Pin{
		ItemKind: req.ItemKind,
		ItemID:   req.ItemID,
		Pinned:   req.Pinned,
		Boost:    req.Boost,
		Note:     req.Note,
	}
	if err := h.db.UpsertPin(r.Context(), pin); err != nil {
		fail(w, http.StatusInternalServerError, "upsert: "+err.Error())
		return
	}
	ok(w, pin)
}

// DeletePin handles DELETE /api/v1/pins/{id}.
func (h *Handler) DeletePin(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(pathID(r, "id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.db.DeletePin(r.Context(), id); err != nil {
		fail(w, http.StatusInternalServerError, "delete: "+err.Error())
		return
	}
	ok(w, map[string]string{"message": "deleted"})
}
