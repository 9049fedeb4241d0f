package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/narrate/narrate/internal/api/respond"
	"github.com/narrate/narrate/internal/api/validate"
	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/services"
)

type EntryHandler struct {
	svc *services.EntryService
	// onChange is notified after a create or delete; the router wires it to
	// eligibility cache invalidation. May be nil.
	onChange func(userID string)
}

func NewEntryHandler(svc *services.EntryService, onChange func(userID string)) *EntryHandler {
	return &EntryHandler{svc: svc, onChange: onChange}
}

func (h *EntryHandler) notifyChange(userID string) {
	if h.onChange != nil {
		h.onChange(userID)
	}
}

// CreateEntry handles POST /api/entries.
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "authentication required")
		return
	}
	var in struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.EntryContent(in.Content); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	e, err := h.svc.CreateEntry(r.Context(), session.UserID, in.Content)
	if err != nil {
		respond.WriteInternalError(w, "failed to create entry")
		return
	}
	h.notifyChange(session.UserID)
	respond.WriteJSON(w, http.StatusCreated, e)
}

// ListEntries handles GET /api/entries with optional limit, before and
// after query parameters (RFC 3339 timestamps).
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "authentication required")
		return
	}

	req := model.ListEntriesRequest{UserID: session.UserID, Limit: 50}
	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			respond.WriteBadRequest(w, "limit must be an integer between 1 and 200")
			return
		}
		req.Limit = n
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"before", &req.Before}, {"after", &req.After}} {
		if raw := q.Get(p.name); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				respond.WriteBadRequest(w, p.name+" must be an RFC 3339 timestamp")
				return
			}
			*p.dst = &ts
		}
	}

	entries, err := h.svc.ListEntries(r.Context(), req)
	if err != nil {
		respond.WriteInternalError(w, "failed to list entries")
		return
	}
	if entries == nil {
		entries = []*model.Entry{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// DeleteEntry handles DELETE /api/entries/{entryId}.
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "authentication required")
		return
	}
	entryID := mux.Vars(r)["entryId"]
	if entryID == "" {
		respond.WriteBadRequest(w, "entryId required")
		return
	}

	if err := h.svc.DeleteEntry(r.Context(), session.UserID, entryID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "entry not found")
			return
		}
		respond.WriteInternalError(w, "failed to delete entry")
		return
	}
	h.notifyChange(session.UserID)
	w.WriteHeader(http.StatusNoContent)
}
