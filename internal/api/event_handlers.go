package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// GetEventsHandler returns journal entries after ?since_id=, oldest first.
// Clients poll this endpoint to follow folder and resource changes.
func (s *Server) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	var sinceID int64
	if raw := r.URL.Query().Get("since_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			http.Error(w, "since_id must be a non-negative integer", http.StatusBadRequest)
			return
		}
		sinceID = parsed
	}

	events, err := s.store.GetEventsSince(r.Context(), sinceID)
	if err != nil {
		http.Error(w, "Failed to retrieve events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}
