package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tetrisengine/internal/replaystore"
)

// ReplayHandler exposes read access to persisted replays and the scoreboard.
type ReplayHandler struct {
	store *replaystore.Store
}

func NewReplayHandler(store *replaystore.Store) *ReplayHandler {
	return &ReplayHandler{store: store}
}

// GetReplay returns the full replay tuple for the given id.
func (h *ReplayHandler) GetReplay(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["replayID"]

	replay, err := h.store.GetReplay(r.Context(), id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load replay")
		return
	}
	if replay == nil {
		writeJSONError(w, http.StatusNotFound, "no such replay")
		return
	}
	writeJSON(w, http.StatusOK, replay)
}

// Scoreboard returns the top-N finished replays by score.
func (h *ReplayHandler) Scoreboard(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.store.TopScores(r.Context(), limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load scoreboard")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
