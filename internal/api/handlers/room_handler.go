// Package handlers implements the HTTP/WebSocket surface: creating and
// joining rooms, streaming a live game, and reading back finished replays.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"tetrisengine/internal/api/middleware"
	enginetetris "tetrisengine/internal/engine/tetris"
	"tetrisengine/internal/hosting"
)

// RoomHandler exposes room lifecycle endpoints backed by a hosting.Manager.
type RoomHandler struct {
	manager *hosting.Manager
}

func NewRoomHandler(manager *hosting.Manager) *RoomHandler {
	return &RoomHandler{manager: manager}
}

type createRoomRequest struct {
	RotationSystem string `json:"rotation_system"`
	Generator      string `json:"generator"`
}

type createRoomResponse struct {
	RoomID string `json:"room_id"`
}

var rotationSystemNames = map[string]enginetetris.RotationSystemKind{
	"ocular":  enginetetris.Ocular,
	"classic": enginetetris.Classic,
	"super":   enginetetris.Super,
}

var generatorNames = map[string]enginetetris.GeneratorKind{
	"uniform":          enginetetris.UniformGenerator,
	"bag":              enginetetris.BagGenerator,
	"recency_weighted": enginetetris.RecencyWeightedGenerator,
	"balance_relative": enginetetris.BalanceRelativeGenerator,
}

// CreateRoom builds a fresh Game under a new passcode-like room id, owned by
// the authenticated caller.
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing authenticated user")
		return
	}

	var req createRoomRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	cfg := enginetetris.DefaultConfiguration()
	if kind, ok := rotationSystemNames[req.RotationSystem]; ok {
		cfg.RotationSystem = kind
	}
	if kind, ok := generatorNames[req.Generator]; ok {
		cfg.Generator = kind
	}

	builder := enginetetris.NewGameBuilder().Config(cfg).Seed(time.Now().UnixNano())

	roomID := uuid.New().String()
	if _, err := h.manager.CreateRoom(roomID, userID, builder); err != nil {
		log.Printf("[RoomHandler] create room failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to create room")
		return
	}

	writeJSON(w, http.StatusCreated, createRoomResponse{RoomID: roomID})
}

// DeleteRoom tears a room down early (owner only).
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing authenticated user")
		return
	}
	roomID := mux.Vars(r)["roomID"]

	room, ok := h.manager.Room(roomID)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "no such room")
		return
	}
	if room.OwnerID != userID {
		writeJSONError(w, http.StatusForbidden, "only the room owner can delete it")
		return
	}
	h.manager.RemoveRoom(roomID)
	w.WriteHeader(http.StatusNoContent)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebSocketHandler upgrades a room join request to a live WebSocket
// connection and attaches it to the room's broadcast set.
func (h *RoomHandler) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing authenticated user")
		return
	}
	roomID := mux.Vars(r)["roomID"]

	if _, ok := h.manager.Room(roomID); !ok {
		writeJSONError(w, http.StatusNotFound, "no such room")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[RoomHandler] websocket upgrade failed: %v", err)
		return
	}

	if _, err := h.manager.Connect(roomID, userID, conn); err != nil {
		log.Printf("[RoomHandler] connect failed for room %s: %v", roomID, err)
		conn.Close()
		return
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[RoomHandler] encoding response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
