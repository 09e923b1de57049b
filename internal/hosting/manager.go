package hosting

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	enginetetris "tetrisengine/internal/engine/tetris"
)

// ResultSaver persists a finished game's final score. internal/replaystore.Store
// implements this.
type ResultSaver interface {
	SaveResult(ctx context.Context, userID string, score int64) error
}

// Room owns exactly one engine Game plus every client currently watching it.
// The owner's input drives the game; any other connected client is a
// spectator.
type Room struct {
	ID        string
	OwnerID   string
	Game      *enginetetris.Game
	StartedAt time.Time

	mu      sync.Mutex
	clients map[string]*Client
}

func newRoom(id, ownerID string, g *enginetetris.Game, startedAt time.Time) *Room {
	return &Room{ID: id, OwnerID: ownerID, Game: g, StartedAt: startedAt, clients: make(map[string]*Client)}
}

// elapsed converts a wall-clock instant to the in-game Millis the room's
// Game should be advanced to: the room's own elapsed time since it started,
// ceil-rounded to the millisecond so no input lands in the engine's past.
func (r *Room) elapsed(now time.Time) enginetetris.Millis {
	d := now.Sub(r.StartedAt)
	ms := d.Milliseconds()
	if d%time.Millisecond != 0 {
		ms++
	}
	if ms < 0 {
		ms = 0
	}
	return enginetetris.Millis(ms)
}

// Manager owns every live room and is the sole writer of engine state: one
// goroutine (run) serializes client registration, input, and the autonomous
// tick across all rooms.
type Manager struct {
	tickInterval time.Duration
	resultSaver  ResultSaver

	mu    sync.RWMutex
	rooms map[string]*Room

	register    chan *Client
	unregister  chan *Client
	inputEvents chan ClientInputEvent
	quit        chan struct{}
}

// NewManager starts the manager's event loop on a background goroutine.
func NewManager(tickInterval time.Duration, resultSaver ResultSaver) *Manager {
	m := &Manager{
		tickInterval: tickInterval,
		resultSaver:  resultSaver,
		rooms:        make(map[string]*Room),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		inputEvents:  make(chan ClientInputEvent, 512),
		quit:         make(chan struct{}),
	}
	go m.run()
	return m
}

// CreateRoom builds a fresh Game from builder and registers a new room under
// roomID, owned by ownerID.
func (m *Manager) CreateRoom(roomID, ownerID string, builder *enginetetris.GameBuilder) (*Room, error) {
	g, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("hosting: building game for room %q: %w", roomID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rooms[roomID]; exists {
		return nil, fmt.Errorf("hosting: room %q already exists", roomID)
	}
	room := newRoom(roomID, ownerID, g, time.Now())
	m.rooms[roomID] = room
	log.Printf("[Hosting] room %s created by %s", roomID, ownerID)
	return room, nil
}

// Room looks up a room by id.
func (m *Manager) Room(roomID string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[roomID]
	return r, ok
}

// RemoveRoom drops a room outright (used by the delete-room endpoint).
func (m *Manager) RemoveRoom(roomID string) {
	m.mu.Lock()
	room, ok := m.rooms[roomID]
	if ok {
		delete(m.rooms, roomID)
	}
	m.mu.Unlock()
	if ok {
		room.closeClients()
	}
}

// Connect attaches a new WebSocket connection as a client of roomID and
// starts its read/write pumps.
func (m *Manager) Connect(roomID, userID string, conn *websocket.Conn) (*Client, error) {
	if _, ok := m.Room(roomID); !ok {
		return nil, fmt.Errorf("hosting: no such room %q", roomID)
	}
	c := &Client{UserID: userID, RoomID: roomID, Conn: conn, Send: make(chan []byte, 256)}
	go m.readPump(c)
	go c.writePump()
	m.register <- c
	return c, nil
}

// Shutdown stops the event loop and disconnects every client in every room.
func (m *Manager) Shutdown() {
	close(m.quit)
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()
	for _, r := range rooms {
		r.closeClients()
	}
	log.Printf("[Hosting] manager shut down")
}

func (r *Room) closeClients() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		c.SafeClose()
		delete(r.clients, id)
	}
}

func (m *Manager) run() {
	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case c := <-m.register:
			room, ok := m.Room(c.RoomID)
			if !ok {
				log.Printf("[Hosting] client %s registered for unknown room %s", c.UserID, c.RoomID)
				c.SafeClose()
				continue
			}
			room.mu.Lock()
			room.clients[c.UserID] = c
			room.mu.Unlock()
			log.Printf("[Hosting] client %s joined room %s", c.UserID, c.RoomID)

		case c := <-m.unregister:
			if room, ok := m.Room(c.RoomID); ok {
				room.mu.Lock()
				if room.clients[c.UserID] == c {
					delete(room.clients, c.UserID)
				}
				room.mu.Unlock()
			}
			c.SafeClose()
			log.Printf("[Hosting] client %s left room %s", c.UserID, c.RoomID)

		case ev := <-m.inputEvents:
			m.handleInput(ev)

		case <-ticker.C:
			m.tickAll()

		case <-m.quit:
			return
		}
	}
}

func (m *Manager) handleInput(ev ClientInputEvent) {
	room, ok := m.Room(ev.RoomID)
	if !ok {
		return
	}
	if ev.UserID != room.OwnerID {
		log.Printf("[Hosting] ignoring input from spectator %s in room %s", ev.UserID, room.ID)
		return
	}

	change := &enginetetris.ButtonChange{Button: enginetetris.Button(ev.Message.Button), Pressed: ev.Message.Pressed}
	target := room.elapsed(time.Now())

	room.mu.Lock()
	feedback, err := room.Game.Update(target, change)
	result := room.Game.Result()
	room.mu.Unlock()

	if err != nil {
		log.Printf("[Hosting] update error for room %s: %v", room.ID, err)
		return
	}
	m.broadcast(room, feedback)
	if result != nil {
		m.finishRoom(room, *result)
	}
}

func (m *Manager) tickAll() {
	now := time.Now()
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	for _, room := range rooms {
		target := room.elapsed(now)
		room.mu.Lock()
		feedback, err := room.Game.Update(target, nil)
		result := room.Game.Result()
		room.mu.Unlock()
		if err != nil {
			continue
		}
		if len(feedback) > 0 {
			m.broadcast(room, feedback)
		}
		if result != nil {
			m.finishRoom(room, *result)
		}
	}
}

func (m *Manager) broadcast(room *Room, feedback []enginetetris.TimedFeedback) {
	if len(feedback) == 0 {
		return
	}
	payload := encodeFeedback(feedback)

	room.mu.Lock()
	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		clients = append(clients, c)
	}
	room.mu.Unlock()

	for _, c := range clients {
		if !c.SafeSend(payload) {
			log.Printf("[Hosting] failed to send to client %s in room %s (channel closed or full)", c.UserID, room.ID)
		}
	}
}

// finishRoom persists the owner's final score (best-effort) and tears the
// room down. Rooms are removed from the manager so a finished id can be
// reused by the delete/create flow.
func (m *Manager) finishRoom(room *Room, result enginetetris.GameResult) {
	log.Printf("[Hosting] room %s ended: %s", room.ID, result.Outcome)

	if m.resultSaver != nil {
		score := room.Game.State().Score
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.resultSaver.SaveResult(ctx, room.OwnerID, score); err != nil {
			log.Printf("[Hosting] failed to save result for room %s: %v", room.ID, err)
		}
	}

	m.mu.Lock()
	delete(m.rooms, room.ID)
	m.mu.Unlock()
	room.closeClients()
}
