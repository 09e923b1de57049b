// Package replaystore persists the replay tuple (a game's builder, its
// modifier descriptors, its compressed input history, and an optional
// forfeit time) to Postgres, plus the scoreboard derived from finished
// replays.
package replaystore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	enginetetris "tetrisengine/internal/engine/tetris"
)

// Store wraps a *sql.DB connection. A zero Store is not usable; build one
// with NewStore.
type Store struct {
	db *sql.DB
}

// NewStore opens and pings a Postgres connection at databaseURL.
func NewStore(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("replaystore: opening connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("replaystore: pinging database: %w", err)
	}
	log.Printf("[ReplayStore] connected")
	return &Store{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Replay is the persisted form of the replay tuple, plus bookkeeping the
// store needs to rebuild a GameBuilder and answer scoreboard queries.
type Replay struct {
	ID                string
	UserID            string
	Config            enginetetris.Configuration
	Seed              int64
	InitialFallDelay  enginetetris.Millis
	InitialLockDelay  enginetetris.Millis
	ModDescriptors    []string
	CompressedHistory []uint64
	ForfeitTime       *enginetetris.Millis
	FinalScore        int64
	CreatedAt         time.Time
}

// builderRow is the on-the-wire shape of the builder portion of the tuple.
type builderRow struct {
	Config           enginetetris.Configuration `json:"config"`
	Seed             int64                      `json:"seed"`
	InitialFallDelay enginetetris.Millis        `json:"initial_fall_delay"`
	InitialLockDelay enginetetris.Millis        `json:"initial_lock_delay"`
}

// compressedHistoryJSON encodes a []uint64 as decimal strings: Postgres has
// no unsigned integer type and a JSON number can silently lose precision
// above 2^53, so each compressed value is carried as text.
func compressedHistoryJSON(values []uint64) ([]byte, error) {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = fmt.Sprintf("%d", v)
	}
	return json.Marshal(strs)
}

func parseCompressedHistoryJSON(raw []byte) ([]uint64, error) {
	var strs []string
	if err := json.Unmarshal(raw, &strs); err != nil {
		return nil, err
	}
	out := make([]uint64, len(strs))
	for i, s := range strs {
		var v uint64
		if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
			return nil, fmt.Errorf("replaystore: parsing compressed value %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// SaveReplay inserts a finished (or forfeited) replay and returns its id.
func (s *Store) SaveReplay(ctx context.Context, r Replay) (string, error) {
	builder := builderRow{
		Config:           r.Config,
		Seed:             r.Seed,
		InitialFallDelay: r.InitialFallDelay,
		InitialLockDelay: r.InitialLockDelay,
	}
	builderJSON, err := json.Marshal(builder)
	if err != nil {
		return "", fmt.Errorf("replaystore: encoding builder: %w", err)
	}
	modsJSON, err := json.Marshal(r.ModDescriptors)
	if err != nil {
		return "", fmt.Errorf("replaystore: encoding modifier descriptors: %w", err)
	}
	historyJSON, err := compressedHistoryJSON(r.CompressedHistory)
	if err != nil {
		return "", fmt.Errorf("replaystore: encoding input history: %w", err)
	}

	var forfeitTime sql.NullInt64
	if r.ForfeitTime != nil {
		forfeitTime = sql.NullInt64{Int64: int64(*r.ForfeitTime), Valid: true}
	}

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO replays (user_id, builder, mod_descriptors, compressed_history, forfeit_time, final_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, r.UserID, builderJSON, modsJSON, historyJSON, forfeitTime, r.FinalScore, time.Now()).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("replaystore: inserting replay: %w", err)
	}
	log.Printf("[ReplayStore] saved replay %s for user %s (score=%d)", id, r.UserID, r.FinalScore)
	return id, nil
}

// GetReplay loads a replay tuple by id.
func (s *Store) GetReplay(ctx context.Context, id string) (*Replay, error) {
	var (
		r           Replay
		forfeitTime sql.NullInt64

		builderJSON, modsJSON, histJSON []byte
	)
	r.ID = id

	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, builder, mod_descriptors, compressed_history, forfeit_time, final_score, created_at
		FROM replays WHERE id = $1
	`, id).Scan(&r.UserID, &builderJSON, &modsJSON, &histJSON, &forfeitTime, &r.FinalScore, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("replaystore: loading replay %s: %w", id, err)
	}

	var builder builderRow
	if err := json.Unmarshal(builderJSON, &builder); err != nil {
		return nil, fmt.Errorf("replaystore: decoding builder for replay %s: %w", id, err)
	}
	r.Config = builder.Config
	r.Seed = builder.Seed
	r.InitialFallDelay = builder.InitialFallDelay
	r.InitialLockDelay = builder.InitialLockDelay

	if err := json.Unmarshal(modsJSON, &r.ModDescriptors); err != nil {
		return nil, fmt.Errorf("replaystore: decoding modifier descriptors for replay %s: %w", id, err)
	}
	history, err := parseCompressedHistoryJSON(histJSON)
	if err != nil {
		return nil, err
	}
	r.CompressedHistory = history

	if forfeitTime.Valid {
		t := enginetetris.Millis(forfeitTime.Int64)
		r.ForfeitTime = &t
	}

	return &r, nil
}

// ScoreboardEntry is one row of a ranked scoreboard query.
type ScoreboardEntry struct {
	ReplayID string
	UserID   string
	Score    int64
	Rank     int
	SavedAt  time.Time
}

// TopScores returns the top-scoring replays; ties go to the earliest saved.
func (s *Store) TopScores(ctx context.Context, limit int) ([]ScoreboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, final_score, created_at,
		       ROW_NUMBER() OVER (ORDER BY final_score DESC, created_at ASC) AS rank
		FROM replays
		ORDER BY final_score DESC, created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("replaystore: querying top scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreboardEntry
	for rows.Next() {
		var e ScoreboardEntry
		if err := rows.Scan(&e.ReplayID, &e.UserID, &e.Score, &e.SavedAt, &e.Rank); err != nil {
			return nil, fmt.Errorf("replaystore: scanning top score row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("replaystore: iterating top scores: %w", err)
	}
	return out, nil
}

// SaveResult implements hosting.ResultSaver: records just the final score
// as a history-less replay stub (empty history, zero config) when a full replay trace isn't
// available (e.g. a room without persistence wired to every tick).
func (s *Store) SaveResult(ctx context.Context, userID string, score int64) error {
	_, err := s.SaveReplay(ctx, Replay{UserID: userID, FinalScore: score})
	return err
}
