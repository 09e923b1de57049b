package tetris

import "tetrisengine/internal/models/tetris"

// PhaseKind tags the active variant of Phase. Kept as an explicit tag
// (rather than a Go interface per variant) so Phase stays trivially
// cloneable for savepoint snapshots.
type PhaseKind int

const (
	PhaseSpawning PhaseKind = iota
	PhasePieceInPlay
	PhaseLinesClearing
	PhaseGameEnd
)

// PieceData is the payload of PhasePieceInPlay.
type PieceData struct {
	Piece             tetris.Piece
	FallOrLockTime    Millis
	IsFallNotLock     bool
	LowestY           int
	CappedLockTime    Millis
	AutoMoveScheduled *Millis
}

// Clone returns a deep copy of PieceData (the only pointer field is
// AutoMoveScheduled).
func (pd *PieceData) Clone() *PieceData {
	if pd == nil {
		return nil
	}
	out := *pd
	if pd.AutoMoveScheduled != nil {
		t := *pd.AutoMoveScheduled
		out.AutoMoveScheduled = &t
	}
	return &out
}

// OutcomeKind names the reason a game ended.
type OutcomeKind int

const (
	BlockOut OutcomeKind = iota
	LockOut
	Forfeit
	Limit
)

func (o OutcomeKind) String() string {
	switch o {
	case BlockOut:
		return "BlockOut"
	case LockOut:
		return "LockOut"
	case Forfeit:
		return "Forfeit"
	case Limit:
		return "Limit"
	default:
		return "Outcome(invalid)"
	}
}

// GameResult is the payload of PhaseGameEnd.
type GameResult struct {
	Outcome   OutcomeKind
	Stat      Stat // only meaningful when Outcome == Limit
	IsVictory bool // only meaningful when Outcome == Limit
}

// Phase is the state-machine's current phase, tagged by Kind. Exactly the
// fields relevant to Kind are meaningful.
type Phase struct {
	Kind PhaseKind

	SpawnTime            Millis      // PhaseSpawning
	PieceData            *PieceData  // PhasePieceInPlay
	LineClearsFinishTime Millis      // PhaseLinesClearing
	Result               *GameResult // PhaseGameEnd
}

// Clone returns a deep copy of Phase.
func (p Phase) Clone() Phase {
	out := p
	out.PieceData = p.PieceData.Clone()
	if p.Result != nil {
		r := *p.Result
		out.Result = &r
	}
	return out
}

// SpawningPhase builds a PhaseSpawning.
func SpawningPhase(spawnTime Millis) Phase {
	return Phase{Kind: PhaseSpawning, SpawnTime: spawnTime}
}

// PieceInPlayPhase builds a PhasePieceInPlay.
func PieceInPlayPhase(pd *PieceData) Phase {
	return Phase{Kind: PhasePieceInPlay, PieceData: pd}
}

// LinesClearingPhase builds a PhaseLinesClearing.
func LinesClearingPhase(finish Millis) Phase {
	return Phase{Kind: PhaseLinesClearing, LineClearsFinishTime: finish}
}

// GameEndPhase builds a PhaseGameEnd.
func GameEndPhase(result GameResult) Phase {
	return Phase{Kind: PhaseGameEnd, Result: &result}
}

// State is the engine's full mutable state, exclusive of Phase (kept
// separate so Phase's tagged-variant payload stays easy to reason about).
type State struct {
	Time Millis

	ButtonsPressed map[Button]*Millis

	rng uint64 // xorshift64* state; see rng.go

	PieceGenerator Generator
	PiecePreview   []tetris.Tetromino
	HoldPiece      *HoldPieceState

	Board *tetris.Board

	FallDelay Millis
	LockDelay Millis

	FallDelayLowerboundHitAtNLineClears *int

	PiecesLocked map[tetris.Tetromino]int

	LineClears            int
	ConsecutiveLineClears int
	Score                 int64
}

// Clone returns a deep copy of State, independent of the original.
func (s *State) Clone() *State {
	out := &State{
		Time:                  s.Time,
		rng:                   s.rng,
		Board:                 s.Board.Clone(),
		FallDelay:             s.FallDelay,
		LockDelay:             s.LockDelay,
		LineClears:            s.LineClears,
		ConsecutiveLineClears: s.ConsecutiveLineClears,
		Score:                 s.Score,
	}
	out.ButtonsPressed = make(map[Button]*Millis, len(s.ButtonsPressed))
	for b, t := range s.ButtonsPressed {
		if t == nil {
			out.ButtonsPressed[b] = nil
			continue
		}
		v := *t
		out.ButtonsPressed[b] = &v
	}
	out.PieceGenerator = s.PieceGenerator.Clone()
	out.PiecePreview = append([]tetris.Tetromino(nil), s.PiecePreview...)
	if s.HoldPiece != nil {
		hp := *s.HoldPiece
		out.HoldPiece = &hp
	}
	if s.FallDelayLowerboundHitAtNLineClears != nil {
		v := *s.FallDelayLowerboundHitAtNLineClears
		out.FallDelayLowerboundHitAtNLineClears = &v
	}
	out.PiecesLocked = make(map[tetris.Tetromino]int, len(s.PiecesLocked))
	for t, n := range s.PiecesLocked {
		out.PiecesLocked[t] = n
	}
	return out
}

// IsPressed reports whether button b is currently held.
func (s *State) IsPressed(b Button) bool {
	return s.ButtonsPressed[b] != nil
}

// PressedAt returns the time b was pressed and true, or (0, false) if
// released.
func (s *State) PressedAt(b Button) (Millis, bool) {
	t := s.ButtonsPressed[b]
	if t == nil {
		return 0, false
	}
	return *t, true
}
