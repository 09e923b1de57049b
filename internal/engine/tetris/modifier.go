package tetris

import (
	"encoding/json"
	"fmt"

	"tetrisengine/internal/models/tetris"
)

// UpdatePointKind tags which hook in the main update loop a Modifier is
// currently observing.
type UpdatePointKind int

const (
	MainLoopHead UpdatePointKind = iota
	PiecePlayed
	LinesClearedPoint
	PieceSpawnedPoint
	PieceAutoMovedPoint
	PieceFellPoint
	PieceLockedPoint
)

// UpdatePoint is the tagged hook payload passed to every modifier in
// registration order. Only ButtonChange (at MainLoopHead) and Change (at
// PiecePlayed) carry data; the others are pure notifications that a
// modifier observes for side effects on State/Phase/feedback.
type UpdatePoint struct {
	Kind UpdatePointKind

	// ButtonChange is the pending button change at MainLoopHead. A modifier
	// may rewrite or clear it; the engine re-reads this field after every
	// modifier in the list has run.
	ButtonChange *ButtonChange

	// Change is the button change that was just applied, at PiecePlayed.
	Change ButtonChange
}

// ModFunc is invoked at every hook a Modifier is registered for. It may
// freely mutate state, phase and the feedback list; the engine makes no
// further validation after a modifier runs.
type ModFunc func(u *UpdatePoint, cfg *Configuration, init *InitialValues, s *State, phase *Phase, feedback *[]FeedbackMessage)

// Modifier pairs a reconstructible descriptor with the function it runs.
// The descriptor convention is "<MOD_ID>\n<JSON-arguments>" so a replay's
// descriptor list can attempt to reconstruct the same modifiers; the engine
// itself never enforces that reconstruction succeeds.
type Modifier struct {
	Descriptor string
	Func       ModFunc
}

func formatDescriptor(modID string, args any) string {
	payload, err := json.Marshal(args)
	if err != nil {
		payload = []byte("{}")
	}
	return fmt.Sprintf("%s\n%s", modID, payload)
}

// garbageArgs is the JSON payload encoded in a GarbageModifier's descriptor.
type garbageArgs struct {
	LinesPerLock int `json:"lines_per_lock"`
}

// NewGarbageModifier returns a modifier that, every time a piece locks,
// injects linesPerLock garbage rows at the bottom of the board, each with a
// single random hole, and shifts the existing stack up. It is the worked
// example of the modifier harness bolting on multiplayer-style attacks
// without the core knowing anything about opponents.
func NewGarbageModifier(linesPerLock int) Modifier {
	return Modifier{
		Descriptor: formatDescriptor("GARBAGE", garbageArgs{LinesPerLock: linesPerLock}),
		Func: func(u *UpdatePoint, cfg *Configuration, init *InitialValues, s *State, phase *Phase, feedback *[]FeedbackMessage) {
			if u.Kind != PieceLockedPoint || linesPerLock <= 0 {
				return
			}
			injectGarbage(s, linesPerLock)
		},
	}
}

func injectGarbage(s *State, n int) {
	b := s.Board
	rows := b.Rows()
	for i := 0; i < n; i++ {
		hole := s.intn(tetris.BoardWidth)
		row := [tetris.BoardWidth]byte{}
		for x := 0; x < tetris.BoardWidth; x++ {
			if x != hole {
				row[x] = tetris.TileGrey
			}
		}
		rows = append([][tetris.BoardWidth]byte{row}, rows[:len(rows)-1]...)
	}
	b.SetRows(rows)
}

// dropBonusArgs is the JSON payload encoded in a DropBonusModifier's
// descriptor.
type dropBonusArgs struct {
	SoftDropBonus int64 `json:"soft_drop_bonus"`
	HardDropBonus int64 `json:"hard_drop_bonus"`
}

// NewDropBonusModifier awards a small score bonus whenever the player
// presses DropSoft or DropHard, independent of the core's lock/clear
// scoring rule, which stays untouched.
func NewDropBonusModifier(softDropBonus, hardDropBonus int64) Modifier {
	return Modifier{
		Descriptor: formatDescriptor("DROP_BONUS", dropBonusArgs{SoftDropBonus: softDropBonus, HardDropBonus: hardDropBonus}),
		Func: func(u *UpdatePoint, cfg *Configuration, init *InitialValues, s *State, phase *Phase, feedback *[]FeedbackMessage) {
			if u.Kind != PiecePlayed || !u.Change.Pressed {
				return
			}
			switch u.Change.Button {
			case DropSoft:
				s.Score += softDropBonus
			case DropHard:
				s.Score += hardDropBonus
			}
		},
	}
}

// PuzzleStage is one stage of a puzzle sequence: a pre-arranged board
// footprint (rows given top row first, a space means empty, anything else a
// filled grey cell) and the exact piece queue the player is handed to clear
// it with.
type PuzzleStage struct {
	Name   string
	Rows   []string
	Pieces []tetris.Tetromino
}

// puzzleArgs is the JSON payload encoded in a PuzzleModifier's descriptor.
type puzzleArgs struct {
	StageNames []string `json:"stage_names"`
}

// NewPuzzleModifier loads a sequence of hand-authored board layouts and
// fixed piece queues, one stage at a time, advancing to the next stage the
// moment a line clear leaves the board completely empty (the stage is
// solved) and emitting a FeedbackText announcement naming the new stage.
// Advancing is forward-only; a per-stage attempt limit would require the
// harness to expose lock-out/block-out outcomes as a hook, which it
// currently does not.
func NewPuzzleModifier(stages []PuzzleStage) Modifier {
	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = st.Name
	}

	current := 0
	loaded := false

	loadStage := func(s *State, idx int, feedback *[]FeedbackMessage) {
		st := stages[idx]
		s.Board = puzzleBoard(st.Rows)
		s.PiecePreview = append([]tetris.Tetromino(nil), st.Pieces...)
		*feedback = append(*feedback, FeedbackMessage{
			Kind: FeedbackText,
			Text: fmt.Sprintf("Stage %d: %s", idx+1, st.Name),
		})
	}

	return Modifier{
		Descriptor: formatDescriptor("PUZZLE", puzzleArgs{StageNames: names}),
		Func: func(u *UpdatePoint, cfg *Configuration, init *InitialValues, s *State, phase *Phase, feedback *[]FeedbackMessage) {
			if len(stages) == 0 {
				return
			}
			if u.Kind == MainLoopHead && !loaded {
				loaded = true
				loadStage(s, current, feedback)
				return
			}
			if u.Kind != LinesClearedPoint || current+1 >= len(stages) {
				return
			}
			if s.Board.IsEmptyBoard() {
				current++
				loadStage(s, current, feedback)
			}
		},
	}
}

// puzzleBoard renders a PuzzleStage's rows (top row first, as authored) into
// a Board with skyline-relative placement: rows[0] ends up just below the
// skyline and each subsequent row one cell lower.
func puzzleBoard(rows []string) *tetris.Board {
	b := &tetris.Board{}
	top := tetris.SkylineY - 1
	for i, row := range rows {
		y := top - i
		if y < 0 {
			break
		}
		for x, ch := range row {
			if x >= tetris.BoardWidth {
				break
			}
			if ch != ' ' {
				b.Set(tetris.Coord{X: x, Y: y}, tetris.TileGrey)
			}
		}
	}
	return b
}
