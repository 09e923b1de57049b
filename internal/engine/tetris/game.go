package tetris

import (
	"log"

	"tetrisengine/internal/models/tetris"
)

// GameBuilder accumulates configuration before Build/BuildModded produces a
// Game.
type GameBuilder struct {
	config           Configuration
	seed             int64
	initialFallDelay Millis
	initialLockDelay Millis
}

// NewGameBuilder returns a builder seeded with DefaultConfiguration.
func NewGameBuilder() *GameBuilder {
	return &GameBuilder{
		config:           DefaultConfiguration(),
		seed:             0,
		initialFallDelay: 1000,
		initialLockDelay: 500,
	}
}

func (b *GameBuilder) Config(cfg Configuration) *GameBuilder { b.config = cfg; return b }
func (b *GameBuilder) Seed(seed int64) *GameBuilder          { b.seed = seed; return b }
func (b *GameBuilder) InitialDelays(fall, lock Millis) *GameBuilder {
	b.initialFallDelay = fall
	b.initialLockDelay = lock
	return b
}

// Build constructs an unmodded game.
func (b *GameBuilder) Build() (*Game, error) {
	return b.BuildModded(nil)
}

// BuildModded constructs a game with the given modifiers, invoked at every
// hook in registration order.
func (b *GameBuilder) BuildModded(modifiers []Modifier) (*Game, error) {
	init := InitialValues{
		Seed:             b.seed,
		InitialFallDelay: b.initialFallDelay,
		InitialLockDelay: b.initialLockDelay,
	}

	state := &State{
		Time:           0,
		ButtonsPressed: map[Button]*Millis{},
		PieceGenerator: NewGenerator(b.config.Generator),
		Board:          &tetris.Board{},
		FallDelay:      init.InitialFallDelay,
		LockDelay:      init.InitialLockDelay,
		PiecesLocked:   map[tetris.Tetromino]int{},
	}
	state.rng = seedRNG(b.seed)

	for len(state.PiecePreview) < b.config.PiecePreviewCount {
		state.PiecePreview = append(state.PiecePreview, state.PieceGenerator.Next(state))
	}

	g := &Game{
		config:    b.config,
		init:      init,
		state:     state,
		phase:     SpawningPhase(0),
		modifiers: append([]Modifier(nil), modifiers...),
		rotation:  NewRotationSystem(b.config.RotationSystem),
	}
	return g, nil
}

// Game is the deterministic engine core: one phase state machine, advanced
// exclusively through Update.
type Game struct {
	config    Configuration
	init      InitialValues
	state     *State
	phase     Phase
	modifiers []Modifier
	rotation  RotationSystem

	pendingSpawnOverride     *tetris.Tetromino
	skipInitialHoldNextSpawn bool
}

// Config returns a copy of the game's configuration.
func (g *Game) Config() Configuration { return g.config }

// InitVals returns the initial values recorded at Build time.
func (g *Game) InitVals() InitialValues { return g.init }

// State returns the engine's current state. Callers must not mutate the
// returned value's internals through unexported fields; the accessor exists
// for read-only inspection (score, board, queue, etc).
func (g *Game) State() *State { return g.state }

// Phase returns the engine's current phase.
func (g *Game) Phase() Phase { return g.phase }

// Result returns the game's outcome if it has ended, or nil.
func (g *Game) Result() *GameResult {
	if g.phase.Kind != PhaseGameEnd {
		return nil
	}
	return g.phase.Result
}

// PeekUpdateTime returns the next autonomous event time, if the engine has
// one scheduled (it always does unless the game has ended).
func (g *Game) PeekUpdateTime() (Millis, bool) {
	switch g.phase.Kind {
	case PhaseSpawning:
		return g.phase.SpawnTime, true
	case PhaseLinesClearing:
		return g.phase.LineClearsFinishTime, true
	case PhasePieceInPlay:
		pd := g.phase.PieceData
		t := pd.FallOrLockTime
		if pd.AutoMoveScheduled != nil && *pd.AutoMoveScheduled < t {
			t = *pd.AutoMoveScheduled
		}
		return t, true
	default:
		return 0, false
	}
}

// Forfeit transitions the game to GameEnd(Forfeit) immediately.
func (g *Game) Forfeit() {
	if g.phase.Kind == PhaseGameEnd {
		return
	}
	g.logf("game forfeited at t=%d", g.state.Time)
	g.phase = GameEndPhase(GameResult{Outcome: Forfeit})
}

// Blueprint returns the builder that would recreate this game's starting
// configuration, plus the registered modifiers' descriptors, for
// serialization.
func (g *Game) Blueprint() (*GameBuilder, []string) {
	b := &GameBuilder{config: g.config, seed: g.init.Seed, initialFallDelay: g.init.InitialFallDelay, initialLockDelay: g.init.InitialLockDelay}
	descs := make([]string, len(g.modifiers))
	for i, m := range g.modifiers {
		descs[i] = m.Descriptor
	}
	return b, descs
}

// CloneUnmodded returns an independent copy of the game with no modifiers
// attached (modifier internal state, if any, cannot be safely cloned).
func (g *Game) CloneUnmodded() *Game {
	return &Game{
		config:   g.config,
		init:     g.init,
		state:    g.state.Clone(),
		phase:    g.phase.Clone(),
		rotation: g.rotation,
	}
}

func (g *Game) runModifiers(u *UpdatePoint, feedback *[]TimedFeedback) {
	if len(g.modifiers) == 0 {
		return
	}
	var msgs []FeedbackMessage
	for _, m := range g.modifiers {
		m.Func(u, &g.config, &g.init, g.state, &g.phase, &msgs)
	}
	for _, msg := range msgs {
		*feedback = append(*feedback, TimedFeedback{Time: g.state.Time, Message: msg})
	}
}

func (g *Game) emitDebug(label string, feedback *[]TimedFeedback) {
	if g.config.FeedbackVerbosity < Debug {
		return
	}
	*feedback = append(*feedback, TimedFeedback{Time: g.state.Time, Message: FeedbackMessage{Kind: FeedbackDebug, UpdatePointLabel: label}})
}

// checkEndConditions evaluates configured end conditions against the
// current state and returns a result if one has triggered.
func (g *Game) checkEndConditions() (GameResult, bool) {
	for _, ec := range g.config.EndConditions {
		var value int64
		switch ec.Stat {
		case StatScore:
			value = g.state.Score
		case StatLineClears:
			value = int64(g.state.LineClears)
		case StatPiecesLocked:
			sum := 0
			for _, n := range g.state.PiecesLocked {
				sum += n
			}
			value = int64(sum)
		}
		if value >= ec.Threshold {
			return GameResult{Outcome: Limit, Stat: ec.Stat, IsVictory: ec.IsVictory}, true
		}
	}
	return GameResult{}, false
}

// Update is the engine's sole public mutator: advance time to targetTime,
// optionally applying a single button change at exactly that instant. Every
// autonomous event scheduled at or before targetTime fires first, in
// chronological order; the button change then applies at targetTime.
func (g *Game) Update(targetTime Millis, change *ButtonChange) ([]TimedFeedback, error) {
	if g.phase.Kind == PhaseGameEnd {
		return nil, ErrGameEnded
	}
	if targetTime < g.state.Time {
		return nil, ErrTargetTimeInPast
	}

	var feedback []TimedFeedback
	pending := change

	for {
		up := UpdatePoint{Kind: MainLoopHead, ButtonChange: pending}
		g.runModifiers(&up, &feedback)
		pending = up.ButtonChange

		if result, ok := g.checkEndConditions(); ok {
			g.phase = GameEndPhase(result)
			break
		}

		advanced := false

		switch g.phase.Kind {
		case PhaseLinesClearing:
			if g.phase.LineClearsFinishTime <= targetTime {
				g.finishLinesClearing(&feedback)
				advanced = true
			}

		case PhaseSpawning:
			if g.phase.SpawnTime <= targetTime {
				g.spawnPiece(&feedback)
				advanced = true
			}

		case PhasePieceInPlay:
			pd := g.phase.PieceData
			autoDue := pd.AutoMoveScheduled != nil && *pd.AutoMoveScheduled <= pd.FallOrLockTime && *pd.AutoMoveScheduled <= targetTime
			fallOrLockDue := pd.FallOrLockTime <= targetTime

			switch {
			case autoDue:
				g.performAutoMove(&feedback)
				advanced = true
			case fallOrLockDue && pd.IsFallNotLock:
				g.performFall(&feedback)
				advanced = true
			case fallOrLockDue:
				g.performLock(&feedback)
				advanced = true
			case pending != nil:
				g.applyButtonChange(*pending, targetTime, &feedback)
				pending = nil
				advanced = true
			}
		}

		if !advanced {
			break
		}
		if g.phase.Kind == PhaseGameEnd {
			break
		}
	}

	if g.phase.Kind != PhaseGameEnd {
		g.state.Time = targetTime
		if pending != nil {
			// No piece is in play to act on; the change only updates the
			// held-button state (it still matters for initial hold/rotation
			// at the next spawn and for DAS direction).
			g.commitButtonChange(*pending, targetTime)
		}
	}

	return feedback, nil
}

func (g *Game) logf(format string, args ...any) {
	log.Printf("[Engine] "+format, args...)
}
