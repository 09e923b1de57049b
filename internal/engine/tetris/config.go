// Package tetris implements the deterministic, time-driven falling-block
// engine: phase transitions, rotation systems, piece generation, delay
// calculation, the modifier harness, input compression, and replay.
package tetris

import "tetrisengine/internal/models/tetris"

// Board dimensions, re-exported so hosts that only import the engine never
// reach into the geometry package for them.
const (
	Width         = tetris.BoardWidth
	Height        = tetris.BoardHeight
	SkylineHeight = tetris.SkylineY
)

// Millis is an absolute or relative in-game instant/duration, always
// millisecond-quantized. The engine never reads the wall clock; every
// Millis value is supplied by the caller via Update's target_time.
type Millis int64

// Button is one of the eleven buttons the engine understands. The ordinal is
// load-bearing: it is exactly the value packed into a compressed input by
// Compress (see compress.go).
type Button int

const (
	MoveLeft Button = iota
	MoveRight
	RotateLeft
	RotateRight
	RotateAround
	DropSoft
	DropHard
	TeleDown
	TeleLeft
	TeleRight
	HoldPiece
	buttonCount
)

var buttonNames = [buttonCount]string{
	"MoveLeft", "MoveRight", "RotateLeft", "RotateRight", "RotateAround",
	"DropSoft", "DropHard", "TeleDown", "TeleLeft", "TeleRight", "HoldPiece",
}

func (b Button) String() string {
	if b < 0 || int(b) >= int(buttonCount) {
		return "Button(invalid)"
	}
	return buttonNames[b]
}

// ButtonChange is a single press or release of one button at a specific
// in-game instant.
type ButtonChange struct {
	Button  Button
	Pressed bool
}

// RotationSystemKind selects which of the three rotation systems governs
// rotation attempts.
type RotationSystemKind int

const (
	Ocular RotationSystemKind = iota
	Classic
	Super
)

// GeneratorKind selects the piece-generation policy.
type GeneratorKind int

const (
	UniformGenerator GeneratorKind = iota
	BagGenerator
	RecencyWeightedGenerator
	BalanceRelativeGenerator
)

// FeedbackVerbosity controls which feedback messages Update emits.
type FeedbackVerbosity int

const (
	Silent FeedbackVerbosity = iota
	Default
	Debug
)

// Stat names a counter that an end condition watches.
type Stat string

const (
	StatScore        Stat = "score"
	StatLineClears   Stat = "lineclears"
	StatPiecesLocked Stat = "pieces_locked"
)

// EndCondition fires GameEnd(Limit(stat)) once the named stat reaches
// threshold. IsVictory records whether reaching the threshold is a win or a
// loss for the purposes of a caller's scoreboard; the engine itself treats
// every end condition identically (it just stops the game).
type EndCondition struct {
	Stat      Stat
	Threshold int64
	IsVictory bool
}

// DelayEquation is the (mul, sub) pair used by the delay calculator's
// mul^k - sub*k factor (see delay.go).
type DelayEquation struct {
	Mul float64
	Sub float64
}

// Configuration holds every tunable the engine recognizes. Mutating a
// Configuration after GameBuilder.Build has returned is not prevented by the
// type system but is reproducibility-breaking and is the caller's
// responsibility to avoid; see DESIGN.md's open-question decisions.
type Configuration struct {
	PiecePreviewCount            int
	AllowPrespawnActions         bool
	RotationSystem               RotationSystemKind
	Generator                    GeneratorKind
	SpawnDelay                   Millis
	DelayedAutoShift             Millis
	AutoRepeatRate               Millis
	SoftDropDivisor              float64
	CappedLockTimeFactor         float64
	LineClearDuration            Millis
	UpdateDelaysEveryNLineClears int
	FallDelayEquation            DelayEquation
	LockDelayEquation            DelayEquation
	LockDelayLowerbound          Millis
	FallDelayLowerbound          Millis
	EndConditions                []EndCondition
	FeedbackVerbosity            FeedbackVerbosity
	LenientLockDelayReset        bool
}

// DefaultConfiguration returns a reasonable, fully-populated configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		PiecePreviewCount:            5,
		AllowPrespawnActions:         true,
		RotationSystem:               Super,
		Generator:                    BagGenerator,
		SpawnDelay:                   200,
		DelayedAutoShift:             167,
		AutoRepeatRate:               33,
		SoftDropDivisor:              20,
		CappedLockTimeFactor:         3,
		LineClearDuration:            400,
		UpdateDelaysEveryNLineClears: 10,
		FallDelayEquation:            DelayEquation{Mul: 0.92, Sub: 0.003},
		LockDelayEquation:            DelayEquation{Mul: 0.92, Sub: 0.003},
		LockDelayLowerbound:          150,
		FallDelayLowerbound:          17,
		EndConditions:                nil,
		FeedbackVerbosity:            Default,
		LenientLockDelayReset:        false,
	}
}

// InitialValues is retained verbatim on Game for reconstruction: the seed
// and the initial fall/lock delays. It carries no generator state; the
// generator is rebuilt from Configuration.Generator and always starts from
// the state NewGenerator gives it.
type InitialValues struct {
	Seed             int64
	InitialFallDelay Millis
	InitialLockDelay Millis
}

// HoldPieceState is the held tetromino plus whether swapping is currently
// allowed (it is disallowed again until the next lock).
type HoldPieceState struct {
	Tetromino   tetris.Tetromino
	SwapAllowed bool
}
