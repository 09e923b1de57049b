package tetris

import "tetrisengine/internal/models/tetris"

// effectiveFallDelay returns the current fall delay, divided by
// soft_drop_divisor while DropSoft is held.
func (g *Game) effectiveFallDelay() Millis {
	if g.state.IsPressed(DropSoft) && g.config.SoftDropDivisor > 0 {
		return Millis(float64(g.state.FallDelay) / g.config.SoftDropDivisor)
	}
	return g.state.FallDelay
}

// dasDirectionAndPressTime returns the winning horizontal-move direction
// (-1, 0, or 1): the more recently pressed side wins, and both pressed at
// the exact same instant yields no move.
func (g *Game) dasDirectionAndPressTime(now Millis) (dx int, pressTime Millis, ok bool) {
	leftAt, leftHeld := g.state.PressedAt(MoveLeft)
	rightAt, rightHeld := g.state.PressedAt(MoveRight)
	switch {
	case leftHeld && rightHeld:
		if leftAt > rightAt {
			return -1, leftAt, true
		}
		if rightAt > leftAt {
			return 1, rightAt, true
		}
		return 0, 0, false
	case leftHeld:
		return -1, leftAt, true
	case rightHeld:
		return 1, rightAt, true
	default:
		return 0, 0, false
	}
}

// dasIntervalFor returns the delay until the next auto-repeat move given
// when the winning direction button was pressed: delayed_auto_shift below
// the DAS threshold, auto_repeat_rate once past it.
func (g *Game) dasIntervalFor(pressTime, now Millis) Millis {
	if now-pressTime < g.config.DelayedAutoShift {
		return g.config.DelayedAutoShift
	}
	return g.config.AutoRepeatRate
}

// recomputeFallOrLockAfterMove applies the fall/lock timer transition rule
// shared by auto-moves and fall steps: refresh whichever timer newly
// applies when the piece's grounded-ness flips, otherwise leave it alone.
func (g *Game) recomputeFallOrLockAfterMove(pd *PieceData, now Millis) {
	nowGrounded := !pd.Piece.FitsAt(g.state.Board, tetris.Coord{Y: -1})
	wasFallNotLock := pd.IsFallNotLock

	switch {
	case wasFallNotLock && nowGrounded:
		pd.IsFallNotLock = false
		lockTime := now + g.state.LockDelay
		if lockTime > pd.CappedLockTime {
			lockTime = pd.CappedLockTime
		}
		if lockTime < now {
			lockTime = now
		}
		pd.FallOrLockTime = lockTime
	case !wasFallNotLock && !nowGrounded:
		pd.IsFallNotLock = true
		pd.FallOrLockTime = now + g.effectiveFallDelay()
	}
}

// tryMoveResumption re-attempts a blocked DAS move after some other event
// may have cleared the obstruction (a fall step, or a rotate/teleport).
func (g *Game) tryMoveResumption(pd *PieceData, now Millis) bool {
	if pd.AutoMoveScheduled != nil {
		return false
	}
	dx, pressTime, ok := g.dasDirectionAndPressTime(now)
	if !ok || dx == 0 {
		return false
	}
	if !pd.Piece.FitsAt(g.state.Board, tetris.Coord{X: dx}) {
		return false
	}
	pd.Piece = pd.Piece.Teleported(tetris.Coord{X: dx})
	next := now + g.dasIntervalFor(pressTime, now)
	pd.AutoMoveScheduled = &next
	return true
}

func (g *Game) teleport(p tetris.Piece, step tetris.Coord) tetris.Piece {
	for p.FitsAt(g.state.Board, step) {
		p = p.Teleported(step)
	}
	return p
}

func (g *Game) popNextTetromino() tetris.Tetromino {
	next := g.state.PiecePreview[0]
	g.state.PiecePreview = g.state.PiecePreview[1:]
	for len(g.state.PiecePreview) < g.config.PiecePreviewCount {
		g.state.PiecePreview = append(g.state.PiecePreview, g.state.PieceGenerator.Next(g.state))
	}
	return next
}

// applyInitialHold runs the hold attempt that precedes initial rotation at
// spawn: same swap semantics as the button-driven hold, applied to the
// about-to-spawn tetromino rather than an in-play one.
func (g *Game) applyInitialHold(incoming tetris.Tetromino) tetris.Tetromino {
	if g.state.HoldPiece == nil {
		g.state.HoldPiece = &HoldPieceState{Tetromino: incoming, SwapAllowed: false}
		return g.popNextTetromino()
	}
	if !g.state.HoldPiece.SwapAllowed {
		return incoming
	}
	held := g.state.HoldPiece.Tetromino
	g.state.HoldPiece = &HoldPieceState{Tetromino: incoming, SwapAllowed: false}
	return held
}

// spawnPiece pops the next tetromino (applying initial hold/rotation if
// enabled), places it above the skyline, and enters PieceInPlay -- or ends
// the game with a block-out if the spawn position is already occupied.
func (g *Game) spawnPiece(feedback *[]TimedFeedback) {
	now := g.phase.SpawnTime

	var tet tetris.Tetromino
	if g.pendingSpawnOverride != nil {
		tet = *g.pendingSpawnOverride
		g.pendingSpawnOverride = nil
	} else {
		tet = g.popNextTetromino()
	}

	if g.config.AllowPrespawnActions && !g.skipInitialHoldNextSpawn && g.state.IsPressed(HoldPiece) {
		tet = g.applyInitialHold(tet)
	}
	g.skipInitialHoldNextSpawn = false

	orientation := tetris.North
	x := 3
	if tet == tetris.O {
		x = 4
	}
	piece := tetris.Piece{Tetromino: tet, Orientation: orientation, X: x, Y: tetris.SkylineY}

	if g.config.AllowPrespawnActions {
		var turns int
		switch {
		case g.state.IsPressed(RotateLeft):
			turns = -1
		case g.state.IsPressed(RotateRight):
			turns = 1
		case g.state.IsPressed(RotateAround):
			turns = 2
		}
		if turns != 0 {
			if rotated, ok := g.rotation.Rotate(piece, g.state.Board, turns); ok {
				piece = rotated
			}
		}
	}

	if !piece.Fits(g.state.Board) {
		g.logf("block out at t=%d (%v could not spawn)", now, tet)
		g.phase = GameEndPhase(GameResult{Outcome: BlockOut})
		g.state.Time = now
		return
	}

	grounded := !piece.FitsAt(g.state.Board, tetris.Coord{Y: -1})
	cappedLock := now + Millis(g.config.CappedLockTimeFactor*float64(g.state.LockDelay))
	pd := &PieceData{
		Piece:          piece,
		LowestY:        piece.Y,
		CappedLockTime: cappedLock,
		IsFallNotLock:  !grounded,
	}
	if pd.IsFallNotLock {
		pd.FallOrLockTime = now + g.effectiveFallDelay()
	} else {
		lockTime := now + g.state.LockDelay
		if lockTime > cappedLock {
			lockTime = cappedLock
		}
		pd.FallOrLockTime = lockTime
	}

	// A held move direction starts its DAS/ARR schedule at spawn, but there
	// is no initial-move analogue of initial rotation: the piece does not
	// step sideways until the scheduled auto-move fires.
	if dx, pressTime, ok := g.dasDirectionAndPressTime(now); ok && dx != 0 {
		next := now + g.dasIntervalFor(pressTime, now)
		pd.AutoMoveScheduled = &next
	}

	g.phase = PieceInPlayPhase(pd)
	g.state.Time = now

	up := UpdatePoint{Kind: PieceSpawnedPoint}
	g.runModifiers(&up, feedback)
	g.emitDebug("PieceSpawned", feedback)
}

// finishLinesClearing removes the completed rows, recomputes delays if a
// recompute is due, and schedules the next spawn.
func (g *Game) finishLinesClearing(feedback *[]TimedFeedback) {
	now := g.phase.LineClearsFinishTime

	cleared := g.state.Board.ClearFullRows()
	g.state.LineClears += len(cleared)

	if g.config.UpdateDelaysEveryNLineClears > 0 && g.state.LineClears%g.config.UpdateDelaysEveryNLineClears == 0 {
		fall, lock, hitNow := computeDelays(g.config, g.init, g.state.FallDelayLowerboundHitAtNLineClears, g.state.LineClears)
		g.state.FallDelay = fall
		g.state.LockDelay = lock
		if hitNow && g.state.FallDelayLowerboundHitAtNLineClears == nil {
			n := g.state.LineClears
			g.state.FallDelayLowerboundHitAtNLineClears = &n
		}
	}

	g.phase = SpawningPhase(now + g.config.SpawnDelay)
	g.state.Time = now

	up := UpdatePoint{Kind: LinesClearedPoint}
	g.runModifiers(&up, feedback)
	g.emitDebug("LinesCleared", feedback)
}

// performAutoMove runs one scheduled DAS/ARR repeat move.
func (g *Game) performAutoMove(feedback *[]TimedFeedback) {
	pd := g.phase.PieceData
	now := *pd.AutoMoveScheduled

	dx, pressTime, ok := g.dasDirectionAndPressTime(now)
	if ok && dx != 0 && pd.Piece.FitsAt(g.state.Board, tetris.Coord{X: dx}) {
		pd.Piece = pd.Piece.Teleported(tetris.Coord{X: dx})
		next := now + g.dasIntervalFor(pressTime, now)
		pd.AutoMoveScheduled = &next
	} else {
		pd.AutoMoveScheduled = nil
	}

	g.recomputeFallOrLockAfterMove(pd, now)
	g.state.Time = now

	up := UpdatePoint{Kind: PieceAutoMovedPoint}
	g.runModifiers(&up, feedback)
	g.emitDebug("PieceAutoMoved", feedback)
}

// performFall runs one autonomous fall step.
func (g *Game) performFall(feedback *[]TimedFeedback) {
	pd := g.phase.PieceData
	now := pd.FallOrLockTime

	if pd.Piece.FitsAt(g.state.Board, tetris.Coord{Y: -1}) {
		pd.Piece = pd.Piece.Teleported(tetris.Coord{Y: -1})
	}
	g.tryMoveResumption(pd, now)

	if pd.Piece.Y < pd.LowestY {
		pd.LowestY = pd.Piece.Y
		pd.CappedLockTime = now + Millis(g.config.CappedLockTimeFactor*float64(g.state.LockDelay))
	}
	g.recomputeFallOrLockAfterMove(pd, now)
	if pd.IsFallNotLock {
		// Unlike a horizontal move, a fall event consumes its own timer: the
		// next fall is always a full (possibly soft-dropped) delay away.
		pd.FallOrLockTime = now + g.effectiveFallDelay()
	}
	g.state.Time = now

	up := UpdatePoint{Kind: PieceFellPoint}
	g.runModifiers(&up, feedback)
	g.emitDebug("PieceFell", feedback)
}

func (g *Game) scanFullRows() []int {
	var rows []int
	for y := 0; y < tetris.BoardHeight; y++ {
		if g.state.Board.RowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

func (g *Game) wouldBePerfectClearAfterClear(clearedRows []int) bool {
	clearedSet := make(map[int]bool, len(clearedRows))
	for _, y := range clearedRows {
		clearedSet[y] = true
	}
	for y := 0; y < tetris.BoardHeight; y++ {
		if clearedSet[y] {
			continue
		}
		if !g.state.Board.RowEmpty(y) {
			return false
		}
	}
	return true
}

// performLock writes the active piece into the board, scores any completed
// rows, and transitions to LinesClearing, Spawning, or GameEnd.
func (g *Game) performLock(feedback *[]TimedFeedback) {
	pd := g.phase.PieceData
	now := pd.FallOrLockTime

	isSpin := !pd.Piece.FitsAt(g.state.Board, tetris.Coord{Y: 1})

	g.state.Board.Merge(pd.Piece)
	allAbove := pd.Piece.AllAboveSkyline()
	g.state.PiecesLocked[pd.Piece.Tetromino]++

	clearedRows := g.scanFullRows()
	n := len(clearedRows)

	var bonus int64
	var combo int
	var isPerfectClear bool

	if n == 0 {
		g.state.ConsecutiveLineClears = 0
	} else {
		g.state.ConsecutiveLineClears++
		combo = g.state.ConsecutiveLineClears
		isPerfectClear = g.wouldBePerfectClearAfterClear(clearedRows)

		spinMul, pcMul := 1, 1
		if isSpin {
			spinMul = 2
		}
		if isPerfectClear {
			pcMul = 4
		}
		bonus = int64(n*spinMul*pcMul*2-1) + int64(combo-1)
		g.state.Score += bonus
	}

	lockedPiece := pd.Piece
	if g.state.HoldPiece != nil {
		g.state.HoldPiece.SwapAllowed = true
	}

	up := UpdatePoint{Kind: PieceLockedPoint}
	g.runModifiers(&up, feedback)
	g.emitDebug("PieceLocked", feedback)

	if g.config.FeedbackVerbosity >= Default {
		*feedback = append(*feedback, TimedFeedback{Time: now, Message: FeedbackMessage{Kind: FeedbackPieceLocked, Piece: lockedPiece}})
	}

	if allAbove {
		g.logf("lock out at t=%d (%v locked above the skyline)", now, lockedPiece.Tetromino)
		g.phase = GameEndPhase(GameResult{Outcome: LockOut})
		g.state.Time = now
		return
	}

	if n == 0 {
		g.phase = SpawningPhase(now + g.config.SpawnDelay)
		g.state.Time = now
		return
	}

	if g.config.FeedbackVerbosity >= Default {
		*feedback = append(*feedback, TimedFeedback{Time: now, Message: FeedbackMessage{Kind: FeedbackLinesClearing, YCoords: clearedRows, LineClearStart: now}})
		*feedback = append(*feedback, TimedFeedback{Time: now, Message: FeedbackMessage{
			Kind: FeedbackAccolade, ScoreBonus: bonus, Tetromino: lockedPiece.Tetromino,
			IsSpin: isSpin, LineClears: n, IsPerfectClear: isPerfectClear, Combo: combo,
		}})
	}
	g.phase = LinesClearingPhase(now + g.config.LineClearDuration)
	g.state.Time = now
}

// handleHoldButton stashes or swaps the active tetromino and respawns. A
// swap is only allowed once per piece-in-play; locking re-enables it.
func (g *Game) handleHoldButton(now Millis, feedback *[]TimedFeedback) {
	pd := g.phase.PieceData
	active := pd.Piece.Tetromino

	if g.state.HoldPiece == nil {
		g.state.HoldPiece = &HoldPieceState{Tetromino: active, SwapAllowed: false}
		g.pendingSpawnOverride = nil
	} else if g.state.HoldPiece.SwapAllowed {
		held := g.state.HoldPiece.Tetromino
		g.state.HoldPiece = &HoldPieceState{Tetromino: active, SwapAllowed: false}
		g.pendingSpawnOverride = &held
	} else {
		return
	}
	g.skipInitialHoldNextSpawn = true
	g.phase = SpawningPhase(now)
}

// commitButtonChange records a press/release in the button state without any
// piece effect. Presses of an already-held button keep the original press
// time so DAS timing is unaffected by repeated press events.
func (g *Game) commitButtonChange(change ButtonChange, now Millis) {
	if change.Pressed {
		if g.state.ButtonsPressed[change.Button] == nil {
			t := now
			g.state.ButtonsPressed[change.Button] = &t
		}
	} else {
		g.state.ButtonsPressed[change.Button] = nil
	}
}

var moveRotateButtons = map[Button]bool{
	MoveLeft: true, MoveRight: true, RotateLeft: true, RotateRight: true,
	RotateAround: true, TeleLeft: true, TeleRight: true,
}

// applyButtonChange applies the press/release, dispatches its direct
// effect on the active piece, and refreshes the fall/lock timers.
func (g *Game) applyButtonChange(change ButtonChange, now Millis, feedback *[]TimedFeedback) {
	oldDx, _, oldOk := g.dasDirectionAndPressTime(now)
	if !oldOk {
		oldDx = 0
	}

	g.commitButtonChange(change, now)
	g.state.Time = now

	if change.Button == HoldPiece && change.Pressed {
		g.handleHoldButton(now, feedback)
		up := UpdatePoint{Kind: PiecePlayed, Change: change}
		g.runModifiers(&up, feedback)
		g.emitDebug("PiecePlayed", feedback)
		return
	}

	pd := g.phase.PieceData
	wasGrounded := !pd.IsFallNotLock
	acted := false
	forceLockHard := false
	forceLockSoft := false

	switch {
	case change.Button == TeleLeft && change.Pressed:
		pd.Piece = g.teleport(pd.Piece, tetris.Coord{X: -1})
		acted = true
	case change.Button == TeleRight && change.Pressed:
		pd.Piece = g.teleport(pd.Piece, tetris.Coord{X: 1})
		acted = true
	case change.Button == TeleDown && change.Pressed:
		pd.Piece = g.teleport(pd.Piece, tetris.Coord{Y: -1})
		acted = true

	case change.Button == RotateLeft && change.Pressed:
		if np, ok := g.rotation.Rotate(pd.Piece, g.state.Board, -1); ok {
			pd.Piece = np
			acted = true
		}
	case change.Button == RotateRight && change.Pressed:
		if np, ok := g.rotation.Rotate(pd.Piece, g.state.Board, 1); ok {
			pd.Piece = np
			acted = true
		}
	case change.Button == RotateAround && change.Pressed:
		if np, ok := g.rotation.Rotate(pd.Piece, g.state.Board, 2); ok {
			pd.Piece = np
			acted = true
		}

	case change.Button == DropHard && change.Pressed:
		old := pd.Piece
		pd.Piece = g.teleport(pd.Piece, tetris.Coord{Y: -1})
		if g.config.FeedbackVerbosity >= Default {
			*feedback = append(*feedback, TimedFeedback{Time: now, Message: FeedbackMessage{Kind: FeedbackHardDrop, OldPiece: old, NewPiece: pd.Piece}})
		}
		acted = true
		forceLockHard = true

	case change.Button == DropSoft && change.Pressed:
		if wasGrounded {
			forceLockSoft = true
		} else if pd.Piece.FitsAt(g.state.Board, tetris.Coord{Y: -1}) {
			pd.Piece = pd.Piece.Teleported(tetris.Coord{Y: -1})
			acted = true
		}

	case change.Button == MoveLeft || change.Button == MoveRight:
		newDx, newPressTime, newOk := g.dasDirectionAndPressTime(now)
		if !newOk {
			newDx = 0
		}
		if newDx != oldDx {
			if newDx == 0 {
				pd.AutoMoveScheduled = nil
			} else {
				if pd.Piece.FitsAt(g.state.Board, tetris.Coord{X: newDx}) {
					pd.Piece = pd.Piece.Teleported(tetris.Coord{X: newDx})
					acted = true
				}
				next := now + g.dasIntervalFor(newPressTime, now)
				pd.AutoMoveScheduled = &next
			}
		}
	}

	// A rotation, teleport or drop may have unstuck a held DAS direction
	// that was previously blocked; give it one immediate step and a fresh
	// schedule. Hard drops skip this, since the piece locks at now.
	if change.Button != MoveLeft && change.Button != MoveRight && !forceLockHard {
		if g.tryMoveResumption(pd, now) {
			acted = true
		}
	}

	if pd.Piece.Y < pd.LowestY {
		pd.LowestY = pd.Piece.Y
		pd.CappedLockTime = now + Millis(g.config.CappedLockTimeFactor*float64(g.state.LockDelay))
	}

	nowGrounded := !pd.Piece.FitsAt(g.state.Board, tetris.Coord{Y: -1})
	isMoveOrRotateButton := moveRotateButtons[change.Button] && change.Pressed

	switch {
	case nowGrounded && forceLockHard:
		pd.IsFallNotLock = false
		pd.FallOrLockTime = now
	case nowGrounded && forceLockSoft:
		pd.IsFallNotLock = false
		pd.FallOrLockTime = now
	case nowGrounded:
		pd.IsFallNotLock = false
		refresh := acted || !wasGrounded || (g.config.LenientLockDelayReset && isMoveOrRotateButton)
		if refresh {
			lockTime := now + g.state.LockDelay
			if lockTime > pd.CappedLockTime {
				lockTime = pd.CappedLockTime
			}
			if lockTime < now {
				lockTime = now
			}
			pd.FallOrLockTime = lockTime
		}
	default:
		pd.IsFallNotLock = true
		if wasGrounded || change.Button == DropSoft {
			pd.FallOrLockTime = now + g.effectiveFallDelay()
		}
	}

	up := UpdatePoint{Kind: PiecePlayed, Change: change}
	g.runModifiers(&up, feedback)
	g.emitDebug("PiecePlayed", feedback)
}
