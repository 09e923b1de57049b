package tetris

// Savepoint is one periodic snapshot of a replay: an unmodded clone of the
// game's state at snapshot time, plus how many input entries had been fed
// to reach it.
type Savepoint struct {
	Game         *Game
	InputsLoaded int
}

// Anchor steps g forward in chunks of interval in-game
// milliseconds, feeding every input due by each chunk boundary, and record
// a clone at each boundary. Modded games cannot be safely cloned (modifier
// internal state is opaque to the engine) and so are not anchored at all:
// Anchor returns (nil, false) for them.
func Anchor(g *Game, history []TimedButtonChange, interval Millis) ([]Savepoint, bool) {
	if len(g.modifiers) > 0 {
		return nil, false
	}
	if interval <= 0 {
		return nil, false
	}

	var snapshots []Savepoint
	idx := 0
	nextAnchor := g.state.Time + interval

	for g.phase.Kind != PhaseGameEnd {
		for idx < len(history) && history[idx].Time <= nextAnchor {
			change := history[idx].Change
			if _, err := g.Update(history[idx].Time, &change); err != nil {
				break
			}
			idx++
		}
		if g.phase.Kind == PhaseGameEnd {
			break
		}
		if _, err := g.Update(nextAnchor, nil); err != nil {
			break
		}
		if g.phase.Kind == PhaseGameEnd {
			break
		}

		snapshots = append(snapshots, Savepoint{Game: g.CloneUnmodded(), InputsLoaded: idx})

		if idx >= len(history) {
			// The recorded history is exhausted; further anchors would be
			// idle ticks carrying no new information, so stop here.
			break
		}
		nextAnchor += interval
	}

	return snapshots, true
}
