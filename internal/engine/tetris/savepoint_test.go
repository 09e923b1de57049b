package tetris

import "testing"

func TestAnchorModdedGameIsNotSnapshotted(t *testing.T) {
	g, err := NewGameBuilder().Seed(30).BuildModded([]Modifier{NewDropBonusModifier(1, 1)})
	if err != nil {
		t.Fatalf("BuildModded: %v", err)
	}
	snapshots, ok := Anchor(g, nil, 100)
	if ok {
		t.Fatalf("Anchor should refuse modded games")
	}
	if snapshots != nil {
		t.Errorf("expected nil snapshots for a refused anchor, got %v", snapshots)
	}
}

func TestAnchorRejectsNonPositiveInterval(t *testing.T) {
	g, err := NewGameBuilder().Seed(31).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := Anchor(g, nil, 0); ok {
		t.Errorf("Anchor should reject a zero interval")
	}
	if _, ok := Anchor(g, nil, -100); ok {
		t.Errorf("Anchor should reject a negative interval")
	}
}

// TestSavepointSeekMatchesFullPlayback checks the seek property: resuming
// from any snapshot with the remaining recorded inputs reaches the same
// state as playing the whole history from scratch.
func TestSavepointSeekMatchesFullPlayback(t *testing.T) {
	history := []TimedButtonChange{
		{Time: 50, Change: ButtonChange{Button: DropHard, Pressed: true}},
		{Time: 450, Change: ButtonChange{Button: DropHard, Pressed: true}},
		{Time: 850, Change: ButtonChange{Button: DropHard, Pressed: true}},
		{Time: 1250, Change: ButtonChange{Button: DropHard, Pressed: true}},
	}
	const finalTime = Millis(2000)

	full, err := NewGameBuilder().Seed(33).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, h := range history {
		change := h.Change
		if _, err := full.Update(h.Time, &change); err != nil {
			t.Fatalf("full playback Update(%d): %v", h.Time, err)
		}
	}
	if _, err := full.Update(finalTime, nil); err != nil {
		t.Fatalf("full playback final tick: %v", err)
	}

	anchored, err := NewGameBuilder().Seed(33).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	snapshots, ok := Anchor(anchored, history, 300)
	if !ok || len(snapshots) == 0 {
		t.Fatalf("Anchor failed to produce snapshots")
	}

	for i, sp := range snapshots {
		resumed := sp.Game.CloneUnmodded()
		for _, h := range history[sp.InputsLoaded:] {
			change := h.Change
			if _, err := resumed.Update(h.Time, &change); err != nil {
				t.Fatalf("snapshot %d resume Update(%d): %v", i, h.Time, err)
			}
		}
		if _, err := resumed.Update(finalTime, nil); err != nil {
			t.Fatalf("snapshot %d resume final tick: %v", i, err)
		}

		if resumed.State().Score != full.State().Score {
			t.Errorf("snapshot %d: score %d after seek, want %d", i, resumed.State().Score, full.State().Score)
		}
		if resumed.State().LineClears != full.State().LineClears {
			t.Errorf("snapshot %d: lineclears %d after seek, want %d", i, resumed.State().LineClears, full.State().LineClears)
		}
		r1, r2 := resumed.State().Board.Rows(), full.State().Board.Rows()
		for y := range r1 {
			if r1[y] != r2[y] {
				t.Fatalf("snapshot %d: board row %d diverged after seek", i, y)
			}
		}
	}
}

func TestAnchorProducesSnapshotsAtEachIntervalBoundary(t *testing.T) {
	g, err := NewGameBuilder().Seed(32).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	history := []TimedButtonChange{
		{Time: 50, Change: ButtonChange{Button: DropHard, Pressed: true}},
		{Time: 450, Change: ButtonChange{Button: DropHard, Pressed: true}},
		{Time: 850, Change: ButtonChange{Button: DropHard, Pressed: true}},
	}

	snapshots, ok := Anchor(g, history, 300)
	if !ok {
		t.Fatalf("Anchor should succeed for an unmodded game with a positive interval")
	}
	if len(snapshots) == 0 {
		t.Fatalf("expected at least one snapshot")
	}

	for i, sp := range snapshots {
		wantTime := Millis(300 * (i + 1))
		if sp.Game.State().Time != wantTime {
			t.Errorf("snapshot %d time = %d, want %d", i, sp.Game.State().Time, wantTime)
		}
		if i > 0 && sp.InputsLoaded < snapshots[i-1].InputsLoaded {
			t.Errorf("InputsLoaded should be non-decreasing across snapshots, got %d after %d", sp.InputsLoaded, snapshots[i-1].InputsLoaded)
		}
	}

	last := snapshots[len(snapshots)-1]
	if last.InputsLoaded != len(history) {
		t.Errorf("the final snapshot should have consumed all recorded inputs once they're exhausted, got %d/%d", last.InputsLoaded, len(history))
	}

	// The snapshot clones must be independent of the live game g continues
	// to mutate.
	if _, err := g.Update(g.State().Time+1000, nil); err != nil && err != ErrGameEnded {
		t.Fatalf("advance live game: %v", err)
	}
	if snapshots[0].Game.State().Time == g.State().Time {
		t.Errorf("snapshot clone should not track further mutation of the live game")
	}
}
