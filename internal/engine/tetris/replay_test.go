package tetris

import (
	"strings"
	"testing"
)

// scriptedPlay drives a handful of deterministic hard drops through g and
// returns the button-change history exactly as fed to Update, suitable for
// handing straight to Restore.
func scriptedPlay(t *testing.T, g *Game, drops int) []TimedButtonChange {
	t.Helper()
	var history []TimedButtonChange
	record := func(tm Millis, change *ButtonChange) {
		if _, err := g.Update(tm, change); err != nil && err != ErrGameEnded {
			t.Fatalf("Update(%d): %v", tm, err)
		}
		if change != nil {
			history = append(history, TimedButtonChange{Time: tm, Change: *change})
		}
	}

	tm := Millis(0)
	for i := 0; i < drops; i++ {
		record(tm, nil)
		record(tm, &ButtonChange{Button: DropHard, Pressed: true})
		tm += 300
	}
	return history
}

func TestRestoreReproducesIdenticalStateFromHistory(t *testing.T) {
	builder := NewGameBuilder().Seed(99)
	g1, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	history := scriptedPlay(t, g1, 6)

	g2, err := Restore(builder, nil, nil, history, len(history))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if g1.State().Score != g2.State().Score {
		t.Errorf("score mismatch: %d vs %d", g1.State().Score, g2.State().Score)
	}
	if g1.State().LineClears != g2.State().LineClears {
		t.Errorf("line clears mismatch: %d vs %d", g1.State().LineClears, g2.State().LineClears)
	}
	if g1.State().Time != g2.State().Time {
		t.Errorf("time mismatch: %d vs %d", g1.State().Time, g2.State().Time)
	}
	if g1.Phase().Kind != g2.Phase().Kind {
		t.Errorf("phase kind mismatch: %v vs %v", g1.Phase().Kind, g2.Phase().Kind)
	}
	for tet, n := range g1.State().PiecesLocked {
		if g2.State().PiecesLocked[tet] != n {
			t.Errorf("pieces locked for %v mismatch: %d vs %d", tet, n, g2.State().PiecesLocked[tet])
		}
	}
	r1, r2 := g1.State().Board.Rows(), g2.State().Board.Rows()
	if len(r1) != len(r2) {
		t.Fatalf("board row count mismatch: %d vs %d", len(r1), len(r2))
	}
	for y := range r1 {
		if r1[y] != r2[y] {
			t.Fatalf("board row %d mismatch: %v vs %v", y, r1[y], r2[y])
		}
	}
}

// TestCompressedReplayRoundTripRestoresFinalState is the full storage
// round trip: record a game, compress its history as a host would persist
// it, decompress, restore, and demand an identical final state.
func TestCompressedReplayRoundTripRestoresFinalState(t *testing.T) {
	builder := NewGameBuilder().Seed(103)
	g1, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	history := scriptedPlay(t, g1, 5)

	stored := Compress(history)
	recovered := Decompress(stored)

	g2, err := Restore(builder, nil, nil, recovered, len(recovered))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if g1.State().Score != g2.State().Score {
		t.Errorf("score mismatch after compressed round trip: %d vs %d", g1.State().Score, g2.State().Score)
	}
	if g1.State().Time != g2.State().Time {
		t.Errorf("time mismatch after compressed round trip: %d vs %d", g1.State().Time, g2.State().Time)
	}
	r1, r2 := g1.State().Board.Rows(), g2.State().Board.Rows()
	for y := range r1 {
		if r1[y] != r2[y] {
			t.Fatalf("board row %d mismatch after compressed round trip", y)
		}
	}
}

func TestRestorePartialIndexStopsEarly(t *testing.T) {
	builder := NewGameBuilder().Seed(100)
	g1, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	history := scriptedPlay(t, g1, 4)

	g2, err := Restore(builder, nil, nil, history, 2)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	sum := 0
	for _, n := range g2.State().PiecesLocked {
		sum += n
	}
	if sum != 2 {
		t.Fatalf("replaying only the first 2 (of 4) drop entries should lock exactly 2 pieces, got %d", sum)
	}
}

func TestRestoreWithUnreconstructableModifiersDegradesToSingleWarning(t *testing.T) {
	builder := NewGameBuilder().Seed(101)
	g, err := Restore(builder, []string{"UNKNOWN_MOD\n{}", "ALSO_UNKNOWN\n{}"}, nil, nil, 0)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(g.modifiers) != 1 {
		t.Fatalf("all reconstruction failures must coalesce into exactly one synthetic warning modifier, got %d", len(g.modifiers))
	}

	feedback, err := g.Update(0, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	var warnings []string
	for _, f := range feedback {
		if f.Message.Kind == FeedbackText {
			warnings = append(warnings, f.Message.Text)
		}
	}
	if len(warnings) != 1 {
		t.Fatalf("expected a single FeedbackText warning on the first tick, got %v", warnings)
	}
	for _, id := range []string{"UNKNOWN_MOD", "ALSO_UNKNOWN"} {
		if !strings.Contains(warnings[0], id) {
			t.Errorf("warning %q should name failed descriptor %s", warnings[0], id)
		}
	}

	// Subsequent ticks stay silent: the warning fires on the first tick only.
	feedback, err = g.Update(100, nil)
	if err != nil {
		t.Fatalf("second Update: %v", err)
	}
	for _, f := range feedback {
		if f.Message.Kind == FeedbackText {
			t.Errorf("the reconstruction warning must not repeat after the first tick, got %q", f.Message.Text)
		}
	}
}

func TestRestoreForcesSilentVerbosityDuringReplayThenRestoresIt(t *testing.T) {
	cfg := DefaultConfiguration()
	cfg.FeedbackVerbosity = Debug
	builder := NewGameBuilder().Config(cfg).Seed(102)
	g1, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	history := scriptedPlay(t, g1, 2)

	g2, err := Restore(builder, nil, nil, history, len(history))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if g2.Config().FeedbackVerbosity != Debug {
		t.Errorf("Restore should leave the caller's verbosity restored after replay, got %v", g2.Config().FeedbackVerbosity)
	}
}
