package tetris

import "testing"

func TestCompressDecompressRoundTrip(t *testing.T) {
	history := []TimedButtonChange{
		{Time: 1000, Change: ButtonChange{Button: MoveLeft, Pressed: true}},
		{Time: 1167, Change: ButtonChange{Button: MoveLeft, Pressed: false}},
		{Time: 1200, Change: ButtonChange{Button: DropHard, Pressed: true}},
		{Time: 5000, Change: ButtonChange{Button: HoldPiece, Pressed: true}},
	}

	compressed := Compress(history)
	if len(compressed) != len(history) {
		t.Fatalf("Compress produced %d values, want %d", len(compressed), len(history))
	}

	got := Decompress(compressed)
	if len(got) != len(history) {
		t.Fatalf("Decompress produced %d entries, want %d", len(got), len(history))
	}
	for i, want := range history {
		if got[i] != want {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want)
		}
	}
}

func TestCompressSingleEntryUsesAbsoluteTime(t *testing.T) {
	history := []TimedButtonChange{{Time: 42, Change: ButtonChange{Button: RotateRight, Pressed: true}}}
	compressed := Compress(history)
	got := Decompress(compressed)
	if got[0].Time != 42 {
		t.Errorf("first entry round-tripped to time %d, want 42", got[0].Time)
	}
}

func TestCompressEncodesEveryButtonAndPressState(t *testing.T) {
	buttons := []Button{
		MoveLeft, MoveRight, RotateLeft, RotateRight, RotateAround,
		DropSoft, DropHard, TeleDown, TeleLeft, TeleRight, HoldPiece,
	}
	var history []TimedButtonChange
	var tm Millis
	for _, b := range buttons {
		for _, pressed := range []bool{true, false} {
			history = append(history, TimedButtonChange{Time: tm, Change: ButtonChange{Button: b, Pressed: pressed}})
			tm += 17
		}
	}

	got := Decompress(Compress(history))
	for i, want := range history {
		if got[i].Change != want.Change {
			t.Errorf("entry %d change = %+v, want %+v", i, got[i].Change, want.Change)
		}
		if got[i].Time != want.Time {
			t.Errorf("entry %d time = %d, want %d", i, got[i].Time, want.Time)
		}
	}
}

func TestCompressEmptyHistory(t *testing.T) {
	if got := Compress(nil); len(got) != 0 {
		t.Errorf("Compress(nil) = %v, want empty", got)
	}
	if got := Decompress(nil); len(got) != 0 {
		t.Errorf("Decompress(nil) = %v, want empty", got)
	}
}
