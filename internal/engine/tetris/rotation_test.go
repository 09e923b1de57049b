package tetris

import (
	"testing"

	"tetrisengine/internal/models/tetris"
)

func TestRotateZeroTurnsIsIdentityAcrossSystems(t *testing.T) {
	b := &tetris.Board{}
	p := tetris.Piece{Tetromino: tetris.T, Orientation: tetris.North, X: 3, Y: 5}
	for _, kind := range []RotationSystemKind{Ocular, Classic, Super} {
		rs := NewRotationSystem(kind)
		got, ok := rs.Rotate(p, b, 0)
		if !ok || got != p {
			t.Errorf("%v: Rotate(_, _, 0) = %v, %v; want unchanged piece", kind, got, ok)
		}
	}
}

func TestRotateOOnEmptyBoardIsAlwaysSameShape(t *testing.T) {
	b := &tetris.Board{}
	p := tetris.Piece{Tetromino: tetris.O, Orientation: tetris.North, X: 4, Y: 10}
	for _, kind := range []RotationSystemKind{Ocular, Classic, Super} {
		rs := NewRotationSystem(kind)
		for _, turns := range []int{1, -1, 2} {
			got, ok := rs.Rotate(p, b, turns)
			if !ok {
				t.Fatalf("%v: O rotation by %d turns failed to fit on an empty board", kind, turns)
			}
			if got.RelativeTiles() != p.RelativeTiles() {
				t.Errorf("%v: O's relative tile shape changed after a %d-turn rotation", kind, turns)
			}
		}
	}
}

// TestClassicSystemKicksTOnRightTurn pins down the classic system's single
// non-zero kick for a T piece turning right out of North: (1, -1), not the
// identity offset. Classic only ever checks the identity offset for
// 180-degree turns, never for 90-degree ones.
func TestClassicSystemKicksTOnRightTurn(t *testing.T) {
	b := &tetris.Board{}
	p := tetris.Piece{Tetromino: tetris.T, Orientation: tetris.North, X: 3, Y: 5}

	rs := classicSystem{}
	got, ok := rs.Rotate(p, b, 1)
	if !ok {
		t.Fatalf("expected T to rotate on an empty board")
	}
	if got.Orientation != tetris.East {
		t.Errorf("Rotate(_, 1).Orientation = %v, want East", got.Orientation)
	}
	if dx, dy := got.X-p.X, got.Y-p.Y; dx != 1 || dy != -1 {
		t.Errorf("classic kick for T North->East = (%d,%d), want (1,-1)", dx, dy)
	}
}

// TestClassicSystem180IsIdentityOnly confirms the classic 180-degree
// branch only ever tries the identity offset: it must fail outright when
// that exact footprint is blocked, even though a trivially nearby offset
// would fit.
func TestClassicSystem180IsIdentityOnly(t *testing.T) {
	b := &tetris.Board{}
	p := tetris.Piece{Tetromino: tetris.T, Orientation: tetris.North, X: 3, Y: 5}
	south := p
	south.Orientation = tetris.South
	for _, tile := range south.Tiles() {
		b.Set(tetris.Coord{X: tile.Coord.X + 1, Y: tile.Coord.Y}, tetris.TileGrey)
	}

	rs := classicSystem{}
	if _, ok := rs.Rotate(p, b, 2); ok {
		t.Fatalf("classic 180 must not kick away from the identity offset")
	}
}

func TestClassicKickTablePerShape(t *testing.T) {
	cases := []struct {
		tet         tetris.Tetromino
		orientation tetris.Orientation
		left        bool
		want        tetris.Coord
	}{
		{tetris.O, tetris.North, false, tetris.Coord{}},
		{tetris.O, tetris.East, true, tetris.Coord{}},
		{tetris.I, tetris.North, false, tetris.Coord{X: 2, Y: -1}},
		{tetris.I, tetris.South, true, tetris.Coord{X: 2, Y: -1}},
		{tetris.I, tetris.East, false, tetris.Coord{X: -2, Y: 1}},
		{tetris.S, tetris.North, false, tetris.Coord{X: 1}},
		{tetris.S, tetris.East, false, tetris.Coord{X: -1}},
		{tetris.Z, tetris.South, true, tetris.Coord{X: 1}},
		{tetris.T, tetris.North, true, tetris.Coord{Y: -1}},
		{tetris.T, tetris.North, false, tetris.Coord{X: 1, Y: -1}},
		{tetris.L, tetris.East, true, tetris.Coord{X: -1, Y: 1}},
		{tetris.J, tetris.East, false, tetris.Coord{X: -1}},
		{tetris.L, tetris.South, true, tetris.Coord{X: 1}},
		{tetris.J, tetris.South, false, tetris.Coord{}},
		{tetris.L, tetris.West, true, tetris.Coord{}},
		{tetris.J, tetris.West, false, tetris.Coord{Y: 1}},
	}
	for _, tc := range cases {
		got := classicKick(tc.tet, tc.orientation, tc.left)
		if got != tc.want {
			t.Errorf("classicKick(%v, %v, left=%v) = %v, want %v", tc.tet, tc.orientation, tc.left, got, tc.want)
		}
	}
}

func TestSuperSystemTriesKicksInOrder(t *testing.T) {
	b := &tetris.Board{}
	p := tetris.Piece{Tetromino: tetris.T, Orientation: tetris.North, X: 3, Y: 5}
	rs := superSystem{}
	got, ok := rs.Rotate(p, b, 1)
	if !ok {
		t.Fatalf("expected T to rotate on an empty board")
	}
	if got.Orientation != tetris.East {
		t.Errorf("Rotate(_, 1).Orientation = %v, want East", got.Orientation)
	}
	// On an empty board the first kick of the table always fits.
	want := p.Reoriented(superKicks90(tetris.T, tetris.North, false)[0], 1)
	if got != want {
		t.Errorf("Rotate(_, 1) = %+v, want %+v (first kick applied)", got, want)
	}
}

func TestSuperIKickTableNorthLeft(t *testing.T) {
	got := superKicks90(tetris.I, tetris.North, true)
	want := []tetris.Coord{{X: 1, Y: -2}, {Y: -2}, {X: 3, Y: -2}, {}, {X: 3, Y: -3}}
	if len(got) != len(want) {
		t.Fatalf("len(superKicks90(I, North, left)) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("superKicks90(I, North, left)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestSuperIKickTablesPerOrientation pins each orientation's own I table:
// unlike Classic and Ocular, Super's I kicks are not shared between North/
// South or East/West, and on an empty board the first offset alone already
// places the piece differently out of South and West.
func TestSuperIKickTablesPerOrientation(t *testing.T) {
	cases := []struct {
		orientation tetris.Orientation
		left        bool
		want        []tetris.Coord
	}{
		{tetris.North, false, []tetris.Coord{{X: 2, Y: -2}, {Y: -2}, {X: 3, Y: -2}, {Y: -3}, {X: 3}}},
		{tetris.East, true, []tetris.Coord{{X: -2, Y: 2}, {Y: 2}, {X: -3, Y: 2}, {Y: 3}, {X: -3}}},
		{tetris.East, false, []tetris.Coord{{X: -2, Y: 1}, {X: -3, Y: 1}, {Y: 1}, {X: -3, Y: 3}, {}}},
		{tetris.South, true, []tetris.Coord{{X: 2, Y: -1}, {X: 3, Y: -1}, {Y: -1}, {X: 3, Y: -3}, {}}},
		{tetris.South, false, []tetris.Coord{{X: 1, Y: -1}, {X: 3, Y: -1}, {Y: -1}, {X: 3}, {Y: -3}}},
		{tetris.West, true, []tetris.Coord{{X: -1, Y: 1}, {X: -3, Y: 1}, {Y: 1}, {X: -3}, {Y: 3}}},
		{tetris.West, false, []tetris.Coord{{X: -1, Y: 2}, {Y: 2}, {X: -3, Y: 2}, {}, {X: -3, Y: 3}}},
	}
	for _, tc := range cases {
		got := superKicks90(tetris.I, tc.orientation, tc.left)
		if len(got) != len(tc.want) {
			t.Fatalf("len(superKicks90(I, %v, left=%v)) = %d, want %d", tc.orientation, tc.left, len(got), len(tc.want))
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("superKicks90(I, %v, left=%v)[%d] = %v, want %v", tc.orientation, tc.left, i, got[i], tc.want[i])
			}
		}
	}
}

func TestSuperIRotatesOutOfSouthAndWestWithFirstOffset(t *testing.T) {
	b := &tetris.Board{}
	rs := superSystem{}

	south := tetris.Piece{Tetromino: tetris.I, Orientation: tetris.South, X: 3, Y: 10}
	got, ok := rs.Rotate(south, b, 1)
	if !ok {
		t.Fatalf("I South right turn should fit on an empty board")
	}
	if got.Orientation != tetris.West {
		t.Errorf("I South + right turn orientation = %v, want West", got.Orientation)
	}
	if dx, dy := got.X-south.X, got.Y-south.Y; dx != 1 || dy != -1 {
		t.Errorf("I South right kick = (%d,%d), want (1,-1)", dx, dy)
	}

	west := tetris.Piece{Tetromino: tetris.I, Orientation: tetris.West, X: 4, Y: 10}
	got, ok = rs.Rotate(west, b, -1)
	if !ok {
		t.Fatalf("I West left turn should fit on an empty board")
	}
	if got.Orientation != tetris.South {
		t.Errorf("I West + left turn orientation = %v, want South", got.Orientation)
	}
	if dx, dy := got.X-west.X, got.Y-west.Y; dx != -1 || dy != 1 {
		t.Errorf("I West left kick = (%d,%d), want (-1,1)", dx, dy)
	}
}

func TestOcularSystemDerivesZFromSBySymmetry(t *testing.T) {
	sOffsets := ocularKicks90(tetris.S, tetris.North, true)
	zOffsets := ocularKicks90(tetris.Z, tetris.North, false)
	if len(sOffsets) != len(zOffsets) {
		t.Fatalf("S and Z derived kick tables have different lengths: %d vs %d", len(sOffsets), len(zOffsets))
	}
	for i := range zOffsets {
		want := tetris.Coord{X: 1 - sOffsets[i].X, Y: sOffsets[i].Y}
		if zOffsets[i] != want {
			t.Errorf("Z offset %d = %v, want %v (mirror of S offset %v about x=1)", i, zOffsets[i], want, sOffsets[i])
		}
	}
}

func TestOcularOLeftTableHasFourCandidates(t *testing.T) {
	got := ocularKicks90(tetris.O, tetris.North, true)
	want := []tetris.Coord{{X: -1}, {X: -1, Y: -1}, {X: -1, Y: 1}, {}}
	if len(got) != len(want) {
		t.Fatalf("len(ocularKicks90(O, _, left)) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ocularKicks90(O, _, left)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOcularORightIsMirrorOfLeft(t *testing.T) {
	left := ocularKicks90(tetris.O, tetris.North, true)
	right := ocularKicks90(tetris.O, tetris.North, false)
	if len(left) != len(right) {
		t.Fatalf("O left/right kick tables have different lengths: %d vs %d", len(left), len(right))
	}
	for i := range left {
		want := tetris.Coord{X: -left[i].X, Y: left[i].Y}
		if right[i] != want {
			t.Errorf("O right offset %d = %v, want %v (mirror of left offset %v)", i, right[i], want, left[i])
		}
	}
}

func TestMirrorX(t *testing.T) {
	in := []tetris.Coord{{X: 1, Y: 2}, {X: -3, Y: 0}}
	out := mirrorX(in)
	want := []tetris.Coord{{X: -1, Y: 2}, {X: 3, Y: 0}}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("mirrorX[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestNewRotationSystemDefaultsToSuperForUnknownKind(t *testing.T) {
	rs := NewRotationSystem(RotationSystemKind(99))
	if _, ok := rs.(superSystem); !ok {
		t.Errorf("unknown rotation system kind should default to Super, got %T", rs)
	}
}
