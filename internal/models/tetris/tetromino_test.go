package tetris

import "testing"

func TestTetrominoString(t *testing.T) {
	cases := map[Tetromino]string{O: "O", I: "I", S: "S", Z: "Z", T: "T", L: "L", J: "J"}
	for tm, want := range cases {
		if got := tm.String(); got != want {
			t.Errorf("Tetromino(%d).String() = %q, want %q", int(tm), got, want)
		}
	}
	if got := Tetromino(99).String(); got != "Tetromino(99)" {
		t.Errorf("out-of-range String() = %q", got)
	}
}

func TestTileIDIsNonZeroAndStable(t *testing.T) {
	seen := map[byte]Tetromino{}
	for _, tm := range AllTetrominoes() {
		id := tm.TileID()
		if id == 0 {
			t.Errorf("%v.TileID() == 0, tile id must be non-zero", tm)
		}
		if other, ok := seen[id]; ok {
			t.Errorf("tile id %d collides between %v and %v", id, tm, other)
		}
		seen[id] = tm
	}
}

func TestReorientRightWrapsAndReverses(t *testing.T) {
	if got := North.ReorientRight(1); got != East {
		t.Errorf("North+1 = %v, want East", got)
	}
	if got := North.ReorientRight(4); got != North {
		t.Errorf("North+4 = %v, want North", got)
	}
	if got := North.ReorientRight(-1); got != West {
		t.Errorf("North-1 = %v, want West", got)
	}
	if got := West.ReorientRight(2); got != East {
		t.Errorf("West+2 = %v, want East", got)
	}
}

func TestORelativeTilesIdenticalAcrossOrientations(t *testing.T) {
	p := Piece{Tetromino: O}
	base := p.RelativeTiles()
	for _, o := range []Orientation{North, East, South, West} {
		p.Orientation = o
		if got := p.RelativeTiles(); got != base {
			t.Errorf("O tiles differ at orientation %v: %v vs %v", o, got, base)
		}
	}
}

func TestTilesAppliesAnchorOffset(t *testing.T) {
	p := Piece{Tetromino: T, Orientation: North, X: 3, Y: 4}
	for _, tile := range p.Tiles() {
		if tile.Tile != T.TileID() {
			t.Errorf("tile id = %d, want %d", tile.Tile, T.TileID())
		}
	}
	rel := p.RelativeTiles()
	tiles := p.Tiles()
	for i, r := range rel {
		want := Coord{X: p.X + r.X, Y: p.Y + r.Y}
		if tiles[i].Coord != want {
			t.Errorf("tile %d coord = %v, want %v", i, tiles[i].Coord, want)
		}
	}
}
