// Package tetris holds the board-geometry primitives of the engine: tetromino
// shapes, orientations, piece placement and the collision-free board grid.
// Nothing in this package knows about time, input, or game phases.
package tetris

import "fmt"

// Tetromino is one of the seven standard falling-block shapes. The ordinal is
// stable and doubles as the non-zero tile identifier stored on the board
// (TileID = ordinal + 1).
type Tetromino int

const (
	O Tetromino = iota
	I
	S
	Z
	T
	L
	J
)

// tetrominoCount is the number of standard shapes; it sizes this package's
// per-shape tables.
const tetrominoCount = 7

var tetrominoNames = [tetrominoCount]string{"O", "I", "S", "Z", "T", "L", "J"}

func (t Tetromino) String() string {
	if t < 0 || int(t) >= tetrominoCount {
		return fmt.Sprintf("Tetromino(%d)", int(t))
	}
	return tetrominoNames[t]
}

// TileID is the non-zero byte stored on the board for a locked cell of this
// tetromino. Values 1-7 are reserved for tetromino tiles (see Board doc).
func (t Tetromino) TileID() byte { return byte(t) + 1 }

// AllTetrominoes enumerates the seven shapes in ordinal order.
func AllTetrominoes() [tetrominoCount]Tetromino {
	return [tetrominoCount]Tetromino{O, I, S, Z, T, L, J}
}

// Orientation is one of the four quarter-turn rotation states of a piece.
type Orientation int

const (
	North Orientation = iota
	East
	South
	West
)

var orientationOrder = [4]Orientation{North, East, South, West}

// ReorientRight returns the orientation reached by turning n quarter turns
// clockwise (n may be negative).
func (o Orientation) ReorientRight(n int) Orientation {
	idx := ((int(o)+n)%4 + 4) % 4
	return orientationOrder[idx]
}

// Coord is a signed 2D board/offset coordinate.
type Coord struct {
	X, Y int
}

// addCoordChecked adds two coordinates, failing (ok=false) on signed overflow
// of either component. Board extents are tiny, but the engine must never
// silently wrap on adversarial or malformed offsets.
func addCoordChecked(a, b Coord) (Coord, bool) {
	x, ok := addIntChecked(a.X, b.X)
	if !ok {
		return Coord{}, false
	}
	y, ok := addIntChecked(a.Y, b.Y)
	if !ok {
		return Coord{}, false
	}
	return Coord{X: x, Y: y}, true
}

func addIntChecked(a, b int) (int, bool) {
	sum := a + b
	if b > 0 && sum < a {
		return 0, false
	}
	if b < 0 && sum > a {
		return 0, false
	}
	return sum, true
}

// pieceShapes gives, for each tetromino and orientation, the four relative
// cell offsets from the piece's anchor (the lower-left corner of its bounding
// box). O never rotates visually; its table still carries all four
// orientations (identical) so callers never special-case it.
//
// The rotation systems' kick-offset tables are authored against this exact
// anchoring, so the two must agree tile-for-tile or every kick in
// Classic/Super/Ocular misplaces the piece.
var pieceShapes = map[Tetromino][4][4]Coord{
	O: {
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	I: {
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
	},
	T: {
		{{0, 0}, {1, 0}, {2, 0}, {1, 1}},
		{{0, 0}, {0, 1}, {0, 2}, {1, 1}},
		{{1, 0}, {0, 1}, {2, 1}, {1, 1}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	S: {
		{{0, 0}, {1, 0}, {2, 1}, {1, 1}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {2, 1}, {1, 1}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	Z: {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 1}, {0, 1}, {1, 2}},
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 1}, {0, 1}, {1, 2}},
	},
	L: {
		{{0, 0}, {1, 0}, {2, 0}, {2, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {0, 2}},
		{{0, 0}, {1, 1}, {2, 1}, {0, 1}},
		{{1, 0}, {0, 2}, {1, 1}, {1, 2}},
	},
	J: {
		{{0, 0}, {1, 0}, {2, 0}, {0, 1}},
		{{0, 0}, {1, 2}, {0, 1}, {0, 2}},
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
}

// Piece is a tetromino placed on the board: shape, rotation state, and the
// (x, y) anchor of its bounding box's lower-left corner.
type Piece struct {
	Tetromino   Tetromino
	Orientation Orientation
	X, Y        int
}

// RelativeTiles returns the four cell offsets of the piece's current shape
// from its anchor.
func (p Piece) RelativeTiles() [4]Coord {
	return pieceShapes[p.Tetromino][p.Orientation]
}

// Tiles returns the four absolute (coord, tile-id) pairs the piece currently
// occupies.
func (p Piece) Tiles() [4]struct {
	Coord Coord
	Tile  byte
} {
	rel := p.RelativeTiles()
	id := p.Tetromino.TileID()
	var out [4]struct {
		Coord Coord
		Tile  byte
	}
	for i, c := range rel {
		out[i] = struct {
			Coord Coord
			Tile  byte
		}{Coord: Coord{X: p.X + c.X, Y: p.Y + c.Y}, Tile: id}
	}
	return out
}
