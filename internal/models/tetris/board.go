package tetris

// Board dimensions. Height is the visible "skyline" plus an overflow buffer
// that lets a piece spawn and briefly rest above the stack without ending the
// game outright; only a fully-above-skyline lock or a blocked spawn ends it.
const (
	BoardWidth   = 10
	SkylineY     = 20
	OverflowRows = 7
	BoardHeight  = SkylineY + OverflowRows
)

// Reserved non-tetromino tile ids. 1-7 are tetromino tiles (Tetromino.TileID).
const (
	TileGrey  byte = 253
	TileBlack byte = 254
	TileWhite byte = 255
)

// Board is a fixed 10x(skyline+overflow) grid of tile ids, indexed [y][x]
// with y=0 at the floor and y increasing upward. A zero-value Board is empty
// and ready to use.
type Board struct {
	cells [BoardHeight][BoardWidth]byte
}

// InBounds reports whether (x, y) is a valid board coordinate.
func InBounds(c Coord) bool {
	return c.X >= 0 && c.X < BoardWidth && c.Y >= 0 && c.Y < BoardHeight
}

// Get returns the tile id at c, or 0 (empty) if c is out of bounds.
func (b *Board) Get(c Coord) byte {
	if !InBounds(c) {
		return 0
	}
	return b.cells[c.Y][c.X]
}

// Set writes a tile id at c. Out-of-bounds writes are a no-op; callers that
// must detect this should check InBounds first.
func (b *Board) Set(c Coord, tile byte) {
	if !InBounds(c) {
		return
	}
	b.cells[c.Y][c.X] = tile
}

// IsEmpty reports whether c holds no tile (and is in bounds).
func (b *Board) IsEmpty(c Coord) bool {
	return InBounds(c) && b.cells[c.Y][c.X] == 0
}

// Fits reports whether every tile of p lies inside the board on an empty
// cell.
func (p Piece) Fits(b *Board) bool {
	for _, t := range p.Tiles() {
		if !InBounds(t.Coord) || !b.IsEmpty(t.Coord) {
			return false
		}
	}
	return true
}

// FitsAt reports whether p, translated by offset, fits the board. It does
// not mutate p.
func (p Piece) FitsAt(b *Board, offset Coord) bool {
	moved, ok := p.translated(offset)
	if !ok {
		return false
	}
	return moved.Fits(b)
}

// translated returns p translated by offset and whether the addition did not
// overflow.
func (p Piece) translated(offset Coord) (Piece, bool) {
	c, ok := addCoordChecked(Coord{X: p.X, Y: p.Y}, offset)
	if !ok {
		return Piece{}, false
	}
	out := p
	out.X, out.Y = c.X, c.Y
	return out, true
}

// Teleported returns p translated by offset, unconditionally (no fit check).
// Used by the engine after a fit check has already succeeded elsewhere.
func (p Piece) Teleported(offset Coord) Piece {
	moved, ok := p.translated(offset)
	if !ok {
		return p
	}
	return moved
}

// FitsAtReoriented reports whether p, first turned by rightTurns quarter
// turns and then translated by offset, fits the board.
func (p Piece) FitsAtReoriented(b *Board, offset Coord, rightTurns int) bool {
	turned := p
	turned.Orientation = p.Orientation.ReorientRight(rightTurns)
	return turned.FitsAt(b, offset)
}

// Reoriented returns p turned by rightTurns quarter turns and translated by
// offset, without any fit check.
func (p Piece) Reoriented(offset Coord, rightTurns int) Piece {
	turned := p
	turned.Orientation = p.Orientation.ReorientRight(rightTurns)
	return turned.Teleported(offset)
}

// FirstFit tries each offset in order, turning the piece by rightTurns and
// applying that offset; it returns the first placement that fits and true,
// or the zero Piece and false if none fit. This is the kick-table probe used
// by the rotation system.
func (p Piece) FirstFit(b *Board, offsets []Coord, rightTurns int) (Piece, bool) {
	for _, off := range offsets {
		if p.FitsAtReoriented(b, off, rightTurns) {
			return p.Reoriented(off, rightTurns), true
		}
	}
	return Piece{}, false
}

// Merge writes every tile of p into the board. Callers are expected to have
// already verified p.Fits(b); Merge itself does not check.
func (b *Board) Merge(p Piece) {
	for _, t := range p.Tiles() {
		b.Set(t.Coord, t.Tile)
	}
}

// AllAboveSkyline reports whether every tile of p has Y >= SkylineY.
func (p Piece) AllAboveSkyline() bool {
	for _, t := range p.Tiles() {
		if t.Coord.Y < SkylineY {
			return false
		}
	}
	return true
}

// RowFull reports whether row y is completely filled with non-empty cells.
func (b *Board) RowFull(y int) bool {
	if y < 0 || y >= BoardHeight {
		return false
	}
	for x := 0; x < BoardWidth; x++ {
		if b.cells[y][x] == 0 {
			return false
		}
	}
	return true
}

// RowEmpty reports whether row y is completely empty.
func (b *Board) RowEmpty(y int) bool {
	if y < 0 || y >= BoardHeight {
		return true
	}
	for x := 0; x < BoardWidth; x++ {
		if b.cells[y][x] != 0 {
			return false
		}
	}
	return true
}

// ClearFullRows removes every completely filled row, drops the rows above
// down to fill the gaps, and returns the cleared row indices in ascending
// order (the count is len of the result).
func (b *Board) ClearFullRows() []int {
	var cleared []int
	for y := 0; y < BoardHeight; y++ {
		if b.RowFull(y) {
			cleared = append(cleared, y)
		}
	}
	if len(cleared) == 0 {
		return nil
	}

	write := 0
	for read := 0; read < BoardHeight; read++ {
		if b.RowFull(read) {
			continue
		}
		if write != read {
			b.cells[write] = b.cells[read]
		}
		write++
	}
	for ; write < BoardHeight; write++ {
		b.cells[write] = [BoardWidth]byte{}
	}
	return cleared
}

// IsEmptyBoard reports whether every cell on the board is empty, i.e. a
// perfect clear just happened.
func (b *Board) IsEmptyBoard() bool {
	for y := 0; y < BoardHeight; y++ {
		if !b.RowEmpty(y) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := *b
	return &out
}

// Rows returns a copy of the board's rows, bottom (y=0) first. Intended for
// modifiers that need to shift the stack (e.g. garbage injection).
func (b *Board) Rows() [][BoardWidth]byte {
	out := make([][BoardWidth]byte, BoardHeight)
	copy(out, b.cells[:])
	return out
}

// SetRows replaces the board's rows with rows, bottom (y=0) first. If rows
// has fewer than BoardHeight entries the remainder is left empty; if it has
// more, the lowest-index excess rows (the bottom of whatever was passed in)
// are dropped so the board keeps exactly BoardHeight rows.
func (b *Board) SetRows(rows [][BoardWidth]byte) {
	b.cells = [BoardHeight][BoardWidth]byte{}
	start := 0
	if len(rows) > BoardHeight {
		start = len(rows) - BoardHeight
	}
	for i, row := range rows[start:] {
		b.cells[i] = row
	}
}
