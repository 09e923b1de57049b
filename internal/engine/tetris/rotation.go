package tetris

import "tetrisengine/internal/models/tetris"

// RotationSystem attempts to rotate a piece by rightTurns quarter turns
// against a board, trying kick offsets in order until one fits. rightTurns
// of 0 always succeeds and returns the input unchanged.
type RotationSystem interface {
	Rotate(p tetris.Piece, b *tetris.Board, rightTurns int) (tetris.Piece, bool)
}

// NewRotationSystem builds the rotation system named by kind.
func NewRotationSystem(kind RotationSystemKind) RotationSystem {
	switch kind {
	case Classic:
		return classicSystem{}
	case Super:
		return superSystem{}
	case Ocular:
		return ocularSystem{}
	default:
		return superSystem{}
	}
}

// turnMod4 reduces a right-turn count to its canonical value in [0, 4),
// the form every rotation system below dispatches on.
func turnMod4(rightTurns int) int {
	m := rightTurns % 4
	if m < 0 {
		m += 4
	}
	return m
}

// reorientHorizontally mirrors an orientation left-right (N and S are fixed
// points; E and W swap), used by T and J to fall back on a mirrored
// sibling shape's kicks.
func reorientHorizontally(o tetris.Orientation) tetris.Orientation {
	switch o {
	case tetris.East:
		return tetris.West
	case tetris.West:
		return tetris.East
	default:
		return o
	}
}

// mirrorX negates the X component of every offset, turning a kick table
// authored for one chirality of a shape into the table for its mirror
// image (S<->Z, J<->L) or for a shape's mirrored orientation (T-E<->T-W,
// O-left<->O-right).
func mirrorX(offsets []tetris.Coord) []tetris.Coord {
	out := make([]tetris.Coord, len(offsets))
	for i, o := range offsets {
		out[i] = tetris.Coord{X: -o.X, Y: o.Y}
	}
	return out
}

// rotateIdentity fits p reoriented by rightTurns with no translation at all.
// Classic uses this verbatim for 180-degree turns, for which it defines no
// wall kick (a 0-degree turn returns the piece unchanged without a fit check).
func rotateIdentity(p tetris.Piece, b *tetris.Board, rightTurns int) (tetris.Piece, bool) {
	if p.FitsAtReoriented(b, tetris.Coord{}, rightTurns) {
		return p.Reoriented(tetris.Coord{}, rightTurns), true
	}
	return p, false
}

// classicSystem is the right-handed variant of NES-style rotation: a
// single, usually non-zero kick per (shape, orientation, turn direction)
// for 90° turns, and no kick at all for 180° turns (just the
// identity-offset reorientation, succeeding or failing outright).
type classicSystem struct{}

func (classicSystem) Rotate(p tetris.Piece, b *tetris.Board, rightTurns int) (tetris.Piece, bool) {
	switch turnMod4(rightTurns) {
	case 0:
		return p, true
	case 2:
		return rotateIdentity(p, b, rightTurns)
	}
	left := turnMod4(rightTurns) == 3
	kick := classicKick(p.Tetromino, p.Orientation, left)
	if p.FitsAtReoriented(b, kick, rightTurns) {
		return p.Reoriented(kick, rightTurns), true
	}
	return p, false
}

func classicKick(tet tetris.Tetromino, orientation tetris.Orientation, left bool) tetris.Coord {
	switch tet {
	case tetris.O:
		return tetris.Coord{}
	case tetris.I:
		if orientation == tetris.North || orientation == tetris.South {
			return tetris.Coord{X: 2, Y: -1}
		}
		return tetris.Coord{X: -2, Y: 1}
	case tetris.S, tetris.Z:
		if orientation == tetris.North || orientation == tetris.South {
			return tetris.Coord{X: 1}
		}
		return tetris.Coord{X: -1}
	default: // T, L, J
		switch orientation {
		case tetris.North:
			if left {
				return tetris.Coord{Y: -1}
			}
			return tetris.Coord{X: 1, Y: -1}
		case tetris.East:
			if left {
				return tetris.Coord{X: -1, Y: 1}
			}
			return tetris.Coord{X: -1}
		case tetris.South:
			if left {
				return tetris.Coord{X: 1}
			}
			return tetris.Coord{}
		default: // West
			if left {
				return tetris.Coord{}
			}
			return tetris.Coord{Y: 1}
		}
	}
}

// superSystem is the Super Rotation System: an ordered kick list tried in
// sequence per (shape, orientation, turn), with the I-piece and the 180°
// turn each getting their own tables.
type superSystem struct{}

func (superSystem) Rotate(p tetris.Piece, b *tetris.Board, rightTurns int) (tetris.Piece, bool) {
	mod := turnMod4(rightTurns)
	if mod == 0 {
		return p, true
	}
	if mod == 2 {
		return p.FirstFit(b, superKicks180(p.Tetromino, p.Orientation), rightTurns)
	}
	left := mod == 3
	return p.FirstFit(b, superKicks90(p.Tetromino, p.Orientation, left), rightTurns)
}

func superKicks180(tet tetris.Tetromino, orientation tetris.Orientation) []tetris.Coord {
	switch tet {
	case tetris.O, tetris.I, tetris.S, tetris.Z:
		return []tetris.Coord{{}}
	default: // T, L, J
		switch orientation {
		case tetris.North:
			return []tetris.Coord{{Y: -1}, {}}
		case tetris.East:
			return []tetris.Coord{{X: -1}, {}}
		case tetris.South:
			return []tetris.Coord{{Y: 1}, {}}
		default: // West
			return []tetris.Coord{{X: 1}, {}}
		}
	}
}

func superKicks90(tet tetris.Tetromino, orientation tetris.Orientation, left bool) []tetris.Coord {
	switch tet {
	case tetris.O:
		return []tetris.Coord{{}}
	case tetris.I:
		// Unlike Classic and Ocular, the I tables here are not collapsed by
		// symmetry: all four orientations carry their own kick list.
		switch orientation {
		case tetris.North:
			if left {
				return []tetris.Coord{{X: 1, Y: -2}, {Y: -2}, {X: 3, Y: -2}, {}, {X: 3, Y: -3}}
			}
			return []tetris.Coord{{X: 2, Y: -2}, {Y: -2}, {X: 3, Y: -2}, {Y: -3}, {X: 3}}
		case tetris.East:
			if left {
				return []tetris.Coord{{X: -2, Y: 2}, {Y: 2}, {X: -3, Y: 2}, {Y: 3}, {X: -3}}
			}
			return []tetris.Coord{{X: -2, Y: 1}, {X: -3, Y: 1}, {Y: 1}, {X: -3, Y: 3}, {}}
		case tetris.South:
			if left {
				return []tetris.Coord{{X: 2, Y: -1}, {X: 3, Y: -1}, {Y: -1}, {X: 3, Y: -3}, {}}
			}
			return []tetris.Coord{{X: 1, Y: -1}, {X: 3, Y: -1}, {Y: -1}, {X: 3}, {Y: -3}}
		default: // West
			if left {
				return []tetris.Coord{{X: -1, Y: 1}, {X: -3, Y: 1}, {Y: 1}, {X: -3}, {Y: 3}}
			}
			return []tetris.Coord{{X: -1, Y: 2}, {Y: 2}, {X: -3, Y: 2}, {}, {X: -3, Y: 3}}
		}
	default: // S, Z, T, L, J share one table
		switch orientation {
		case tetris.North:
			if left {
				return []tetris.Coord{{Y: -1}, {X: 1, Y: -1}, {X: 1}, {Y: -3}, {X: 1, Y: -3}}
			}
			return []tetris.Coord{{X: 1, Y: -1}, {Y: -1}, {}, {X: 1, Y: -3}, {Y: -3}}
		case tetris.East:
			if left {
				return []tetris.Coord{{X: -1, Y: 1}, {Y: 1}, {}, {X: -1, Y: 3}, {Y: 3}}
			}
			return []tetris.Coord{{X: -1}, {}, {Y: -1}, {X: -1, Y: 2}, {Y: 2}}
		case tetris.South:
			if left {
				return []tetris.Coord{{X: 1}, {}, {X: -1, Y: 1}, {X: 1, Y: -2}, {Y: -2}}
			}
			return []tetris.Coord{{}, {X: 1}, {X: 1, Y: 1}, {Y: -2}, {X: 1, Y: -2}}
		default: // West
			if left {
				return []tetris.Coord{{}, {X: -1}, {X: -1, Y: -1}, {Y: 2}, {X: -1, Y: 2}}
			}
			return []tetris.Coord{{Y: 1}, {X: -1, Y: 1}, {X: -1}, {Y: 3}, {X: -1, Y: 3}}
		}
	}
}

// ocularSystem rotates around a visually intuitive pivot: kicks are
// authored directly for a minority of shapes/orientations, with the rest
// derived by exploiting mirror symmetry (O, I-right, Z, T-West, J all fall
// back on a mirrored sibling). The 90° tables mirror with a manual x
// offset rather than a pure negation.
type ocularSystem struct{}

func (ocularSystem) Rotate(p tetris.Piece, b *tetris.Board, rightTurns int) (tetris.Piece, bool) {
	mod := turnMod4(rightTurns)
	switch mod {
	case 0:
		return p, true
	case 2:
		return p.FirstFit(b, ocularKicks180(p.Tetromino, p.Orientation), rightTurns)
	default:
		left := mod == 3
		return p.FirstFit(b, ocularKicks90(p.Tetromino, p.Orientation, left), rightTurns)
	}
}

// ocularKicks180 resolves the 180° kick table, applying a plain X-mirror
// (no manual offset) when symmetry redirects to a sibling
// shape/orientation.
func ocularKicks180(tet tetris.Tetromino, orientation tetris.Orientation) []tetris.Coord {
	switch tet {
	case tetris.O, tetris.I:
		return []tetris.Coord{{}}
	case tetris.S:
		if orientation == tetris.North || orientation == tetris.South {
			return []tetris.Coord{{X: -1, Y: -1}, {}}
		}
		return []tetris.Coord{{X: 1, Y: -1}, {}}
	case tetris.Z:
		// Symmetry: Z's 180° rotation is a mirrored version of S'.
		return mirrorX(ocularKicks180(tetris.S, orientation))
	case tetris.T:
		switch orientation {
		case tetris.North:
			return []tetris.Coord{{Y: -1}, {}}
		case tetris.East:
			return []tetris.Coord{{X: -1}, {}, {X: -1, Y: -1}}
		case tetris.South:
			return []tetris.Coord{{Y: 1}, {}, {Y: -1}}
		default: // West
			// Symmetry: T's 180° rotation oriented West is same as mirrored East.
			return mirrorX(ocularKicks180(tetris.T, reorientHorizontally(orientation)))
		}
	case tetris.L:
		switch orientation {
		case tetris.North:
			return []tetris.Coord{{Y: -1}, {X: 1, Y: -1}, {X: -1, Y: -1}, {}, {X: 1}}
		case tetris.East:
			return []tetris.Coord{{X: -1}, {X: -1, Y: -1}, {}, {Y: -1}}
		case tetris.South:
			return []tetris.Coord{{Y: 1}, {}, {X: -1, Y: 1}, {X: -1}}
		default: // West
			return []tetris.Coord{{X: 1}, {}, {X: 1, Y: -1}, {X: 1, Y: 1}, {Y: 1}}
		}
	default: // J
		// Symmetry: J's 180° rotation is a mirrored version of L's.
		return mirrorX(ocularKicks180(tetris.L, reorientHorizontally(orientation)))
	}
}

// ocularBase90 resolves the 90° kick table before any mirror transform is
// applied, returning the literal table plus the manual mirror-x (if the
// shape/orientation/direction redirects to a mirrored sibling; nil means no
// mirroring at all). Mirroring here is (mx - x, y), not a pure negation.
func ocularBase90(tet tetris.Tetromino, orientation tetris.Orientation, left bool) (table []tetris.Coord, mirrorDX *int) {
	switch tet {
	case tetris.O:
		if left {
			return []tetris.Coord{{X: -1}, {X: -1, Y: -1}, {X: -1, Y: 1}, {}}, nil
		}
		base, _ := ocularBase90(tetris.O, orientation, true)
		dx := 0
		return base, &dx

	case tetris.I:
		if left {
			if orientation == tetris.North || orientation == tetris.South {
				return []tetris.Coord{
					{X: 1, Y: -1}, {X: 1, Y: -2}, {X: 1, Y: -3}, {Y: -1}, {Y: -2}, {Y: -3},
					{X: 1}, {}, {X: 2, Y: -1}, {X: 2, Y: -2},
				}, nil
			}
			return []tetris.Coord{
				{X: -2, Y: 1}, {X: -3, Y: 1}, {X: -2}, {X: -3}, {X: -1, Y: 1}, {X: -1}, {Y: 1}, {},
			}, nil
		}
		dx := -3
		if orientation == tetris.North || orientation == tetris.South {
			dx = 3
		}
		base, _ := ocularBase90(tetris.I, orientation, true)
		return base, &dx

	case tetris.S:
		if orientation == tetris.North || orientation == tetris.South {
			if left {
				return []tetris.Coord{{}, {Y: -1}, {X: 1}, {X: -1, Y: -1}}, nil
			}
			return []tetris.Coord{{X: 1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {}, {Y: -1}}, nil
		}
		if left {
			return []tetris.Coord{{X: -1}, {}, {X: -1, Y: -1}, {X: -1, Y: 1}, {Y: 1}}, nil
		}
		return []tetris.Coord{{}, {X: -1}, {Y: -1}, {X: 1}, {Y: 1}, {X: -1, Y: 1}}, nil

	case tetris.Z:
		// Symmetry: Z's left/right rotation is a mirrored version of S's
		// right/left rotation.
		dx := -1
		if orientation == tetris.North || orientation == tetris.South {
			dx = 1
		}
		base, _ := ocularBase90(tetris.S, orientation, !left)
		return base, &dx

	case tetris.T:
		if left {
			switch orientation {
			case tetris.North:
				return []tetris.Coord{{Y: -1}, {}, {X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: -2}, {X: 1}}, nil
			case tetris.East:
				return []tetris.Coord{{X: -1, Y: 1}, {X: -1}, {Y: 1}, {}, {X: -1, Y: -1}, {X: -1, Y: 2}}, nil
			case tetris.South:
				return []tetris.Coord{{X: 1}, {}, {X: 1, Y: -1}, {Y: -1}, {X: 1, Y: -2}, {X: 2}}, nil
			default: // West
				return []tetris.Coord{{}, {X: -1}, {Y: -1}, {X: -1, Y: -1}, {X: 1, Y: -1}, {Y: 1}, {X: -1, Y: 1}}, nil
			}
		}
		// Symmetry: T's right rotation is a mirrored version of left rotation
		// if reoriented.
		dx := -1
		if orientation == tetris.North || orientation == tetris.South {
			dx = 1
		}
		base, _ := ocularBase90(tetris.T, reorientHorizontally(orientation), true)
		return base, &dx

	case tetris.L:
		switch orientation {
		case tetris.North:
			if left {
				return []tetris.Coord{{Y: -1}, {X: 1, Y: -1}, {Y: -2}, {X: 1, Y: -2}, {}, {X: 1}}, nil
			}
			return []tetris.Coord{{X: 1, Y: -1}, {X: 1}, {X: 1, Y: -1}, {X: 2}, {Y: -1}, {}}, nil
		case tetris.East:
			if left {
				return []tetris.Coord{{X: -1, Y: 1}, {X: -1}, {X: -2, Y: 1}, {X: -2}, {}, {Y: 1}}, nil
			}
			return []tetris.Coord{{X: -1}, {}, {Y: -1}, {X: -1, Y: -1}, {Y: 1}, {X: -1, Y: 1}}, nil
		case tetris.South:
			if left {
				return []tetris.Coord{{X: 1}, {}, {X: 1, Y: -1}, {Y: -1}, {Y: 1}, {X: 1, Y: 1}}, nil
			}
			return []tetris.Coord{{}, {Y: -1}, {X: 1, Y: -1}, {X: -1, Y: -1}, {X: 1}, {X: -1}, {Y: 1}}, nil
		default: // West
			if left {
				return []tetris.Coord{
					{}, {X: -1}, {Y: 1}, {X: 1}, {X: -1, Y: 1}, {X: 1, Y: 1}, {Y: -1}, {X: -1, Y: -1},
				}, nil
			}
			return []tetris.Coord{{Y: 1}, {X: -1, Y: 1}, {}, {X: -1}, {Y: 2}, {X: -1, Y: 2}}, nil
		}

	default: // J
		// Symmetry: J's left/right rotation is a mirrored version of L's
		// right/left rotation if reoriented.
		dx := -1
		if orientation == tetris.North || orientation == tetris.South {
			dx = 1
		}
		base, _ := ocularBase90(tetris.L, reorientHorizontally(orientation), !left)
		return base, &dx
	}
}

func ocularKicks90(tet tetris.Tetromino, orientation tetris.Orientation, left bool) []tetris.Coord {
	base, mirrorDX := ocularBase90(tet, orientation, left)
	if mirrorDX == nil {
		return base
	}
	mx := *mirrorDX
	out := make([]tetris.Coord, len(base))
	for i, o := range base {
		out[i] = tetris.Coord{X: mx - o.X, Y: o.Y}
	}
	return out
}
