package tetris

import "tetrisengine/internal/models/tetris"

// Generator is a stateful producer of an infinite tetromino stream. Next is
// a pure function of the generator's own internal state plus the engine's
// RNG (reached through s); restoring both restores the stream exactly,
// which is what makes replay and savepoint restoration deterministic.
type Generator interface {
	Next(s *State) tetris.Tetromino
	Clone() Generator
	Kind() GeneratorKind
}

// NewGenerator builds the generator named by kind.
func NewGenerator(kind GeneratorKind) Generator {
	switch kind {
	case UniformGenerator:
		return &uniformGenerator{}
	case BagGenerator:
		return &bagGenerator{}
	case RecencyWeightedGenerator:
		return &recencyWeightedGenerator{lastSeen: map[tetris.Tetromino]int{}}
	case BalanceRelativeGenerator:
		return &balanceRelativeGenerator{counts: map[tetris.Tetromino]int{}}
	default:
		return &bagGenerator{}
	}
}

// uniformGenerator samples each of the seven shapes independently and
// uniformly.
type uniformGenerator struct{}

func (g *uniformGenerator) Next(s *State) tetris.Tetromino {
	all := tetris.AllTetrominoes()
	return all[s.intn(len(all))]
}

func (g *uniformGenerator) Clone() Generator    { return &uniformGenerator{} }
func (g *uniformGenerator) Kind() GeneratorKind { return UniformGenerator }

// bagGenerator emits every shape once per 7-piece cycle, shuffled by the
// engine RNG.
type bagGenerator struct {
	queue []tetris.Tetromino
}

func (g *bagGenerator) Next(s *State) tetris.Tetromino {
	if len(g.queue) == 0 {
		g.refill(s)
	}
	next := g.queue[0]
	g.queue = g.queue[1:]
	return next
}

func (g *bagGenerator) refill(s *State) {
	all := tetris.AllTetrominoes()
	bag := make([]tetris.Tetromino, len(all))
	copy(bag, all[:])
	// Fisher-Yates shuffle driven by the engine RNG.
	for i := len(bag) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		bag[i], bag[j] = bag[j], bag[i]
	}
	g.queue = bag
}

func (g *bagGenerator) Clone() Generator {
	return &bagGenerator{queue: append([]tetris.Tetromino(nil), g.queue...)}
}

func (g *bagGenerator) Kind() GeneratorKind { return BagGenerator }

// recencyWeightedGenerator weights each shape proportionally to the number
// of Next calls since it was last emitted; a shape that has never appeared
// gets the maximum possible weight.
type recencyWeightedGenerator struct {
	tick     int
	lastSeen map[tetris.Tetromino]int
}

func (g *recencyWeightedGenerator) Next(s *State) tetris.Tetromino {
	all := tetris.AllTetrominoes()
	weights := make([]float64, len(all))
	for i, t := range all {
		last, seen := g.lastSeen[t]
		age := g.tick + 1
		if seen {
			age = g.tick - last
		}
		weights[i] = float64(age) + 1
	}
	choice := all[weightedPick(s, weights)]
	g.lastSeen[choice] = g.tick
	g.tick++
	return choice
}

func (g *recencyWeightedGenerator) Clone() Generator {
	cp := make(map[tetris.Tetromino]int, len(g.lastSeen))
	for k, v := range g.lastSeen {
		cp[k] = v
	}
	return &recencyWeightedGenerator{tick: g.tick, lastSeen: cp}
}

func (g *recencyWeightedGenerator) Kind() GeneratorKind { return RecencyWeightedGenerator }

// balanceRelativeGenerator weights each shape inversely proportional to how
// many times it has already appeared, pulling the long-run distribution
// back toward uniform.
type balanceRelativeGenerator struct {
	counts map[tetris.Tetromino]int
}

func (g *balanceRelativeGenerator) Next(s *State) tetris.Tetromino {
	all := tetris.AllTetrominoes()
	weights := make([]float64, len(all))
	for i, t := range all {
		weights[i] = 1 / float64(g.counts[t]+1)
	}
	choice := all[weightedPick(s, weights)]
	g.counts[choice]++
	return choice
}

func (g *balanceRelativeGenerator) Clone() Generator {
	cp := make(map[tetris.Tetromino]int, len(g.counts))
	for k, v := range g.counts {
		cp[k] = v
	}
	return &balanceRelativeGenerator{counts: cp}
}

func (g *balanceRelativeGenerator) Kind() GeneratorKind { return BalanceRelativeGenerator }

// weightedPick chooses an index in [0, len(weights)) with probability
// proportional to weights[i], consuming one RNG draw. If the weights sum to
// zero or less it returns 0 without drawing.
func weightedPick(s *State, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	r := s.nextFloat64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}
