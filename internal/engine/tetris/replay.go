package tetris

import (
	"fmt"
	"strings"
)

// ModifierReconstructor rebuilds a Modifier from the descriptor it was
// registered under originally. Restore takes a single reconstructor and
// calls it with each full descriptor (in the "<MOD_ID>\n<JSON-arguments>"
// convention); dispatching on the ID is up to the reconstructor.
type ModifierReconstructor func(descriptor string) (Modifier, error)

// descriptorID is the "<MOD_ID>" prefix of a descriptor, used to name a
// modifier in the reconstruction warning without dumping its JSON payload.
func descriptorID(descriptor string) string {
	id, _, _ := strings.Cut(descriptor, "\n")
	return id
}

// newReconstructionWarning coalesces every descriptor that failed to
// reconstruct into one synthetic modifier emitting a single FeedbackText
// warning on the first tick it observes, then staying silent.
func newReconstructionWarning(failures []string) Modifier {
	fired := false
	return Modifier{
		Descriptor: "RECONSTRUCTION_WARNING\n{}",
		Func: func(u *UpdatePoint, cfg *Configuration, init *InitialValues, s *State, phase *Phase, feedback *[]FeedbackMessage) {
			if fired || u.Kind != MainLoopHead {
				return
			}
			fired = true
			*feedback = append(*feedback, FeedbackMessage{
				Kind: FeedbackText,
				Text: "modifier reconstruction failed: " + strings.Join(failures, "; "),
			})
		},
	}
}

// Restore rebuilds a game from a builder plus a recorded
// input history, replaying the first upToIndex entries. Modifiers are
// reconstructed by descriptor via reconstruct; descriptors it can't
// handle are dropped and reported through one synthetic warning modifier
// instead of failing the restore outright.
func Restore(builder *GameBuilder, modDescriptors []string, reconstruct ModifierReconstructor, history []TimedButtonChange, upToIndex int) (*Game, error) {
	var mods []Modifier
	var failures []string
	for _, desc := range modDescriptors {
		if reconstruct == nil {
			failures = append(failures, fmt.Sprintf("%q: %v", descriptorID(desc), errUnreconstructable))
			continue
		}
		m, err := reconstruct(desc)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%q: %v", descriptorID(desc), err))
			continue
		}
		mods = append(mods, m)
	}
	if len(failures) > 0 {
		mods = append(mods, newReconstructionWarning(failures))
	}

	g, err := builder.BuildModded(mods)
	if err != nil {
		return nil, err
	}

	savedVerbosity := g.config.FeedbackVerbosity
	g.config.FeedbackVerbosity = Silent

	if upToIndex > len(history) {
		upToIndex = len(history)
	}
	for _, entry := range history[:upToIndex] {
		change := entry.Change
		_, err := g.Update(entry.Time, &change)
		if err != nil && err != ErrGameEnded && err != ErrTargetTimeInPast {
			g.config.FeedbackVerbosity = savedVerbosity
			return nil, err
		}
	}

	g.config.FeedbackVerbosity = savedVerbosity
	return g, nil
}
