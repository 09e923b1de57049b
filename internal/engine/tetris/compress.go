package tetris

// ButtonChangeBitsize is 1 + ceil(log2(#buttons)): one bit for press/release
// plus enough bits to hold a button ordinal. With 11 buttons that's 1+4=5.
const ButtonChangeBitsize = 5

// TimedButtonChange is one entry of an input history: a button change at an
// absolute in-game instant.
type TimedButtonChange struct {
	Time   Millis
	Change ButtonChange
}

// Compress encodes an input history as a slice of compressed values, one
// per entry. Each value's low ButtonChangeBitsize bits hold the button
// change; the remaining high bits hold the millisecond delta from the
// previous entry's time (or the absolute time, for the first entry).
func Compress(history []TimedButtonChange) []uint64 {
	out := make([]uint64, len(history))
	var prev Millis
	for i, h := range history {
		var delta Millis
		if i == 0 {
			delta = h.Time
		} else {
			delta = h.Time - prev
		}
		prev = h.Time

		var pressBit uint64
		if h.Change.Pressed {
			pressBit = 1
		}
		low := (uint64(h.Change.Button) << 1) | pressBit
		out[i] = (uint64(delta) << ButtonChangeBitsize) | low
	}
	return out
}

// Decompress reverses Compress, reconstructing absolute times from the
// chain of deltas.
func Decompress(values []uint64) []TimedButtonChange {
	out := make([]TimedButtonChange, len(values))
	var t Millis
	for i, v := range values {
		low := v & ((1 << ButtonChangeBitsize) - 1)
		delta := Millis(v >> ButtonChangeBitsize)
		pressed := low&1 == 1
		button := Button(low >> 1)

		if i == 0 {
			t = delta
		} else {
			t += delta
		}
		out[i] = TimedButtonChange{Time: t, Change: ButtonChange{Button: button, Pressed: pressed}}
	}
	return out
}
