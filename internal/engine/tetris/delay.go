package tetris

import "math"

// computeDelayFactor evaluates max(0, mul^k - sub*k), guarding against
// negative results and against mul <= 0 producing NaN/Inf for fractional k
// (k is always a non-negative integer here, so math.Pow is well-defined,
// but the clamp also protects against pathological configuration values).
func computeDelayFactor(eq DelayEquation, k int) float64 {
	factor := math.Pow(eq.Mul, float64(k)) - eq.Sub*float64(k)
	if factor < 0 {
		return 0
	}
	return factor
}

func clampMillis(v Millis, lowerbound Millis) Millis {
	if v < lowerbound {
		return lowerbound
	}
	return v
}

// computeDelays derives the current delays: given the configuration, the game's
// original delays, the lineclear count at which fall first hit its floor
// (nil if it hasn't yet), and the current lineclear count k, it returns the
// new (fallDelay, lockDelay, lowerboundHitNow); lowerboundHitNow is true
// exactly when this call is the one that first clamps fall delay to its
// floor.
func computeDelays(cfg Configuration, init InitialValues, lowerboundHitAt *int, k int) (fallDelay, lockDelay Millis, lowerboundHitNow bool) {
	if lowerboundHitAt == nil {
		factor := computeDelayFactor(cfg.FallDelayEquation, k)
		fall := Millis(float64(init.InitialFallDelay) * factor)
		fall = clampMillis(fall, cfg.FallDelayLowerbound)
		hitNow := fall == cfg.FallDelayLowerbound
		return fall, init.InitialLockDelay, hitNow
	}

	kk := k - *lowerboundHitAt
	factor := computeDelayFactor(cfg.LockDelayEquation, kk)
	lock := Millis(float64(init.InitialLockDelay) * factor)
	lock = clampMillis(lock, cfg.LockDelayLowerbound)
	return cfg.FallDelayLowerbound, lock, false
}
