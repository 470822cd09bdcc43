package viewer

// WheelTicker turns wheel deltas into whole detent ticks. Wheels which
// report one unit per detent pass through unchanged; smooth wheels and
// touchpads accumulate until a full detent is reached.
type WheelTicker struct {
	// Step is the delta of one detent. Zero means 1.
	Step float64

	sum float64
}

// Ticks returns the number of detents completed by d. The remainder is
// kept for the next call and dropped when the direction changes.
func (w *WheelTicker) Ticks(d float64) int {
	if d == 0 {
		return 0
	}
	step := w.Step
	if step <= 0 {
		step = 1
	}
	if (d < 0) != (w.sum < 0) {
		w.sum = 0
	}
	w.sum += d / step
	n := int(w.sum)
	w.sum -= float64(n)
	return n
}
