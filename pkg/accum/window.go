// Package accum keeps the sliding windows of generated points between
// frames and the projections that flatten 3D data for the 2D view.
package accum

// Window is a bounded sliding window of packed xyz float triples. Appending
// past the cap evicts the oldest floats; the length never exceeds the cap.
type Window struct {
	data []float32
	max  int
}

// NewWindow creates a window holding at most maxFloats values.
func NewWindow(maxFloats int) *Window {
	return &Window{
		data: make([]float32, 0, maxFloats),
		max:  maxFloats,
	}
}

// Append adds a batch, evicting from the front when the combined length
// would exceed the cap. A batch larger than the whole window keeps only its
// newest floats, cut on a triple boundary.
func (w *Window) Append(batch []float32) {
	if len(batch) > w.max {
		drop := len(batch) - w.max
		drop += (3 - drop%3) % 3
		batch = batch[drop:]
	}
	if overflow := len(w.data) + len(batch) - w.max; overflow > 0 {
		if overflow < len(w.data) {
			w.data = w.data[:copy(w.data, w.data[overflow:])]
		} else {
			w.data = w.data[:0]
		}
	}
	w.data = append(w.data, batch...)
}

// Data returns the window contents, oldest first. The slice is only valid
// until the next Append or Clear.
func (w *Window) Data() []float32 { return w.data }

// Points returns the number of xyz triples held.
func (w *Window) Points() int { return len(w.data) / 3 }

// Clear empties the window without releasing its capacity.
func (w *Window) Clear() { w.data = w.data[:0] }

// SetMaxFloats changes the cap, evicting the oldest floats if the current
// contents no longer fit.
func (w *Window) SetMaxFloats(maxFloats int) {
	w.max = maxFloats
	if overflow := len(w.data) - maxFloats; overflow > 0 {
		w.data = w.data[:copy(w.data, w.data[overflow:])]
	}
}

// MaxFloats returns the current cap.
func (w *Window) MaxFloats() int { return w.max }
