package accum

import "testing"

func triples(start, n int) []float32 {
	out := make([]float32, 0, n*3)
	for i := 0; i < n*3; i++ {
		out = append(out, float32(start+i))
	}
	return out
}

func TestWindowAppendWithinCap(t *testing.T) {
	w := NewWindow(30)
	w.Append(triples(0, 4))

	if got := w.Points(); got != 4 {
		t.Fatalf("Points = %d, want 4", got)
	}
	if w.Data()[0] != 0 || w.Data()[11] != 11 {
		t.Errorf("window contents corrupted: %v", w.Data())
	}
}

func TestWindowEvictsOldestOnOverflow(t *testing.T) {
	w := NewWindow(12) // 4 points
	w.Append(triples(0, 3))  // 0..8
	w.Append(triples(9, 2))  // 9..14, evicts the first point

	if got := len(w.Data()); got != 12 {
		t.Fatalf("len = %d, want 12", got)
	}
	if w.Data()[0] != 3 {
		t.Errorf("front = %v, want 3 (oldest point evicted)", w.Data()[0])
	}
	if w.Data()[11] != 14 {
		t.Errorf("back = %v, want 14", w.Data()[11])
	}
}

func TestWindowOversizedBatchKeepsNewestTail(t *testing.T) {
	w := NewWindow(9) // 3 points
	w.Append(triples(0, 5)) // 15 floats

	if got := len(w.Data()); got != 9 {
		t.Fatalf("len = %d, want 9", got)
	}
	// Only the newest three points survive.
	if w.Data()[0] != 6 || w.Data()[8] != 14 {
		t.Errorf("window = %v, want floats 6..14", w.Data())
	}
}

func TestWindowNeverExceedsCap(t *testing.T) {
	w := NewWindow(30)
	for i := 0; i < 100; i++ {
		w.Append(triples(i, 1+i%7))
		if len(w.Data()) > 30 {
			t.Fatalf("window grew to %d floats after append %d", len(w.Data()), i)
		}
		if len(w.Data())%3 != 0 {
			t.Fatalf("window length %d not triple-aligned after append %d", len(w.Data()), i)
		}
	}
}

func TestWindowClear(t *testing.T) {
	w := NewWindow(30)
	w.Append(triples(0, 5))
	w.Clear()

	if got := w.Points(); got != 0 {
		t.Fatalf("Points = %d after Clear, want 0", got)
	}
	w.Append(triples(0, 2))
	if got := w.Points(); got != 2 {
		t.Fatalf("Points = %d after re-append, want 2", got)
	}
}

func TestWindowShrinkCapEvicts(t *testing.T) {
	w := NewWindow(30)
	w.Append(triples(0, 10))
	w.SetMaxFloats(15)

	if got := len(w.Data()); got != 15 {
		t.Fatalf("len = %d after shrink, want 15", got)
	}
	if w.Data()[0] != 15 {
		t.Errorf("front = %v, want 15 (oldest evicted on shrink)", w.Data()[0])
	}
}
