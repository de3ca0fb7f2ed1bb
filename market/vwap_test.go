package market

import (
	"math"
	"testing"
	"time"
)

func TestVWAPWindow_Empty(t *testing.T) {
	w := NewVWAPWindow(300)

	if got := w.VWAP(); got != 0.0 {
		t.Errorf("Expected VWAP 0.0 on empty window, got %f", got)
	}
	if w.Ready() {
		t.Error("Empty window should not be ready")
	}
	if removed := w.PruneBefore(time.Now()); removed != 0 {
		t.Errorf("Pruning empty window removed %d records", removed)
	}
}

func TestVWAPWindow_AccumulatorsMatchRecords(t *testing.T) {
	w := NewVWAPWindow(10)
	t0 := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	type tick struct {
		price  float64
		volume int
		offset time.Duration
	}
	ticks := []tick{
		{100.00, 100, 0},
		{100.10, 100, 1 * time.Second},
		{99.50, 200, 2 * time.Second},
		{99.90, 50, 8 * time.Second},
		{100.20, 150, 12 * time.Second},
		{100.05, 75, 15 * time.Second},
	}

	for _, tk := range ticks {
		ts := t0.Add(tk.offset)
		w.Add(tk.price, tk.volume, ts)
		cutoff := ts.Add(-10 * time.Second)
		w.PruneBefore(cutoff)

		// Recompute the sums over the ticks that should remain.
		var wantPV float64
		var wantVol int64
		count := 0
		for _, other := range ticks {
			ots := t0.Add(other.offset)
			if ots.After(ts) {
				continue
			}
			if ots.Before(cutoff) {
				continue
			}
			wantPV += other.price * float64(other.volume)
			wantVol += int64(other.volume)
			count++
		}

		if w.Volume() != wantVol {
			t.Fatalf("At offset %v: cumulative volume %d, want %d", tk.offset, w.Volume(), wantVol)
		}
		if w.Size() != count {
			t.Fatalf("At offset %v: window size %d, want %d", tk.offset, w.Size(), count)
		}
		wantVWAP := 0.0
		if wantVol != 0 {
			wantVWAP = wantPV / float64(wantVol)
		}
		if math.Abs(w.VWAP()-wantVWAP) > 1e-9 {
			t.Fatalf("At offset %v: VWAP %f, want %f", tk.offset, w.VWAP(), wantVWAP)
		}
	}
}

func TestVWAPWindow_KnownValue(t *testing.T) {
	w := NewVWAPWindow(300)
	t0 := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	w.Add(100.00, 100, t0)
	w.Add(100.10, 100, t0.Add(1*time.Second))
	w.Add(99.50, 200, t0.Add(2*time.Second))

	// (100.00*100 + 100.10*100 + 99.50*200) / 400
	want := 99.775
	if math.Abs(w.VWAP()-want) > 1e-9 {
		t.Errorf("VWAP = %f, want %f", w.VWAP(), want)
	}
}

func TestVWAPWindow_PruneIdempotent(t *testing.T) {
	w := NewVWAPWindow(60)
	t0 := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		w.Add(100.0+float64(i), 10, t0.Add(time.Duration(i)*time.Second))
	}

	cutoff := t0.Add(2 * time.Second)
	first := w.PruneBefore(cutoff)
	if first != 2 {
		t.Fatalf("First prune removed %d, want 2", first)
	}
	vwap := w.VWAP()
	second := w.PruneBefore(cutoff)
	if second != 0 {
		t.Errorf("Second prune with same cutoff removed %d, want 0", second)
	}
	if w.VWAP() != vwap {
		t.Errorf("VWAP changed on idempotent prune: %f vs %f", w.VWAP(), vwap)
	}
}

func TestVWAPWindow_PruneAll(t *testing.T) {
	w := NewVWAPWindow(60)
	t0 := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	w.Add(100.0, 10, t0)
	w.Add(101.0, 20, t0.Add(time.Second))

	removed := w.PruneBefore(t0.Add(time.Hour))
	if removed != 2 {
		t.Fatalf("Removed %d, want 2", removed)
	}
	if w.Size() != 0 || w.Volume() != 0 {
		t.Errorf("Window not empty after full prune: size=%d volume=%d", w.Size(), w.Volume())
	}
	if w.VWAP() != 0.0 {
		t.Errorf("Expected VWAP 0.0 after full prune, got %f", w.VWAP())
	}
}

func TestVWAPWindow_Readiness(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	// Three trades are always enough, regardless of their spread.
	w := NewVWAPWindow(300)
	w.Add(100.0, 1, t0)
	w.Add(100.1, 1, t0.Add(time.Millisecond))
	w.Add(100.2, 1, t0.Add(2*time.Millisecond))
	if !w.Ready() {
		t.Error("Window with 3 trades should be ready")
	}

	// Two trades spanning less than the window are not enough.
	w2 := NewVWAPWindow(300)
	w2.Add(100.0, 1, t0)
	w2.Add(100.1, 1, t0.Add(10*time.Second))
	if w2.Ready() {
		t.Error("Window with 2 trades spanning 10s of a 300s window should not be ready")
	}

	// Two trades spanning the full window are enough.
	w3 := NewVWAPWindow(300)
	w3.Add(100.0, 1, t0)
	w3.Add(100.1, 1, t0.Add(300*time.Second))
	if !w3.Ready() {
		t.Error("Window with 2 trades spanning the full window should be ready")
	}

	// A single trade spans zero seconds and is never ready.
	w4 := NewVWAPWindow(300)
	w4.Add(100.0, 1, t0)
	if w4.Ready() {
		t.Error("Window with 1 trade should not be ready")
	}
}

func TestVWAPWindow_Reset(t *testing.T) {
	w := NewVWAPWindow(300)
	t0 := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	w.Add(100.0, 10, t0)
	w.Add(101.0, 10, t0.Add(time.Second))
	w.Add(102.0, 10, t0.Add(2*time.Second))

	w.Reset()
	if w.Size() != 0 || w.Volume() != 0 || w.VWAP() != 0.0 {
		t.Errorf("Reset left state behind: size=%d volume=%d vwap=%f", w.Size(), w.Volume(), w.VWAP())
	}
	if w.Ready() {
		t.Error("Reset window should not be ready")
	}

	// The window keeps working after a reset.
	w.Add(50.0, 4, t0.Add(time.Minute))
	if w.VWAP() != 50.0 {
		t.Errorf("VWAP after reset = %f, want 50.0", w.VWAP())
	}
}

func TestVWAPWindow_SetWindowSeconds(t *testing.T) {
	w := NewVWAPWindow(300)
	if w.WindowSeconds() != 300 {
		t.Fatalf("WindowSeconds = %d, want 300", w.WindowSeconds())
	}
	w.SetWindowSeconds(60)
	if w.WindowSeconds() != 60 {
		t.Fatalf("WindowSeconds = %d, want 60", w.WindowSeconds())
	}

	// Readiness via span now uses the shorter window.
	t0 := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	w.Add(100.0, 1, t0)
	w.Add(100.1, 1, t0.Add(60*time.Second))
	if !w.Ready() {
		t.Error("Two trades spanning the shortened window should be ready")
	}
}
