package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/odelab/internal/solver"
)

func TestDownsample(t *testing.T) {
	short := []float64{1, 2, 3}
	if got := downsample(short, 400); len(got) != 3 {
		t.Errorf("short series resampled: got %d samples", len(got))
	}

	long := make([]float64, 5000)
	for i := range long {
		long[i] = float64(i)
	}
	got := downsample(long, 400)
	if len(got) != 400 {
		t.Fatalf("expected 400 samples, got %d", len(got))
	}
	if got[0] != 0 || got[399] != 4999 {
		t.Errorf("endpoints not preserved: first=%v last=%v", got[0], got[399])
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("downsample reordered data at %d", i)
		}
	}
}

func TestLineTooShort(t *testing.T) {
	if out := Line([]float64{1}, "y"); !strings.Contains(out, "not enough data") {
		t.Errorf("expected placeholder for single-point series, got %q", out)
	}
}

func TestPlotSolutionFailure(t *testing.T) {
	sol := &solver.Solution{Success: false, Error: "unknown method: verlet"}
	out := PlotSolution("-y", sol)
	if !strings.Contains(out, "unknown method: verlet") {
		t.Errorf("failure message not rendered: %q", out)
	}
}

func TestCanvasSet(t *testing.T) {
	c := newCanvas(2, 1)
	c.set(0, 0)
	out := c.String()
	if !strings.ContainsRune(out, 0x2801) {
		t.Errorf("top-left sub-pixel not set: %q", out)
	}
	// out of range is a no-op
	c.set(-1, 0)
	c.set(100, 100)
}

func TestPhasePlot(t *testing.T) {
	n := 200
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		th := 2 * math.Pi * float64(i) / float64(n-1)
		xs[i] = math.Cos(th)
		ys[i] = math.Sin(th)
	}

	out := PhasePlot(xs, ys, 40, 12)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 13 {
		t.Fatalf("expected 12 canvas rows plus a range line, got %d", len(lines))
	}
	set := 0
	for _, r := range out {
		if r > 0x2800 && r <= 0x28FF {
			set++
		}
	}
	if set == 0 {
		t.Error("no sub-pixels set on the canvas")
	}
	if !strings.Contains(out, "x ∈ [") {
		t.Errorf("range footer missing: %q", lines[len(lines)-1])
	}
}

func TestPhasePlotDegenerate(t *testing.T) {
	if out := PhasePlot([]float64{1}, []float64{1}, 10, 10); !strings.Contains(out, "not enough data") {
		t.Errorf("expected placeholder, got %q", out)
	}
	// a constant trajectory must not divide by zero
	xs := []float64{1, 1, 1}
	ys := []float64{2, 2, 2}
	if out := PhasePlot(xs, ys, 10, 5); out == "" {
		t.Error("constant trajectory produced no output")
	}
}
