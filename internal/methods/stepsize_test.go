package methods

import (
	"math"
	"testing"
)

func TestValidateStepSizeBounds(t *testing.T) {
	// Domain [0, 10].
	tests := []struct {
		h       float64
		valid   bool
		warned  bool
		comment string
	}{
		{2.0, false, true, "5 steps is too few"},
		{0.1, true, false, "100 steps is fine"},
		{1.0, true, false, "exactly 10 steps is allowed"},
		{10.0 / 60000, true, true, "60k steps is slow but valid"},
		{10.0 / 200000, false, true, "200k steps is rejected"},
		{-0.1, false, true, "negative step"},
	}

	for _, tt := range tests {
		chk := ValidateStepSize(tt.h, 0, 10)
		if chk.Valid != tt.valid {
			t.Errorf("%s: h=%g valid=%v, expected %v", tt.comment, tt.h, chk.Valid, tt.valid)
		}
		if (chk.Warning != "") != tt.warned {
			t.Errorf("%s: h=%g warning=%q", tt.comment, tt.h, chk.Warning)
		}
		if !chk.Valid && chk.Suggested <= 0 {
			t.Errorf("%s: invalid step has no positive suggestion", tt.comment)
		}
	}
}

func TestValidateStepSizeSuggestionsAreUsable(t *testing.T) {
	for _, h := range []float64{5.0, 1e-7} {
		chk := ValidateStepSize(h, 0, 10)
		if chk.Valid {
			continue
		}
		if again := ValidateStepSize(chk.Suggested, 0, 10); !again.Valid {
			t.Errorf("suggested step %g for h=%g is itself invalid: %s", chk.Suggested, h, again.Warning)
		}
	}
}

func TestValidateCoupledStepSize(t *testing.T) {
	if chk := ValidateCoupledStepSize(0, 0, 10); chk.Valid {
		t.Error("zero step should be invalid for coupled systems")
	}
	if chk := ValidateCoupledStepSize(11, 0, 10); chk.Valid {
		t.Error("step exceeding the domain should be invalid")
	}
	chk := ValidateCoupledStepSize(2, 0, 10)
	if chk.Valid {
		t.Error("5 steps should be invalid for coupled systems too")
	}
	chk = ValidateCoupledStepSize(0.9, 0, 10)
	if !chk.Valid {
		t.Errorf("step within domain rejected: %s", chk.Warning)
	}
	if chk.Warning == "" {
		t.Error("step above domain/10 should carry a stability warning")
	}
}

func TestEstimateStepSize(t *testing.T) {
	f := func(tm, y float64) (float64, error) { return tm + y, nil }

	h := EstimateStepSize(f, 0, 1, 10)
	if h <= 0 {
		t.Fatalf("estimate must be positive, got %g", h)
	}
	if h < 10.0/100000 || h > 10.0/10 {
		t.Errorf("estimate %g outside clamp bounds [%g, %g]", h, 10.0/100000, 10.0/10)
	}
	if chk := ValidateStepSize(h, 0, 10); !chk.Valid {
		t.Errorf("estimated step %g fails its own advisory: %s", h, chk.Warning)
	}
}

func TestEstimateStepSizeFallback(t *testing.T) {
	zero := func(tm, y float64) (float64, error) { return 0, nil }
	h := EstimateStepSize(zero, 0, 1, 10)
	if math.Abs(h-math.Min(0.1, 10.0/100)) > 1e-15 {
		t.Errorf("expected fallback min(0.1, domain/100), got %g", h)
	}

	failing := func(tm, y float64) (float64, error) { return math.NaN(), nil }
	h = EstimateStepSize(failing, 0, 1, 10)
	if h <= 0 {
		t.Errorf("fallback must be positive, got %g", h)
	}
}

func TestEstimateCoupledStepSize(t *testing.T) {
	f := func(tm float64, y []float64) ([]float64, error) {
		return []float64{y[1], -y[0]}, nil
	}

	h := EstimateCoupledStepSize(f, 0, []float64{1, 0}, 10)
	if h <= 0 {
		t.Fatalf("estimate must be positive, got %g", h)
	}

	scalar := EstimateStepSize(func(tm, y float64) (float64, error) { return 1, nil }, 0, 1, 10)
	coupled := EstimateCoupledStepSize(func(tm float64, y []float64) ([]float64, error) {
		return []float64{1}, nil
	}, 0, []float64{1}, 10)
	if coupled >= scalar {
		t.Errorf("coupled estimate %g should be tighter than scalar %g", coupled, scalar)
	}
}
