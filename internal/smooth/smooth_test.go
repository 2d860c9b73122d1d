package smooth

import (
	"math"
	"testing"
)

func TestFirstSamplePrimesDirectly(t *testing.T) {
	e := NewEMA(0.1)
	if got := e.Update(0.8); got != 0.8 {
		t.Fatalf("first sample: got %f want 0.8", got)
	}
}

func TestConstantInputConvergesWithoutOvershoot(t *testing.T) {
	for _, alpha := range []float64{0.05, 0.1, 0.15, 0.5} {
		e := NewEMA(alpha)
		e.Update(0)
		prev := 0.0
		for i := 0; i < 500; i++ {
			v := e.Update(1.0)
			if v > 1.0 {
				t.Fatalf("alpha=%f overshot: %f", alpha, v)
			}
			if v < prev {
				t.Fatalf("alpha=%f not monotone: %f after %f", alpha, v, prev)
			}
			prev = v
		}
		if math.Abs(prev-1.0) > 1e-6 {
			t.Fatalf("alpha=%f did not converge: %f", alpha, prev)
		}
	}
}

func TestResetClearsState(t *testing.T) {
	e := NewEMA(0.1)
	e.Update(1.0)
	e.Reset()
	if e.Value() != 0 {
		t.Fatalf("value after reset: %f", e.Value())
	}
	if got := e.Update(0.3); got != 0.3 {
		t.Fatalf("expected re-prime after reset, got %f", got)
	}
}

func TestInvalidAlphaFallsBack(t *testing.T) {
	if a := NewEMA(0).Alpha(); a != 0.1 {
		t.Fatalf("alpha fallback: %f", a)
	}
	if a := NewEMA(1.5).Alpha(); a != 0.1 {
		t.Fatalf("alpha fallback: %f", a)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(2, 0, 1) != 1 {
		t.Fatalf("expected clamp high to be 1")
	}
	if Clamp(-1, 0, 1) != 0 {
		t.Fatalf("expected clamp low to be 0")
	}
	if Clamp(0.5, 0, 1) != 0.5 {
		t.Fatalf("expected clamp middle to be unchanged")
	}
}
